package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabuzafr/lparsync/internal/hmc"
	"github.com/zabuzafr/lparsync/internal/model"
)

func testInventory(t *testing.T, lines ...string) model.Inventory {
	t.Helper()

	inv := model.Inventory{}

	for _, rec := range hmc.ParseFibreChannel(lines) {
		inv[rec.Partition] = &model.LogicalPartition{Name: rec.Partition, WWPNs: rec.Ports}
	}

	return inv
}

func TestBuildPlanMinimality(t *testing.T) {
	inv := testInventory(t, "lpar1;5001438000000001,5001438000000002,5001438000000003")

	plan := BuildPlan(inv, "px-", map[string][]string{
		"px-lpar1": {"50:01:43:80:00:00:00:02"},
	})

	require.Len(t, plan.Hosts, 1)
	hp := plan.Hosts[0]
	assert.Equal(t, "px-lpar1", hp.Host)
	assert.True(t, hp.Exists)
	// A and C in inventory order, B never re-added
	assert.Equal(t,
		[]string{"50:01:43:80:00:00:00:01", "50:01:43:80:00:00:00:03"},
		hp.Add)
}

func TestBuildPlanIdempotence(t *testing.T) {
	inv := testInventory(t, "lpar1;5001438000000001,5001438000000002")

	plan := BuildPlan(inv, "", map[string][]string{
		"lpar1": {"50:01:43:80:00:00:00:01", "50:01:43:80:00:00:00:02"},
	})

	require.Len(t, plan.Hosts, 1)
	assert.Empty(t, plan.Hosts[0].Add)
}

func TestBuildPlanUnknownHost(t *testing.T) {
	inv := testInventory(t, "lpar1;5001438000000001")

	plan := BuildPlan(inv, "px-", map[string][]string{})

	require.Len(t, plan.Hosts, 1)
	assert.False(t, plan.Hosts[0].Exists)
	assert.Len(t, plan.Hosts[0].Add, 1)
}

func TestBuildPlanSkipsPartitionsWithoutWWPNs(t *testing.T) {
	inv := testInventory(t, "lpar1;5001438000000001")
	inv["diskless"] = &model.LogicalPartition{Name: "diskless"}

	plan := BuildPlan(inv, "", nil)

	require.Len(t, plan.Hosts, 1)
	assert.Equal(t, "lpar1", plan.Hosts[0].Partition)
}

func TestBuildPlanOrderedByPartition(t *testing.T) {
	inv := testInventory(t,
		"zeta;5001438000000001",
		"alpha;5001438000000002",
	)

	plan := BuildPlan(inv, "", nil)

	require.Len(t, plan.Hosts, 2)
	assert.Equal(t, "alpha", plan.Hosts[0].Partition)
	assert.Equal(t, "zeta", plan.Hosts[1].Partition)
}
