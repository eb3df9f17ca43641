package reconcile

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabuzafr/lparsync/internal/model"
	"github.com/zabuzafr/lparsync/internal/store/dryrun"
)

// countingRegistry wraps the dryrun registry and counts mutations, with an
// optional per-host failure injection.
type countingRegistry struct {
	*dryrun.Registry

	mu      sync.Mutex
	creates int
	adds    int
	failOn  map[string]error
}

func newCountingRegistry() *countingRegistry {
	return &countingRegistry{Registry: dryrun.New(), failOn: map[string]error{}}
}

func (c *countingRegistry) GetHost(ctx context.Context, name string) (*model.HostRecord, error) {
	if err := c.failOn[name]; err != nil {
		return nil, err
	}

	return c.Registry.GetHost(ctx, name)
}

func (c *countingRegistry) CreateHost(ctx context.Context, name string) (*model.HostRecord, error) {
	c.mu.Lock()
	c.creates++
	c.mu.Unlock()

	return c.Registry.CreateHost(ctx, name)
}

func (c *countingRegistry) AddWWPNs(ctx context.Context, name string, wwpns []string) error {
	c.mu.Lock()
	c.adds++
	c.mu.Unlock()

	return c.Registry.AddWWPNs(ctx, name, wwpns)
}

func outcomeFor(t *testing.T, outcomes []Outcome, host string) Outcome {
	t.Helper()

	for _, o := range outcomes {
		if o.Host == host {
			return o
		}
	}

	t.Fatalf("no outcome for host %s", host)

	return Outcome{}
}

func TestReconcileAppliesPlan(t *testing.T) {
	reg := newCountingRegistry()
	inv := testInventory(t, "lpar1;5001438000000001,5001438000000002")

	rec := New(reg, 2, false)
	outcomes := rec.Reconcile(context.Background(), inv, "px-")

	require.Len(t, outcomes, 1)
	assert.Equal(t, StateApplied, outcomes[0].State)
	assert.Equal(t, 2, outcomes[0].Added)

	wwpns, ok := reg.Host("px-lpar1")
	require.True(t, ok, "host should have been created")
	assert.Equal(t,
		[]string{"50:01:43:80:00:00:00:01", "50:01:43:80:00:00:00:02"},
		wwpns)
}

func TestReconcileIsIdempotent(t *testing.T) {
	reg := newCountingRegistry()
	inv := testInventory(t, "lpar1;5001438000000001")

	rec := New(reg, 1, false)

	outcomes := rec.Reconcile(context.Background(), inv, "")
	assert.Equal(t, StateApplied, outcomes[0].State)

	outcomes = rec.Reconcile(context.Background(), inv, "")
	assert.Equal(t, StateUpToDate, outcomes[0].State)
	// one create and one add from the first pass only
	assert.Equal(t, 1, reg.creates)
	assert.Equal(t, 1, reg.adds)
}

func TestReconcileDryRunNeverMutates(t *testing.T) {
	reg := newCountingRegistry()
	inv := testInventory(t,
		"lpar1;5001438000000001",
		"lpar2;5001438000000002,5001438000000003",
	)

	rec := New(reg, 2, true)
	outcomes := rec.Reconcile(context.Background(), inv, "")

	require.Len(t, outcomes, 2)

	o := outcomeFor(t, outcomes, "lpar2")
	assert.Equal(t, StateDryRunReported, o.State)
	assert.Equal(t, 2, o.Added)

	assert.Zero(t, reg.creates)
	assert.Zero(t, reg.adds)
}

func TestReconcileIsolatesHostFailures(t *testing.T) {
	reg := newCountingRegistry()
	reg.failOn["h1"] = errors.New("registry unreachable")

	inv := testInventory(t,
		"h1;5001438000000001",
		"h2;5001438000000002",
	)

	rec := New(reg, 1, false)
	outcomes := rec.Reconcile(context.Background(), inv, "")

	require.Len(t, outcomes, 2)

	failed := outcomeFor(t, outcomes, "h1")
	assert.Equal(t, StateFailed, failed.State)
	assert.Error(t, failed.Err)
	assert.Zero(t, failed.Added)

	applied := outcomeFor(t, outcomes, "h2")
	assert.Equal(t, StateApplied, applied.State)

	_, ok := reg.Host("h1")
	assert.False(t, ok, "failed host must not be mutated")
}

func TestReconcileAddsOnlyMissingPorts(t *testing.T) {
	reg := newCountingRegistry()
	reg.Seed("lpar1", "50:01:43:80:00:00:00:02")

	inv := testInventory(t, "lpar1;5001438000000001,5001438000000002,5001438000000003")

	rec := New(reg, 1, false)
	outcomes := rec.Reconcile(context.Background(), inv, "")

	require.Len(t, outcomes, 1)
	assert.Equal(t, StateApplied, outcomes[0].State)
	assert.Equal(t, 2, outcomes[0].Added)

	wwpns, _ := reg.Host("lpar1")
	assert.Equal(t, []string{
		"50:01:43:80:00:00:00:02",
		"50:01:43:80:00:00:00:01",
		"50:01:43:80:00:00:00:03",
	}, wwpns)
}
