package dryrun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabuzafr/lparsync/internal/model"
)

func TestRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := New()

	_, err := reg.GetHost(ctx, "h1")
	assert.ErrorIs(t, err, model.ErrHostNotFound)

	assert.ErrorIs(t, reg.AddWWPNs(ctx, "h1", []string{"50:01:43:80:00:00:00:01"}), model.ErrHostNotFound)

	_, err = reg.CreateHost(ctx, "h1")
	require.NoError(t, err)

	require.NoError(t, reg.AddWWPNs(ctx, "h1", []string{"50:01:43:80:00:00:00:01"}))

	host, err := reg.GetHost(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"50:01:43:80:00:00:00:01"}, host.WWPNs)
}

func TestSeed(t *testing.T) {
	reg := New()
	reg.Seed("h1", "50:01:43:80:00:00:00:01")

	host, err := reg.GetHost(context.Background(), "h1")
	require.NoError(t, err)
	assert.Len(t, host.WWPNs, 1)
}
