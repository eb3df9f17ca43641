package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zabuzafr/lparsync/internal/config"
	"github.com/zabuzafr/lparsync/internal/model"
	"github.com/zabuzafr/lparsync/internal/store/dryrun"
	"github.com/zabuzafr/lparsync/internal/store/flasharray"
)

// Registry abstracts the remote host registry. Implementations only ever
// read a host's port set and append to it.
type Registry interface {
	// GetHost returns the record for name, or model.ErrHostNotFound.
	GetHost(ctx context.Context, name string) (*model.HostRecord, error)
	// CreateHost creates an empty host record.
	CreateHost(ctx context.Context, name string) (*model.HostRecord, error)
	// AddWWPNs appends the given WWPNs to the host's port set.
	AddWWPNs(ctx context.Context, name string, wwpns []string) error
}

// NewRegistry opens the configured host registry. A dry run with no array
// credential falls back to an offline in-memory registry so discovery can be
// previewed without an array at hand.
func NewRegistry(ctx context.Context, cfg *config.Configuration, logger *logrus.Entry) (Registry, error) {
	_, credErr := cfg.ArrayOptions.Credential()
	if cfg.ArrayOptions.Endpoint == "" || credErr != nil {
		if cfg.Apply {
			if credErr != nil {
				return nil, credErr
			}

			return nil, errors.Wrap(model.ErrConfig, "array.endpoint not defined")
		}

		logger.Warn("array endpoint or credential not configured, using offline registry")

		return dryrun.New(), nil
	}

	return flasharray.New(ctx, cfg.ArrayOptions, logger)
}
