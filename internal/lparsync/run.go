// Package lparsync wires one discovery and reconciliation pass together.
package lparsync

import (
	"context"
	"os"
	"strings"

	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zabuzafr/lparsync/internal/config"
	"github.com/zabuzafr/lparsync/internal/hmc"
	"github.com/zabuzafr/lparsync/internal/inventory"
	"github.com/zabuzafr/lparsync/internal/log"
	"github.com/zabuzafr/lparsync/internal/metrics"
	"github.com/zabuzafr/lparsync/internal/model"
	"github.com/zabuzafr/lparsync/internal/profiling"
	"github.com/zabuzafr/lparsync/internal/reconcile"
	"github.com/zabuzafr/lparsync/internal/store"
	"github.com/zabuzafr/lparsync/internal/version"
)

// Run executes one full pass: discover the LPAR inventory from the HMC,
// report it, and reconcile the host registry. Returns
// model.ErrNoPartitions when discovery comes back empty.
func Run(ctx context.Context, args *model.Args) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log.SetLevel(cfg.LogLevel)

	logger := log.NewLogrusLogger(cfg.LogLevel)

	metrics.ListenAndServe()
	version.ExportBuildInfoMetric()

	if cfg.EnableProfiling {
		profiling.Enable()
	}

	ctx, otelShutdown := otelinit.InitOpenTelemetry(ctx, model.AppName)
	defer otelShutdown(ctx)

	v, err := version.Current().AsMap()
	if err != nil {
		return err
	}

	loggerEntry := logger.WithFields(v).WithField("runID", uuid.New().String())
	loggerEntry.WithFields(asFields(cfg.AsLogFields())).Infof("Initializing %s", model.AppName)

	channel := hmc.NewSSHChannel(cfg.HMCOptions)
	console := hmc.NewClient(channel, cfg.HMCOptions, loggerEntry)

	aggregator := inventory.NewAggregator(console, loggerEntry, cfg.Concurrency, cfg.ExcludedPartitions)

	inv := aggregator.Discover(ctx, cfg.ManagedSystem)
	if len(inv) == 0 {
		loggerEntry.Error("no LPARs discovered, check HMC credentials and filters")
		return model.ErrNoPartitions
	}

	reportInventory(loggerEntry, inv, cfg.HostPrefix)

	registry, err := store.NewRegistry(ctx, cfg, loggerEntry)
	if err != nil {
		return err
	}

	reconciler := reconcile.New(registry, cfg.Concurrency, !cfg.Apply)

	outcomes := reconciler.Reconcile(ctx, inv, cfg.HostPrefix)

	failed := 0

	for _, o := range outcomes {
		if o.State == reconcile.StateFailed {
			failed++
		}
	}

	loggerEntry.WithFields(logrus.Fields{
		"lpars":  len(inv),
		"hosts":  len(outcomes),
		"failed": failed,
		"dryRun": !cfg.Apply,
	}).Info("run complete")

	if cfg.DumpInventory {
		if err := inventory.Dump(os.Stdout, inv); err != nil {
			return err
		}
	}

	return nil
}

func reportInventory(logger *logrus.Entry, inv model.Inventory, hostPrefix string) {
	for _, name := range inv.Names() {
		lp := inv[name]

		wwpns := make([]string, 0, len(lp.WWPNs))
		for _, p := range lp.WWPNs {
			wwpns = append(wwpns, p.String())
		}

		macs := make([]string, 0, len(lp.MACs))
		for _, p := range lp.MACs {
			macs = append(macs, p.String())
		}

		logger.WithFields(logrus.Fields{
			"lpar":  name,
			"wwpns": strings.Join(wwpns, ","),
			"macs":  strings.Join(macs, ","),
			"host":  hostPrefix + name,
		}).Info("discovered LPAR")
	}
}

func asFields(kv []any) logrus.Fields {
	fields := logrus.Fields{}

	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			fields[key] = kv[i+1]
		}
	}

	return fields
}
