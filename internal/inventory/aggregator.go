// Package inventory builds the per-run LPAR inventory by fanning discovery
// out across managed systems and merging the results.
package inventory

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/zabuzafr/lparsync/internal/hmc"
	"github.com/zabuzafr/lparsync/internal/identity"
	"github.com/zabuzafr/lparsync/internal/metrics"
	"github.com/zabuzafr/lparsync/internal/model"
)

var pkgName = "internal/inventory"

// Source provides the raw per-system discovery data.
type Source interface {
	ListManagedSystems(ctx context.Context) ([]string, error)
	FibreChannelPorts(ctx context.Context, system string) ([]hmc.PartitionPorts, error)
	EthernetPorts(ctx context.Context, system string) hmc.EthernetResult
}

// Aggregator merges per-system discovery results into one Inventory.
type Aggregator struct {
	source      Source
	logger      *logrus.Entry
	concurrency int
	excluded    map[string]struct{}
}

// NewAggregator builds an aggregator. Names in excluded are dropped from the
// inventory entirely.
func NewAggregator(source Source, logger *logrus.Entry, concurrency int, excluded []string) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}

	exclusionSet := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		exclusionSet[name] = struct{}{}
	}

	return &Aggregator{
		source:      source,
		logger:      logger,
		concurrency: concurrency,
		excluded:    exclusionSet,
	}
}

// systemRecords is one worker's private accumulator. Workers never share
// these; the merge loop owns the inventory map.
type systemRecords struct {
	system string
	fc     []hmc.PartitionPorts
	eth    []hmc.PartitionPorts
}

// Discover runs discovery against every managed system (or just the pinned
// one) and returns the merged inventory. Unreachable systems contribute
// nothing; an empty inventory is a valid result the caller interprets.
func (a *Aggregator) Discover(ctx context.Context, pinnedSystem string) model.Inventory {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "inventory.Discover")
	defer span.End()

	systems := a.managedSystems(ctx, pinnedSystem)
	results := make([]systemRecords, len(systems))

	var wg sync.WaitGroup

	sem := make(chan struct{}, a.concurrency)

	for i, system := range systems {
		wg.Add(1)

		go func(i int, system string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			results[i] = a.scanSystem(ctx, system)
		}(i, system)
	}

	wg.Wait()

	inv := a.merge(results)
	metrics.PartitionsDiscovered.Set(float64(len(inv)))

	return inv
}

func (a *Aggregator) managedSystems(ctx context.Context, pinnedSystem string) []string {
	if pinnedSystem != "" {
		return []string{pinnedSystem}
	}

	systems, err := a.source.ListManagedSystems(ctx)
	if err != nil {
		a.logger.WithError(err).Error("managed system listing failed")
		return nil
	}

	return systems
}

func (a *Aggregator) scanSystem(ctx context.Context, system string) systemRecords {
	metrics.ManagedSystemsScanned.Inc()

	rec := systemRecords{system: system}

	fc, err := a.source.FibreChannelPorts(ctx, system)
	if err != nil {
		// Already logged by the source; the system contributes zero
		// LPARs.
		metrics.ManagedSystemErrors.Inc()
		return rec
	}

	rec.fc = fc

	eth := a.source.EthernetPorts(ctx, system)
	if eth.Capability == hmc.EthernetSupported {
		rec.eth = eth.Ports
	}

	return rec
}

// merge folds the per-system records into the inventory. Systems are folded
// in listing order, so for a duplicated LPAR name the later system's record
// wins; names are expected unique per environment and a collision is a
// configuration anomaly, not a crash.
func (a *Aggregator) merge(results []systemRecords) model.Inventory {
	inv := model.Inventory{}

	for _, rec := range results {
		macIndex := make(map[string][]identity.PortIdentifier, len(rec.eth))
		for _, eth := range rec.eth {
			macIndex[eth.Partition] = eth.Ports
		}

		for _, fc := range rec.fc {
			if _, skip := a.excluded[fc.Partition]; skip {
				a.logger.WithFields(logrus.Fields{
					"lpar":   fc.Partition,
					"system": rec.system,
				}).Debug("LPAR excluded by filter")

				continue
			}

			inv[fc.Partition] = &model.LogicalPartition{
				Name:  fc.Partition,
				WWPNs: fc.Ports,
				MACs:  macIndex[fc.Partition],
			}
		}
	}

	return inv
}
