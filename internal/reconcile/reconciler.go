package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zabuzafr/lparsync/internal/metrics"
	"github.com/zabuzafr/lparsync/internal/model"
	"github.com/zabuzafr/lparsync/internal/store"
)

var pkgName = "internal/reconcile"

// Reconciler fetches registry state, plans the additive change per host and
// applies it. In dry-run mode the registry is read but never mutated.
type Reconciler struct {
	registry    store.Registry
	concurrency int
	dryRun      bool
}

// New builds a reconciler. dryRun true means report-only.
func New(registry store.Registry, concurrency int, dryRun bool) *Reconciler {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Reconciler{
		registry:    registry,
		concurrency: concurrency,
		dryRun:      dryRun,
	}
}

// Reconcile runs one full pass: state fetch, plan, apply. Per-host failures
// are reported in the outcomes and never abort the remaining hosts.
func (r *Reconciler) Reconcile(ctx context.Context, inv model.Inventory, hostPrefix string) []Outcome {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "reconcile.Reconcile",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	state, fetchErrs := r.fetchState(ctx, inv, hostPrefix)
	plan := BuildPlan(inv, hostPrefix, state)

	return r.apply(ctx, plan, fetchErrs)
}

// fetchState reads the current port set of every host the inventory maps
// to. Hosts the registry does not know are simply absent from the returned
// map; hosts whose lookup failed land in the error map and are reported as
// failed without any mutation attempt.
func (r *Reconciler) fetchState(ctx context.Context, inv model.Inventory, hostPrefix string) (map[string][]string, map[string]error) {
	var mu sync.Mutex

	state := map[string][]string{}
	fetchErrs := map[string]error{}

	var wg sync.WaitGroup

	sem := make(chan struct{}, r.concurrency)

	for _, name := range inv.Names() {
		if len(inv[name].WWPNs) == 0 {
			continue
		}

		wg.Add(1)

		go func(hostName string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			host, err := r.registry.GetHost(ctx, hostName)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				state[hostName] = host.WWPNs
			case errors.Is(err, model.ErrHostNotFound):
				// Unknown host: empty current set, create-then-add.
			default:
				fetchErrs[hostName] = err
			}
		}(hostPrefix + name)
	}

	wg.Wait()

	return state, fetchErrs
}

func (r *Reconciler) apply(ctx context.Context, plan Plan, fetchErrs map[string]error) []Outcome {
	outcomes := make([]Outcome, len(plan.Hosts))

	var wg sync.WaitGroup

	sem := make(chan struct{}, r.concurrency)

	for i, hp := range plan.Hosts {
		wg.Add(1)

		go func(i int, hp HostPlan) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = r.applyHost(ctx, hp, fetchErrs[hp.Host])
		}(i, hp)
	}

	wg.Wait()

	for i := range outcomes {
		o := &outcomes[i]
		metrics.HostsReconciled.WithLabelValues(string(o.State)).Inc()

		if o.State == StateFailed {
			slog.With(o.AsLogFields()...).Error("host reconciliation failed")
			continue
		}

		slog.With(o.AsLogFields()...).Info("host reconciled")
	}

	return outcomes
}

// applyHost drives one host through its run. No retries within a run; a
// failed host is left for the next invocation.
func (r *Reconciler) applyHost(ctx context.Context, hp HostPlan, fetchErr error) Outcome {
	outcome := Outcome{Host: hp.Host, Partition: hp.Partition, Added: len(hp.Add)}

	if fetchErr != nil {
		return outcome.failed(fetchErr)
	}

	if len(hp.Add) == 0 {
		outcome.State = StateUpToDate
		return outcome
	}

	if r.dryRun {
		outcome.State = StateDryRunReported
		return outcome
	}

	if ctx.Err() != nil {
		return outcome.failed(ctx.Err())
	}

	if !hp.Exists {
		if _, err := r.registry.CreateHost(ctx, hp.Host); err != nil {
			return outcome.failed(errors.Wrap(err, "creating host"))
		}
	}

	if err := r.registry.AddWWPNs(ctx, hp.Host, hp.Add); err != nil {
		return outcome.failed(errors.Wrap(err, "adding wwpns"))
	}

	metrics.PortsAdded.Add(float64(len(hp.Add)))
	outcome.State = StateApplied

	return outcome
}

func (o Outcome) failed(err error) Outcome {
	o.State = StateFailed
	o.Err = err
	o.Added = 0

	return o
}
