package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Endpoint          = "localhost:9090"
	ReadHeaderTimeout = 2 * time.Second
)

var (
	ManagedSystemsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lparsync_managed_systems_scanned_total",
		Help: "Number of managed systems a discovery pass was attempted on.",
	})

	ManagedSystemErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lparsync_managed_system_errors_total",
		Help: "Number of managed systems whose FC listing failed.",
	})

	PartitionsDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lparsync_partitions_discovered",
		Help: "Number of LPARs in the inventory of the last discovery pass.",
	})

	HostsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lparsync_hosts_reconciled_total",
		Help: "Number of hosts processed by the reconciler, by outcome.",
	}, []string{"outcome"})

	PortsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lparsync_ports_added_total",
		Help: "Number of WWPNs added to registry hosts.",
	})
)

// ListenAndServe exposes the prometheus metrics endpoint.
func ListenAndServe() {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              Endpoint,
			Handler:           mux,
			ReadHeaderTimeout: ReadHeaderTimeout,
		}

		if err := server.ListenAndServe(); err != nil {
			slog.Error("Failed to start metrics server", "error", err)
		}
	}()

	slog.Info("metrics enabled", "endpoint", Endpoint+"/metrics")
}
