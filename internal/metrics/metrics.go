// Package metrics holds the Prometheus collectors PalletJack's public
// operations report through, following the same counter/histogram pairing
// used elsewhere in the dependency pack.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palletjack",
			Name:      "index_builds_total",
			Help:      "Total number of generate_metadata_index calls, by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)

	IndexBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palletjack",
			Name:      "index_build_duration_seconds",
			Help:      "generate_metadata_index call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{},
	)

	IndexBuildBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palletjack",
			Name:      "index_build_bytes",
			Help:      "Size in bytes of the sidecar produced by generate_metadata_index",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{},
	)

	ReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palletjack",
			Name:      "reads_total",
			Help:      "Total number of read_metadata calls, by outcome",
		},
		[]string{"status"},
	)

	ReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palletjack",
			Name:      "read_duration_seconds",
			Help:      "read_metadata call duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{},
	)

	ReadProjectedColumns = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palletjack",
			Name:      "read_projected_columns",
			Help:      "Number of leaf columns selected per read_metadata call",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
		[]string{},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palletjack",
			Name:      "errors_total",
			Help:      "Total errors by operation and error kind",
		},
		[]string{"operation", "kind"},
	)
)

var registered bool

// Register registers PalletJack's collectors with prometheus's default
// registry. It is idempotent, matching the register-once pattern used
// throughout the examples this package is grounded on; callers embedding
// PalletJack in a larger service call it once at startup.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		IndexBuildsTotal,
		IndexBuildDuration,
		IndexBuildBytes,
		ReadsTotal,
		ReadDuration,
		ReadProjectedColumns,
		ErrorsTotal,
	)
	registered = true
}
