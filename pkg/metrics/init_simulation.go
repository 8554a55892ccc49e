package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.MuxesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "muxes_total",
			Help:      "Number of routing multiplexers analysed",
		},
	)

	r.ConfigurableEdges = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "configurable_edges_total",
			Help:      "Number of multiplexer input edges analysed",
		},
	)

	r.DefectiveEdges = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "defective_edges_total",
			Help:      "Number of input edges found unusable",
		},
	)

	r.MemoryCells = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "memory_cells_total",
			Help:      "Number of configuration memory cells simulated",
		},
	)

	r.CellFaultsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cell_faults_total",
			Help:      "Memory cell faults by derived fault kind",
		},
		[]string{"kind"},
	)

	r.FaultyResistors = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "faulty_resistors_total",
			Help:      "Number of individually faulty resistors",
		},
	)

	r.GlobalFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "global_failures_total",
			Help:      "Multiplexers whose every input became unusable, by cause",
		},
		[]string{"reason"},
	)

	r.ForcedPathsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "forced_paths_total",
			Help:      "Undisconnectable paths through the second stage",
		},
	)

	r.MuxSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "mux_size",
			Help:      "Distribution of multiplexer input counts",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	r.BlockSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "block_size",
			Help:      "Distribution of chosen first-stage block sizes",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		},
	)

	r.MuxDefectiveFraction = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "mux_defective_fraction",
			Help:      "Fraction of each multiplexer's inputs found unusable",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
}
