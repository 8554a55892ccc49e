package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name
const Namespace = "routesim"

// Registry holds all metrics for the application
type Registry struct {
	// Simulation Metrics
	MuxesTotal           prometheus.Counter
	ConfigurableEdges    prometheus.Counter
	DefectiveEdges       prometheus.Counter
	MemoryCells          prometheus.Counter
	CellFaultsTotal      *prometheus.CounterVec
	FaultyResistors      prometheus.Counter
	GlobalFailuresTotal  *prometheus.CounterVec
	ForcedPathsTotal     prometheus.Counter
	MuxSize              prometheus.Histogram
	BlockSize            prometheus.Histogram
	MuxDefectiveFraction prometheus.Histogram

	// Graph Metrics
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	GraphMuxes         prometheus.Gauge
	EdgesDeletedTotal  prometheus.Counter
	PhaseDuration      *prometheus.HistogramVec
	GraphBytesRead     prometheus.Counter
	RunDurationSeconds prometheus.Gauge

	// System Metrics
	RunStartTimestamp prometheus.Gauge
	GoRoutines        prometheus.Gauge
	MemoryAllocBytes  prometheus.Gauge
	MemorySysBytes    prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		started:  time.Now(),
	}

	// Initialize all metrics
	r.initSimulationMetrics()
	r.initGraphMetrics()
	r.initSystemMetrics()

	r.RunStartTimestamp.Set(float64(r.started.Unix()))
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
