package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/mux"
)

// Run phases recorded by RecordPhase
const (
	PhaseRead     = "read"
	PhaseGroup    = "group"
	PhaseSimulate = "simulate"
	PhaseRewrite  = "rewrite"
)

// RecordMux records the statistics of one analysed multiplexer
func (r *Registry) RecordMux(s mux.Stats) {
	r.MuxesTotal.Inc()
	r.ConfigurableEdges.Add(float64(s.Inputs))
	r.DefectiveEdges.Add(float64(s.DefectiveEdges))
	r.MemoryCells.Add(float64(s.MemoryCells))
	r.FaultyResistors.Add(float64(s.FaultyResistors))
	r.ForcedPathsTotal.Add(float64(s.Analysis.ForcedPaths))

	for _, k := range fault.Kinds {
		if k.IsFaulty() {
			r.CellFaultsTotal.WithLabelValues(k.String()).Add(float64(s.Faults.Get(k)))
		}
	}
	if s.Analysis.GlobalFailure() {
		r.GlobalFailuresTotal.WithLabelValues(s.Analysis.Reason.String()).Inc()
	}

	r.MuxSize.Observe(float64(s.Inputs))
	r.BlockSize.Observe(float64(s.BlockSize))
	if s.Inputs > 0 {
		r.MuxDefectiveFraction.Observe(float64(s.DefectiveEdges) / float64(s.Inputs))
	}
}

// RecordGraph records the shape of the input graph
func (r *Registry) RecordGraph(nodes, edges, muxes int, bytesRead int64) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphMuxes.Set(float64(muxes))
	r.GraphBytesRead.Add(float64(bytesRead))
}

// RecordPhase records how long one run phase took
func (r *Registry) RecordPhase(phase string, duration time.Duration) {
	r.PhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordDeleted records edges removed from the output graph
func (r *Registry) RecordDeleted(n int) {
	r.EdgesDeletedTotal.Add(float64(n))
}

// UpdateSystemMetrics samples runtime statistics and the run duration
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(ms.Alloc))
	r.MemorySysBytes.Set(float64(ms.Sys))
	r.RunDurationSeconds.Set(time.Since(r.started).Seconds())
}

// WriteTextfile samples system metrics and writes the registry in the text exposition
// format, as read by the node_exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
