package simulation

import (
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/mux"
)

// Totals aggregates multiplexer statistics over a run
type Totals struct {
	Muxes             int
	ConfigurableEdges int
	DefectiveEdges    int
	MemoryCells       int
	DrawnCells        int
	Faults            fault.Counts
	FaultyResistors   int
	GlobalFailures    int
	ForcedPaths       int
	FailuresByReason  map[mux.FailureReason]int
}

// Add accumulates one multiplexer
func (t *Totals) Add(s mux.Stats) {
	t.Muxes++
	t.ConfigurableEdges += s.Inputs
	t.DefectiveEdges += s.DefectiveEdges
	t.MemoryCells += s.MemoryCells
	t.DrawnCells += s.DrawnCells
	t.Faults.Merge(s.Faults)
	t.FaultyResistors += s.FaultyResistors
	t.ForcedPaths += s.Analysis.ForcedPaths

	if s.Analysis.GlobalFailure() {
		t.GlobalFailures++
		if t.FailuresByReason == nil {
			t.FailuresByReason = make(map[mux.FailureReason]int)
		}
		t.FailuresByReason[s.Analysis.Reason]++
	}
}

// CellFaults returns the number of faulty memory cells of any kind
func (t Totals) CellFaults() int {
	return t.Faults.Faulty()
}

// DefectiveFraction returns the share of configurable edges found unusable
func (t Totals) DefectiveFraction() float64 {
	if t.ConfigurableEdges == 0 {
		return 0
	}
	return float64(t.DefectiveEdges) / float64(t.ConfigurableEdges)
}
