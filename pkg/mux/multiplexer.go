package mux

import (
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
)

// CellSource supplies the memory cell for each switch as the multiplexer is built
type CellSource interface {
	Cell(stage memcell.Stage) (memcell.Cell, error)
}

// Multiplexer is a routing multiplexer split into first-stage blocks and a second stage
// with one link switch per block. Usability analysis runs during construction; the
// multiplexer is read-only afterwards.
type Multiplexer struct {
	edges     []rrgraph.Edge
	blockSize int
	first     []*SwitchGroup
	second    *SwitchGroup

	defective []bool // indexed like edges
	analysis  Analysis
}

// New builds the multiplexer for one group of edges sharing a sink and switch id,
// draws a cell for every switch from cells and classifies every edge.
// First-stage cells are drawn block by block in edge order, then one second-stage
// cell per block.
func New(edges []rrgraph.Edge, cells CellSource) (*Multiplexer, error) {
	if err := validateGroup(edges); err != nil {
		return nil, err
	}

	blockSize, err := OptimalBlockSize(len(edges))
	if err != nil {
		return nil, err
	}

	m := &Multiplexer{
		edges:     edges,
		blockSize: blockSize,
		defective: make([]bool, len(edges)),
	}

	blocks := Partition(edges, blockSize)
	m.first = make([]*SwitchGroup, len(blocks))
	for i, block := range blocks {
		switches := make([]Switch, len(block))
		for j, edge := range block {
			cell, err := cells.Cell(memcell.FirstStage)
			if err != nil {
				return nil, err
			}
			switches[j] = NewEdgeSwitch(cell, i, edge)
		}
		m.first[i] = NewSwitchGroup(switches)
	}

	links := make([]Switch, len(blocks))
	for i := range blocks {
		cell, err := cells.Cell(memcell.SecondStage)
		if err != nil {
			return nil, err
		}
		links[i] = NewLinkSwitch(cell, i)
	}
	m.second = NewSwitchGroup(links)

	m.analyze()
	return m, nil
}

func validateGroup(edges []rrgraph.Edge) error {
	if len(edges) == 0 {
		return fault.NewError("mux.New").
			Context("empty edge group").
			Cause(fault.ErrInvalidInput).
			Build()
	}

	sink, switchID := edges[0].Sink, edges[0].SwitchID
	for _, e := range edges[1:] {
		if e.Sink != sink || e.SwitchID != switchID {
			return fault.NewError("mux.New").
				Context("edge %s does not share sink %d and switch %d", e, sink, switchID).
				Cause(fault.ErrInvalidInput).
				Build()
		}
	}
	return nil
}

// Sink returns the shared sink node id
func (m *Multiplexer) Sink() int {
	return m.edges[0].Sink
}

// SwitchID returns the shared rr_graph switch id
func (m *Multiplexer) SwitchID() int {
	return m.edges[0].SwitchID
}

// Inputs returns the number of input edges
func (m *Multiplexer) Inputs() int {
	return len(m.edges)
}

// Edges returns the input edges in order. The slice must not be modified.
func (m *Multiplexer) Edges() []rrgraph.Edge {
	return m.edges
}

// BlockSize returns the first-stage block size
func (m *Multiplexer) BlockSize() int {
	return m.blockSize
}

// Blocks returns the number of first-stage blocks, which is also the second-stage in-degree
func (m *Multiplexer) Blocks() int {
	return len(m.first)
}

// TwoStage reports whether the inputs are split into more than one block
func (m *Multiplexer) TwoStage() bool {
	return m.blockSize < len(m.edges)
}

// FirstStage returns the first-stage blocks
func (m *Multiplexer) FirstStage() []*SwitchGroup {
	return m.first
}

// SecondStage returns the link switches, one per block
func (m *Multiplexer) SecondStage() *SwitchGroup {
	return m.second
}

// MemoryCells returns the configuration cell count of the decomposition
func (m *Multiplexer) MemoryCells() int {
	return MemoryCellCount(len(m.edges), m.blockSize)
}

// DrawnCells returns the number of cells simulated: one per first-stage switch and one
// per link switch. Fault counts and faulty resistors are taken over these cells.
func (m *Multiplexer) DrawnCells() int {
	return len(m.edges) + len(m.first)
}

// IsDefective reports whether the i-th input edge is unusable
func (m *Multiplexer) IsDefective(i int) bool {
	return m.defective[i]
}

// DefectiveEdges returns the unusable edges in input order
func (m *Multiplexer) DefectiveEdges() []rrgraph.Edge {
	out := make([]rrgraph.Edge, 0, m.DefectiveCount())
	for i, bad := range m.defective {
		if bad {
			out = append(out, m.edges[i])
		}
	}
	return out
}

// DefectiveCount returns the number of unusable edges
func (m *Multiplexer) DefectiveCount() int {
	n := 0
	for _, bad := range m.defective {
		if bad {
			n++
		}
	}
	return n
}

// Analysis returns the side-channel results of the usability scan
func (m *Multiplexer) Analysis() Analysis {
	return m.analysis
}

// FaultCounts returns per-kind cell fault counts over every switch of both stages
func (m *Multiplexer) FaultCounts() fault.Counts {
	var c fault.Counts
	for _, g := range m.first {
		c.Merge(g.Counts())
	}
	c.Merge(m.second.Counts())
	return c
}

// FaultyResistors returns the number of faulty resistors over every cell of both stages
func (m *Multiplexer) FaultyResistors() int {
	n := m.second.FaultyResistors()
	for _, g := range m.first {
		n += g.FaultyResistors()
	}
	return n
}

// Stats summarizes the multiplexer for reporting.
//
// MemoryCells is the cell count of the decomposition, b + ceil(n/b), or n when the
// multiplexer is a single block. The simulation gives every switch its own cell, so
// Faults and FaultyResistors range over DrawnCells, n + ceil(n/b), which is never
// smaller than MemoryCells.
type Stats struct {
	Sink            int
	SwitchID        int
	Inputs          int
	BlockSize       int
	Blocks          int
	MemoryCells     int
	DrawnCells      int
	DefectiveEdges  int
	Faults          fault.Counts
	FaultyResistors int
	Analysis        Analysis
}

// Stats returns the read-only statistics of the multiplexer
func (m *Multiplexer) Stats() Stats {
	return Stats{
		Sink:            m.Sink(),
		SwitchID:        m.SwitchID(),
		Inputs:          m.Inputs(),
		BlockSize:       m.blockSize,
		Blocks:          m.Blocks(),
		MemoryCells:     m.MemoryCells(),
		DrawnCells:      m.DrawnCells(),
		DefectiveEdges:  m.DefectiveCount(),
		Faults:          m.FaultCounts(),
		FaultyResistors: m.FaultyResistors(),
		Analysis:        m.analysis,
	}
}
