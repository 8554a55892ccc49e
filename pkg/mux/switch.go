// Package mux decomposes routing multiplexers into two switch stages and decides,
// after fault injection, which of their input edges remain safely selectable.
package mux

import (
	"fmt"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/memcell"
	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
)

// Switch pairs a memory cell with the edge or tree link it gates.
// First-stage switches gate a routing edge; second-stage switches gate the link
// from a first-stage block to the multiplexer output.
type Switch struct {
	cell  memcell.Cell
	stage memcell.Stage
	block int
	edge  rrgraph.Edge
}

// NewEdgeSwitch creates a first-stage switch gating edge within a block
func NewEdgeSwitch(cell memcell.Cell, block int, edge rrgraph.Edge) Switch {
	return Switch{
		cell:  cell,
		stage: memcell.FirstStage,
		block: block,
		edge:  edge,
	}
}

// NewLinkSwitch creates a second-stage switch gating the link of a block
func NewLinkSwitch(cell memcell.Cell, block int) Switch {
	return Switch{
		cell:  cell,
		stage: memcell.SecondStage,
		block: block,
	}
}

// Fault returns the fault of the controlling cell
func (s Switch) Fault() fault.Kind {
	return s.cell.Fault()
}

// Cell returns the controlling cell
func (s Switch) Cell() memcell.Cell {
	return s.cell
}

// Stage returns the stage the switch belongs to
func (s Switch) Stage() memcell.Stage {
	return s.stage
}

// Block returns the index of the block the switch belongs to, or gates for a link switch
func (s Switch) Block() int {
	return s.block
}

// Edge returns the gated routing edge. ok is false for second-stage link switches.
func (s Switch) Edge() (edge rrgraph.Edge, ok bool) {
	return s.edge, s.stage == memcell.FirstStage
}

func (s Switch) String() string {
	if s.stage == memcell.SecondStage {
		return fmt.Sprintf("link %d [%s]", s.block, s.Fault())
	}
	return fmt.Sprintf("%d->%d [%s]", s.edge.Source, s.edge.Sink, s.Fault())
}
