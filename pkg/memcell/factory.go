package memcell

import "github.com/dd0wney/cluso-routesim/pkg/fault"

// Stage identifies the multiplexer stage a cell belongs to
type Stage uint8

const (
	// FirstStage cells gate the multiplexer inputs
	FirstStage Stage = iota
	// SecondStage cells gate the links from first-stage blocks to the output
	SecondStage
)

func (s Stage) String() string {
	if s == SecondStage {
		return "second"
	}
	return "first"
}

// Factory builds cells for both multiplexer stages from one generator
type Factory struct {
	First  Model
	Second Model
	Gen    *fault.Generator
}

// NewFactory creates a factory drawing from gen
func NewFactory(first, second Model, gen *fault.Generator) *Factory {
	return &Factory{
		First:  first,
		Second: second,
		Gen:    gen,
	}
}

// Cell builds one cell for the given stage
func (f *Factory) Cell(stage Stage) (Cell, error) {
	if stage == SecondStage {
		return New(f.Second, f.Gen)
	}
	return New(f.First, f.Gen)
}
