// Package memcell models the memristor-based configuration cells that drive routing switches.
//
// Every model derives one logical fault from the faults of its resistors. Models form a
// closed set selected with Model; New draws the resistors a model needs from a generator.
package memcell

import (
	"strings"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
)

// Cell is a configuration memory cell
type Cell interface {
	// Fault returns the logical fault of the cell
	Fault() fault.Kind
	// FaultyResistors returns how many of the cell's resistors are individually faulty
	FaultyResistors() int
	// Resistors returns how many resistors the cell is built from
	Resistors() int
}

// Model selects a memory cell variant
type Model uint8

const (
	// SingleResistor is the 4T1R cell: one resistor, identity mapping
	SingleResistor Model = iota
	// Complementary is the 2T2R cell: a pull-up/pull-down resistor pair
	Complementary
	// Chained is the 6T2R cell: two 4T1R cells sharing their middle transistors
	Chained
)

// Models lists every supported model
var Models = []Model{SingleResistor, Complementary, Chained}

// String returns the configuration name of the model
func (m Model) String() string {
	switch m {
	case SingleResistor:
		return "4t1r"
	case Complementary:
		return "2t2r"
	case Chained:
		return "6t2r"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the supported models
func (m Model) Valid() bool {
	return m <= Chained
}

// ModelNames returns the configuration names of all models
func ModelNames() []string {
	names := make([]string, len(Models))
	for i, m := range Models {
		names[i] = m.String()
	}
	return names
}

// ParseModel converts a configuration name to a Model.
// Aliases "single", "complementary" and "chained" are accepted as well.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4t1r", "single":
		return SingleResistor, nil
	case "2t2r", "complementary":
		return Complementary, nil
	case "6t2r", "chained":
		return Chained, nil
	default:
		return 0, fault.NewError("memcell.ParseModel").
			Context("unknown memory cell model %q", s).
			Cause(fault.ErrConfiguration).
			Build()
	}
}

// New builds a cell of the given model, drawing its resistors from gen
func New(model Model, gen *fault.Generator) (Cell, error) {
	switch model {
	case SingleResistor:
		return NewSingle(gen.Draw()), nil
	case Complementary:
		pu := gen.Draw()
		pd := gen.Draw()
		return NewComplementary(pu, pd), nil
	case Chained:
		first := gen.Draw()
		second := gen.Draw()
		cell, err := NewChained(first, second)
		if err != nil {
			return nil, err
		}
		return cell, nil
	default:
		return nil, fault.NewError("memcell.New").
			Context("unknown memory cell model %d", model).
			Cause(fault.ErrConfiguration).
			Build()
	}
}

func countFaulty(resistors ...fault.Resistor) int {
	n := 0
	for _, r := range resistors {
		if r.IsFaulty() {
			n++
		}
	}
	return n
}
