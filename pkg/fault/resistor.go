package fault

import (
	"math/rand/v2"
)

// Resistor is a single memristor with a fault drawn once at creation
type Resistor struct {
	kind Kind
}

// NewResistor creates a resistor with a fixed fault kind
func NewResistor(k Kind) Resistor {
	return Resistor{kind: k}
}

// Fault returns the resistor's fault kind
func (r Resistor) Fault() Kind {
	return r.kind
}

// IsFaulty reports whether the resistor carries any fault
func (r Resistor) IsFaulty() bool {
	return r.kind.IsFaulty()
}

// Generator draws resistor faults from a rate table.
// A Generator is not safe for concurrent use; give each worker its own.
type Generator struct {
	table RateTable
	rng   *rand.Rand
	drawn int
}

// NewGenerator creates a generator backed by a PCG source seeded with (seed, stream).
// Equal arguments reproduce the same fault sequence.
func NewGenerator(table RateTable, seed, stream uint64) *Generator {
	return NewGeneratorFrom(table, rand.New(rand.NewPCG(seed, stream)))
}

// NewGeneratorFrom creates a generator backed by an existing random source
func NewGeneratorFrom(table RateTable, rng *rand.Rand) *Generator {
	return &Generator{
		table: table,
		rng:   rng,
	}
}

// Draw produces one resistor using a single uniform draw in [0, 100)
func (g *Generator) Draw() Resistor {
	g.drawn++
	return NewResistor(g.table.Classify(g.rng.Float64() * MaxPercent))
}

// Drawn returns how many resistors this generator has produced
func (g *Generator) Drawn() int {
	return g.drawn
}

// Table returns the rate table the generator draws from
func (g *Generator) Table() RateTable {
	return g.table
}
