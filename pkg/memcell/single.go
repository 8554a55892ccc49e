package memcell

import "github.com/dd0wney/cluso-routesim/pkg/fault"

// SingleCell is a 4T1R cell whose fault is its resistor's fault
type SingleCell struct {
	res fault.Resistor
}

// NewSingle creates a single-resistor cell
func NewSingle(r fault.Resistor) *SingleCell {
	return &SingleCell{res: r}
}

// Fault returns the resistor's fault
func (c *SingleCell) Fault() fault.Kind {
	return c.res.Fault()
}

// FaultyResistors returns 1 if the resistor is faulty, 0 otherwise
func (c *SingleCell) FaultyResistors() int {
	return countFaulty(c.res)
}

// Resistors always returns 1
func (c *SingleCell) Resistors() int {
	return 1
}
