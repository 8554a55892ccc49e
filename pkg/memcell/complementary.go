package memcell

import "github.com/dd0wney/cluso-routesim/pkg/fault"

// ComplementaryCell is a 2T2R cell with a pull-up and a pull-down resistor
type ComplementaryCell struct {
	pu, pd fault.Resistor
	kind   fault.Kind
}

// NewComplementary creates a cell from its pull-up and pull-down resistors
func NewComplementary(pu, pd fault.Resistor) *ComplementaryCell {
	return &ComplementaryCell{
		pu:   pu,
		pd:   pd,
		kind: ComplementaryFault(pu.Fault(), pd.Fault()),
	}
}

// ComplementaryFault combines pull-up and pull-down faults into the cell fault
func ComplementaryFault(pu, pd fault.Kind) fault.Kind {
	switch {
	case !pu.IsFaulty() && !pd.IsFaulty():
		return fault.FaultFree

	case pu.IsFaulty() && !pd.IsFaulty():
		return pu

	case !pu.IsFaulty() && pd.IsFaulty():
		// A stuck pull-down drives the output to the opposite level
		switch pd {
		case fault.StuckAt0:
			return fault.StuckAt1
		case fault.StuckAt1:
			return fault.StuckAt0
		default:
			return fault.Undefined
		}

	case pu == pd, pu == fault.Undefined, pd == fault.Undefined:
		return fault.Undefined

	default:
		// Opposing stuck faults: the pull-up wins
		return pu
	}
}

// Fault returns the cell fault
func (c *ComplementaryCell) Fault() fault.Kind {
	return c.kind
}

// FaultyResistors returns the number of faulty resistors (0, 1 or 2)
func (c *ComplementaryCell) FaultyResistors() int {
	return countFaulty(c.pu, c.pd)
}

// Resistors always returns 2
func (c *ComplementaryCell) Resistors() int {
	return 2
}

// PullUp returns the pull-up resistor
func (c *ComplementaryCell) PullUp() fault.Resistor {
	return c.pu
}

// PullDown returns the pull-down resistor
func (c *ComplementaryCell) PullDown() fault.Resistor {
	return c.pd
}
