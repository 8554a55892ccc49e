package memcell

import "github.com/dd0wney/cluso-routesim/pkg/fault"

// chainedTable maps (first, second) resistor faults of a 6T2R cell to the cell fault.
// Every one of the 16 combinations must be present.
var chainedTable = map[[2]fault.Kind]fault.Kind{
	{fault.FaultFree, fault.FaultFree}: fault.FaultFree,
	{fault.FaultFree, fault.StuckAt1}:  fault.FaultFree,
	{fault.FaultFree, fault.StuckAt0}:  fault.StuckAt0,
	{fault.FaultFree, fault.Undefined}: fault.StuckAt0,

	{fault.StuckAt1, fault.FaultFree}: fault.FaultFree,
	{fault.StuckAt1, fault.StuckAt0}:  fault.StuckAt0,
	{fault.StuckAt1, fault.StuckAt1}:  fault.StuckAt1,
	{fault.StuckAt1, fault.Undefined}: fault.Undefined,

	{fault.StuckAt0, fault.FaultFree}: fault.StuckAt0,
	{fault.StuckAt0, fault.StuckAt0}:  fault.StuckAt0,
	{fault.StuckAt0, fault.StuckAt1}:  fault.StuckAt0,
	{fault.StuckAt0, fault.Undefined}: fault.StuckAt0,

	{fault.Undefined, fault.FaultFree}: fault.StuckAt0,
	{fault.Undefined, fault.StuckAt0}:  fault.StuckAt0,
	{fault.Undefined, fault.StuckAt1}:  fault.Undefined,
	{fault.Undefined, fault.Undefined}: fault.Undefined,
}

// ChainedCell is a 6T2R cell built from two chained resistors
type ChainedCell struct {
	first, second fault.Resistor
	kind          fault.Kind
}

// NewChained creates a chained cell. It fails with fault.ErrInternalInvariant when the
// combination table has no entry for the resistor pair.
func NewChained(first, second fault.Resistor) (*ChainedCell, error) {
	kind, err := ChainedFault(first.Fault(), second.Fault())
	if err != nil {
		return nil, err
	}
	return &ChainedCell{
		first:  first,
		second: second,
		kind:   kind,
	}, nil
}

// ChainedFault looks up the cell fault for a (first, second) resistor pair
func ChainedFault(first, second fault.Kind) (fault.Kind, error) {
	kind, ok := chainedTable[[2]fault.Kind{first, second}]
	if !ok {
		return fault.FaultFree, fault.NewError("memcell.ChainedFault").
			Context("no entry for (%s, %s)", first, second).
			Cause(fault.ErrInternalInvariant).
			Build()
	}
	return kind, nil
}

// Fault returns the cell fault
func (c *ChainedCell) Fault() fault.Kind {
	return c.kind
}

// FaultyResistors returns the number of faulty resistors (0, 1 or 2)
func (c *ChainedCell) FaultyResistors() int {
	return countFaulty(c.first, c.second)
}

// Resistors always returns 2
func (c *ChainedCell) Resistors() int {
	return 2
}
