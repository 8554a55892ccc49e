package fault

import (
	"fmt"
	"strings"
)

// Kind is the logical fault state of a resistor or memory cell
type Kind uint8

const (
	// FaultFree elements behave as configured
	FaultFree Kind = iota
	// StuckAt0 elements always read as logic 0
	StuckAt0
	// StuckAt1 elements always read as logic 1
	StuckAt1
	// Undefined elements cannot be reliably read or programmed
	Undefined
)

// NumKinds is the number of distinct fault kinds
const NumKinds = 4

// Kinds lists every fault kind in declaration order
var Kinds = [NumKinds]Kind{FaultFree, StuckAt0, StuckAt1, Undefined}

// String returns the short name used in reports
func (k Kind) String() string {
	switch k {
	case FaultFree:
		return "FF"
	case StuckAt0:
		return "SA0"
	case StuckAt1:
		return "SA1"
	case Undefined:
		return "UD"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsFaulty reports whether k is anything other than FaultFree
func (k Kind) IsFaulty() bool {
	return k != FaultFree
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k < NumKinds
}

// ParseKind converts a short or long name to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FF", "FAULTFREE", "FAULT_FREE":
		return FaultFree, nil
	case "SA0", "STUCKAT0", "STUCK_AT_0":
		return StuckAt0, nil
	case "SA1", "STUCKAT1", "STUCK_AT_1":
		return StuckAt1, nil
	case "UD", "UNDEFINED":
		return Undefined, nil
	default:
		return FaultFree, NewError("fault.ParseKind").Context("unknown fault kind %q", s).Cause(ErrConfiguration).Build()
	}
}

// Counts tallies fault kinds, indexed by Kind
type Counts [NumKinds]int

// Add increments the tally for k
func (c *Counts) Add(k Kind) {
	c[k]++
}

// Get returns the tally for k
func (c Counts) Get(k Kind) int {
	return c[k]
}

// Faulty returns the number of non fault-free entries
func (c Counts) Faulty() int {
	return c[StuckAt0] + c[StuckAt1] + c[Undefined]
}

// Total returns the number of tallied entries
func (c Counts) Total() int {
	return c[FaultFree] + c.Faulty()
}

// Merge adds every tally of other into c
func (c *Counts) Merge(other Counts) {
	for i := range c {
		c[i] += other[i]
	}
}
