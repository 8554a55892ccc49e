package fault

import (
	"fmt"
	"math"
)

// MaxPercent is the upper bound of the draw interval [0, MaxPercent)
const MaxPercent = 100.0

// RateTable holds cumulative percentage thresholds for the three non-ideal fault kinds.
// The probability mass above the last threshold is FaultFree.
type RateTable struct {
	sa0 float64 // t0 = p(SA0)
	sa1 float64 // t1 = t0 + p(SA1)
	ud  float64 // t2 = t1 + p(UD)
}

// NewRateTable builds a table from per-kind percentages.
// Each rate must lie in [0, 100] and their sum must not exceed 100.
func NewRateTable(sa0, sa1, ud float64) (RateTable, error) {
	rates := [...]struct {
		name  string
		value float64
	}{
		{"sa0", sa0},
		{"sa1", sa1},
		{"ud", ud},
	}

	for _, r := range rates {
		if math.IsNaN(r.value) || r.value < 0 || r.value > MaxPercent {
			return RateTable{}, NewError("NewRateTable").
				Context("%s rate %v outside [0, %v]", r.name, r.value, MaxPercent).
				Cause(ErrConfiguration).
				Build()
		}
	}

	if sum := sa0 + sa1 + ud; sum > MaxPercent {
		return RateTable{}, NewError("NewRateTable").
			Context("rates sum to %v, exceeding %v", sum, MaxPercent).
			Cause(ErrConfiguration).
			Build()
	}

	return RateTable{
		sa0: sa0,
		sa1: sa0 + sa1,
		ud:  sa0 + sa1 + ud,
	}, nil
}

// MustRateTable is like NewRateTable but panics on invalid rates.
// Intended for tests and constant tables.
func MustRateTable(sa0, sa1, ud float64) RateTable {
	t, err := NewRateTable(sa0, sa1, ud)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify maps a draw r in [0, 100) to a fault kind
func (t RateTable) Classify(r float64) Kind {
	switch {
	case r < t.sa0:
		return StuckAt0
	case r < t.sa1:
		return StuckAt1
	case r < t.ud:
		return Undefined
	default:
		return FaultFree
	}
}

// Thresholds returns the cumulative thresholds t0, t1, t2
func (t RateTable) Thresholds() (t0, t1, t2 float64) {
	return t.sa0, t.sa1, t.ud
}

// Rate returns the percentage assigned to a single kind
func (t RateTable) Rate(k Kind) float64 {
	switch k {
	case StuckAt0:
		return t.sa0
	case StuckAt1:
		return t.sa1 - t.sa0
	case Undefined:
		return t.ud - t.sa1
	default:
		return MaxPercent - t.ud
	}
}

// String formats the per-kind rates
func (t RateTable) String() string {
	return fmt.Sprintf("SA0=%g%% SA1=%g%% UD=%g%%", t.Rate(StuckAt0), t.Rate(StuckAt1), t.Rate(Undefined))
}
