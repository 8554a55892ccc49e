package mux

import (
	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
)

// SwitchGroup is an ordered set of switches of one stage with per-kind fault counts
type SwitchGroup struct {
	switches []Switch
	counts   fault.Counts
	forced   int // position of the only StuckAt1 switch, -1 if there is not exactly one
}

// NewSwitchGroup creates a group and tallies its switch faults
func NewSwitchGroup(switches []Switch) *SwitchGroup {
	g := &SwitchGroup{
		switches: switches,
		forced:   -1,
	}
	for i, s := range switches {
		k := s.Fault()
		g.counts.Add(k)
		if k == fault.StuckAt1 {
			g.forced = i
		}
	}
	if g.counts.Get(fault.StuckAt1) != 1 {
		g.forced = -1
	}
	return g
}

// Len returns the number of switches
func (g *SwitchGroup) Len() int {
	return len(g.switches)
}

// Switch returns the switch at position i
func (g *SwitchGroup) Switch(i int) Switch {
	return g.switches[i]
}

// Switches returns the switches in order. The slice must not be modified.
func (g *SwitchGroup) Switches() []Switch {
	return g.switches
}

// Count returns how many switches have fault kind k
func (g *SwitchGroup) Count(k fault.Kind) int {
	return g.counts.Get(k)
}

// Counts returns the per-kind fault counts
func (g *SwitchGroup) Counts() fault.Counts {
	return g.counts
}

// HasUndefined reports whether any switch is Undefined
func (g *SwitchGroup) HasUndefined() bool {
	return g.counts.Get(fault.Undefined) > 0
}

// StuckAt1 returns the number of StuckAt1 switches
func (g *SwitchGroup) StuckAt1() int {
	return g.counts.Get(fault.StuckAt1)
}

// Forced returns the position of the single StuckAt1 switch, if there is exactly one
func (g *SwitchGroup) Forced() (int, bool) {
	return g.forced, g.forced >= 0
}

// FaultyResistors sums the faulty resistors of all cells in the group
func (g *SwitchGroup) FaultyResistors() int {
	n := 0
	for _, s := range g.switches {
		n += s.Cell().FaultyResistors()
	}
	return n
}

// Edges returns the routing edges gated by the group's first-stage switches
func (g *SwitchGroup) Edges() []rrgraph.Edge {
	edges := make([]rrgraph.Edge, 0, len(g.switches))
	for _, s := range g.switches {
		if e, ok := s.Edge(); ok {
			edges = append(edges, e)
		}
	}
	return edges
}
