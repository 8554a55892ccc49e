package mux

import (
	"github.com/dd0wney/cluso-routesim/pkg/fault"
)

// blockState is the second-stage independent classification of a first-stage block
type blockState uint8

const (
	// blockClean has no StuckAt1 and no Undefined switch
	blockClean blockState = iota
	// blockForced has exactly one StuckAt1 switch and no Undefined switch
	blockForced
	// blockAmbiguous has an Undefined switch or more than one StuckAt1 switch
	blockAmbiguous
)

func classifyBlock(g *SwitchGroup) blockState {
	switch {
	case g.HasUndefined() || g.StuckAt1() > 1:
		return blockAmbiguous
	case g.StuckAt1() == 1:
		return blockForced
	default:
		return blockClean
	}
}

// FailureReason explains why a whole multiplexer was marked defective
type FailureReason uint8

const (
	// NoFailure means at least part of the multiplexer stays usable
	NoFailure FailureReason = iota
	// UndefinedLink is an Undefined link above a block with an Undefined or StuckAt1 switch
	UndefinedLink
	// StuckLink is a StuckAt1 link above a block with an Undefined or several StuckAt1 switches
	StuckLink
	// ForcedPathConflict is more than one StuckAt1 link each above a single StuckAt1 input
	ForcedPathConflict
)

func (r FailureReason) String() string {
	switch r {
	case UndefinedLink:
		return "undefined-link"
	case StuckLink:
		return "stuck-link"
	case ForcedPathConflict:
		return "forced-path-conflict"
	default:
		return "none"
	}
}

// Analysis records how the usability scan ended
type Analysis struct {
	// ForcedPaths counts blocks whose StuckAt1 link sits above a single StuckAt1 input
	ForcedPaths int
	// Reason is NoFailure unless every edge was marked defective by a global failure
	Reason FailureReason
	// TerminatedAt is the block index at which the scan stopped early, -1 if it completed
	TerminatedAt int
}

// GlobalFailure reports whether the whole multiplexer is unusable
func (a Analysis) GlobalFailure() bool {
	return a.Reason != NoFailure
}

// analyze classifies every block on its own, then reconciles the blocks with their
// link faults in block order, stopping as soon as the multiplexer fails globally.
func (m *Multiplexer) analyze() {
	m.analysis = Analysis{TerminatedAt: -1}

	states := make([]blockState, len(m.first))
	for i, g := range m.first {
		states[i] = classifyBlock(g)
		m.markFirstStage(i, states[i])
	}

	for i, link := range m.second.Switches() {
		switch link.Fault() {
		case fault.FaultFree:
			// first-stage result stands

		case fault.StuckAt0:
			m.markBlock(i)

		case fault.Undefined:
			if states[i] != blockClean {
				m.failGlobally(UndefinedLink, i)
				return
			}
			m.markBlock(i)

		case fault.StuckAt1:
			switch states[i] {
			case blockAmbiguous:
				m.failGlobally(StuckLink, i)
				return
			case blockForced:
				m.analysis.ForcedPaths++
			default:
				m.markBlock(i)
			}
		}
	}

	if m.analysis.ForcedPaths > 1 {
		m.failGlobally(ForcedPathConflict, -1)
	}
}

// markFirstStage marks the edges a block loses on its own
func (m *Multiplexer) markFirstStage(block int, state blockState) {
	g := m.first[block]
	offset := block * m.blockSize

	switch state {
	case blockAmbiguous:
		m.markBlock(block)
	case blockForced:
		forced, _ := g.Forced()
		for j := 0; j < g.Len(); j++ {
			if j != forced {
				m.defective[offset+j] = true
			}
		}
	default:
		for j, s := range g.Switches() {
			if s.Fault() == fault.StuckAt0 {
				m.defective[offset+j] = true
			}
		}
	}
}

func (m *Multiplexer) markBlock(block int) {
	offset := block * m.blockSize
	for j := 0; j < m.first[block].Len(); j++ {
		m.defective[offset+j] = true
	}
}

func (m *Multiplexer) failGlobally(reason FailureReason, at int) {
	m.analysis.Reason = reason
	m.analysis.TerminatedAt = at
	for i := range m.defective {
		m.defective[i] = true
	}
}
