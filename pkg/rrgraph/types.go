// Package rrgraph reads and rewrites VPR routing-resource graphs and groups their
// edges into routing multiplexers.
package rrgraph

import (
	"fmt"
	"strings"
)

// NodeType is the type of a node in the routing-resource graph
type NodeType uint8

const (
	// NodeUnknown is used for nodes the graph does not declare
	NodeUnknown NodeType = iota
	// ChanX is a horizontal routing channel
	ChanX
	// ChanY is a vertical routing channel
	ChanY
	// Source is the source of a net
	Source
	// Sink is the sink of a net
	Sink
	// IPin is a block input pin
	IPin
	// OPin is a block output pin
	OPin
)

var nodeTypeNames = map[NodeType]string{
	NodeUnknown: "UNKNOWN",
	ChanX:       "CHANX",
	ChanY:       "CHANY",
	Source:      "SOURCE",
	Sink:        "SINK",
	IPin:        "IPIN",
	OPin:        "OPIN",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// ParseNodeType converts the rr_graph type attribute to a NodeType
func ParseNodeType(s string) (NodeType, error) {
	upper := strings.ToUpper(s)
	for t, name := range nodeTypeNames {
		if t != NodeUnknown && name == upper {
			return t, nil
		}
	}
	return NodeUnknown, fmt.Errorf("%w: unknown node type %q", ErrMalformedGraph, s)
}

// SwitchType is the electrical type of an rr_graph switch
type SwitchType uint8

const (
	// SwitchMux is an isolating, configurable multiplexer
	SwitchMux SwitchType = iota
	// SwitchTristate is an isolating, configurable tristate-able buffer
	SwitchTristate
	// SwitchPassGate is a non-isolating, configurable pass gate
	SwitchPassGate
	// SwitchBuffer is an isolating, non-configurable non-tristate-able buffer
	SwitchBuffer
	// SwitchShort is a non-isolating, non-configurable electrical short
	SwitchShort
)

var switchTypeNames = map[SwitchType]string{
	SwitchMux:      "mux",
	SwitchTristate: "tristate",
	SwitchPassGate: "pass_gate",
	SwitchBuffer:   "buffer",
	SwitchShort:    "short",
}

func (t SwitchType) String() string {
	if name, ok := switchTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SwitchType(%d)", uint8(t))
}

// ParseSwitchType converts the rr_graph switch type attribute to a SwitchType
func ParseSwitchType(s string) (SwitchType, error) {
	lower := strings.ToLower(s)
	if lower == "shorts" {
		lower = "short"
	}
	for t, name := range switchTypeNames {
		if name == lower {
			return t, nil
		}
	}
	return SwitchMux, fmt.Errorf("%w: unknown switch type %q", ErrMalformedGraph, s)
}

// Edge is one routing edge of the graph. Index is the edge's ordinal position in the
// document's rr_edges list and locates it for deletion.
type Edge struct {
	Source     int
	Sink       int
	SwitchID   int
	Index      int
	SourceType NodeType
	SinkType   NodeType
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d (switch %d, index %d)", e.Source, e.Sink, e.SwitchID, e.Index)
}

// Graph is the subset of an rr_graph document the simulator needs
type Graph struct {
	Switches map[int]SwitchType
	Nodes    map[int]NodeType
	Edges    []Edge
}

// SwitchType returns the type of a switch id and whether the graph declares it
func (g *Graph) SwitchType(id int) (SwitchType, bool) {
	t, ok := g.Switches[id]
	return t, ok
}
