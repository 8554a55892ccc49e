package rrgraph

import (
	"cmp"
	"slices"
)

// GroupMuxes splits the graph's edges into routing multiplexers. Edges sharing a sink
// and switch id form one multiplexer; groups are kept only when the switch is a
// multiplexer and the group neither starts at a SOURCE node nor drives a SINK node.
// Groups are ordered by sink then switch id; edges within a group keep document order.
func GroupMuxes(g *Graph) [][]Edge {
	edges := slices.Clone(g.Edges)
	slices.SortStableFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Sink, b.Sink); c != 0 {
			return c
		}
		return cmp.Compare(a.SwitchID, b.SwitchID)
	})

	var groups [][]Edge
	for start := 0; start < len(edges); {
		end := start + 1
		for end < len(edges) && edges[end].Sink == edges[start].Sink && edges[end].SwitchID == edges[start].SwitchID {
			end++
		}
		if group := edges[start:end:end]; g.isMux(group) {
			groups = append(groups, group)
		}
		start = end
	}
	return groups
}

func (g *Graph) isMux(group []Edge) bool {
	head := group[0]
	if head.SourceType == Source || head.SinkType == Sink {
		return false
	}
	st, ok := g.SwitchType(head.SwitchID)
	return ok && st == SwitchMux
}
