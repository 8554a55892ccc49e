package rrgraph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// rr_graph element and attribute names
const (
	elemSwitches = "switches"
	elemSwitch   = "switch"
	elemNodes    = "rr_nodes"
	elemNode     = "node"
	elemEdges    = "rr_edges"
	elemEdge     = "edge"

	attrID       = "id"
	attrType     = "type"
	attrSrcNode  = "src_node"
	attrSinkNode = "sink_node"
	attrSwitchID = "switch_id"
)

// Read parses an rr_graph document. Edges keep document order and are indexed by their
// position within rr_edges.
func Read(r io.Reader) (*Graph, error) {
	g := &Graph{
		Switches: make(map[int]SwitchType),
		Nodes:    make(map[int]NodeType),
	}

	dec := xml.NewDecoder(r)
	section := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == elemSwitches || t.Name.Local == elemNodes || t.Name.Local == elemEdges:
				section = t.Name.Local
			case section == elemSwitches && t.Name.Local == elemSwitch:
				if err := g.addSwitch(t); err != nil {
					return nil, err
				}
			case section == elemNodes && t.Name.Local == elemNode:
				if err := g.addNode(t); err != nil {
					return nil, err
				}
			case section == elemEdges && t.Name.Local == elemEdge:
				if err := g.addEdge(t); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == section {
				section = ""
			}
		}
	}

	// Nodes may follow edges in hand-written documents, so resolve types last
	for i := range g.Edges {
		g.Edges[i].SourceType = g.Nodes[g.Edges[i].Source]
		g.Edges[i].SinkType = g.Nodes[g.Edges[i].Sink]
	}
	return g, nil
}

func (g *Graph) addSwitch(se xml.StartElement) error {
	id, err := intAttr(se, attrID)
	if err != nil {
		return err
	}
	st, err := ParseSwitchType(attr(se, attrType))
	if err != nil {
		return err
	}
	g.Switches[id] = st
	return nil
}

func (g *Graph) addNode(se xml.StartElement) error {
	id, err := intAttr(se, attrID)
	if err != nil {
		return err
	}
	nt, err := ParseNodeType(attr(se, attrType))
	if err != nil {
		return err
	}
	g.Nodes[id] = nt
	return nil
}

func (g *Graph) addEdge(se xml.StartElement) error {
	src, err := intAttr(se, attrSrcNode)
	if err != nil {
		return err
	}
	sink, err := intAttr(se, attrSinkNode)
	if err != nil {
		return err
	}
	sw, err := intAttr(se, attrSwitchID)
	if err != nil {
		return err
	}
	g.Edges = append(g.Edges, Edge{
		Source:   src,
		Sink:     sink,
		SwitchID: sw,
		Index:    len(g.Edges),
	})
	return nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(se xml.StartElement, name string) (int, error) {
	raw := attr(se, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s> attribute %s=%q is not an integer", ErrMalformedGraph, se.Name.Local, name, raw)
	}
	return v, nil
}
