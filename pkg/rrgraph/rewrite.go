package rrgraph

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Rewrite copies an rr_graph document from src to dst without the edges named in dels.
// dels must be sorted by index in descending order, and every deletion's endpoints must
// match the edge found at its index. Tokens are copied raw, so namespace prefixes and
// declarations are written back as they were read.
func Rewrite(src io.Reader, dst io.Writer, dels []Deletion) (removed int, err error) {
	if !DeletionsSorted(dels) {
		return 0, ErrUnsortedDeletions
	}

	pending := make(map[int]Deletion, len(dels))
	for _, d := range dels {
		pending[d.Index] = d
	}

	dec := xml.NewDecoder(src)
	enc := xml.NewEncoder(dst)
	var open []string
	inEdges := false
	edgeIndex := 0
	dropSpace := false

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == "" && t.Name.Local == elemEdges {
				inEdges = true
			} else if inEdges && t.Name.Space == "" && t.Name.Local == elemEdge {
				idx := edgeIndex
				edgeIndex++
				if d, ok := pending[idx]; ok {
					if err := matchEdge(t, d); err != nil {
						return removed, err
					}
					if err := skipElement(dec); err != nil {
						return removed, err
					}
					delete(pending, idx)
					removed++
					dropSpace = true
					continue
				}
			}
			t = rawStart(t)
			open = append(open, t.Name.Local)
			tok = t
		case xml.EndElement:
			t.Name = rawName(t.Name)
			if len(open) == 0 || open[len(open)-1] != t.Name.Local {
				return removed, fmt.Errorf("%w: unexpected </%s>", ErrMalformedGraph, t.Name.Local)
			}
			open = open[:len(open)-1]
			if t.Name.Local == elemEdges {
				inEdges = false
			}
			tok = t
		case xml.CharData:
			if dropSpace && len(bytes.TrimSpace(t)) == 0 {
				dropSpace = false
				continue
			}
		}

		dropSpace = false
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return removed, err
		}
	}

	if len(open) > 0 {
		return removed, fmt.Errorf("%w: unclosed <%s>", ErrMalformedGraph, open[len(open)-1])
	}
	if err := enc.Flush(); err != nil {
		return removed, err
	}

	if len(pending) > 0 {
		missing := make([]int, 0, len(pending))
		for idx := range pending {
			missing = append(missing, idx)
		}
		slices.Sort(missing)
		return removed, fmt.Errorf("%w: no edge at indices %v", ErrIndexMismatch, missing)
	}
	return removed, nil
}

// skipElement consumes raw tokens up to the end of the element whose start was just read
func skipElement(dec *xml.Decoder) error {
	for depth := 1; depth > 0; {
		tok, err := dec.RawToken()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// rawName folds a raw prefix back into the local name. The encoder writes an empty
// Space verbatim, whereas a non-empty one is treated as a namespace URI.
func rawName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}

func rawStart(se xml.StartElement) xml.StartElement {
	out := xml.StartElement{Name: rawName(se.Name), Attr: make([]xml.Attr, len(se.Attr))}
	for i, a := range se.Attr {
		out.Attr[i] = xml.Attr{Name: rawName(a.Name), Value: a.Value}
	}
	return out
}

func matchEdge(se xml.StartElement, d Deletion) error {
	src, err := intAttr(se, attrSrcNode)
	if err != nil {
		return err
	}
	sink, err := intAttr(se, attrSinkNode)
	if err != nil {
		return err
	}
	if src != d.Source || sink != d.Sink {
		return fmt.Errorf("%w: index %d holds %d->%d, expected %d->%d",
			ErrIndexMismatch, d.Index, src, sink, d.Source, d.Sink)
	}
	return nil
}

// RemoveEdges deletes edges from the in-memory graph by position. dels must be sorted by
// index in descending order so earlier removals never shift later positions. Index fields
// of the remaining edges are left unchanged and refer to the original document.
func (g *Graph) RemoveEdges(dels []Deletion) error {
	if !DeletionsSorted(dels) {
		return ErrUnsortedDeletions
	}

	last := -1
	for _, d := range dels {
		if d.Index == last {
			continue
		}
		if d.Index < 0 || d.Index >= len(g.Edges) {
			return fmt.Errorf("%w: index %d out of range", ErrIndexMismatch, d.Index)
		}
		e := g.Edges[d.Index]
		if e.Source != d.Source || e.Sink != d.Sink {
			return fmt.Errorf("%w: index %d holds %d->%d, expected %d->%d",
				ErrIndexMismatch, d.Index, e.Source, e.Sink, d.Source, d.Sink)
		}
		g.Edges = slices.Delete(g.Edges, d.Index, d.Index+1)
		last = d.Index
	}
	return nil
}
