package rrgraph

import (
	"cmp"
	"slices"
)

// Deletion identifies one edge to remove from the persisted graph
type Deletion struct {
	Source int
	Sink   int
	Index  int
}

// Deletion converts the edge to the tuple the rewriter consumes
func (e Edge) Deletion() Deletion {
	return Deletion{
		Source: e.Source,
		Sink:   e.Sink,
		Index:  e.Index,
	}
}

func byIndexDescending(a, b Deletion) int {
	return cmp.Compare(b.Index, a.Index)
}

// SortDeletions sorts deletions by graph index, highest first, in place.
// Entries with equal index keep their relative order.
func SortDeletions(dels []Deletion) {
	slices.SortStableFunc(dels, byIndexDescending)
}

// DeletionsSorted reports whether deletions are ordered by graph index, highest first
func DeletionsSorted(dels []Deletion) bool {
	return slices.IsSortedFunc(dels, byIndexDescending)
}
