// Package defects gathers the defective edges of all multiplexers and orders them
// for positional deletion from the routing-resource graph.
package defects

import (
	"slices"
	"sync"

	"github.com/dd0wney/cluso-routesim/pkg/rrgraph"
)

// Collector is an append-only, concurrency-safe set of defective edges
type Collector struct {
	mu    sync.Mutex
	items []rrgraph.Deletion
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends the given edges
func (c *Collector) Add(edges ...rrgraph.Edge) {
	if len(edges) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range edges {
		c.items = append(c.items, e.Deletion())
	}
}

// Len returns the number of collected edges
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sorted returns a copy of the collected deletions ordered by graph index, highest first,
// so deleting them in order never shifts the position of a later one.
// Entries with equal index keep their insertion order.
func (c *Collector) Sorted() []rrgraph.Deletion {
	c.mu.Lock()
	out := slices.Clone(c.items)
	c.mu.Unlock()

	rrgraph.SortDeletions(out)
	return out
}
