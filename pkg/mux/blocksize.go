package mux

import (
	"github.com/dd0wney/cluso-routesim/pkg/fault"
)

// OptimalBlockSize returns the first-stage block size b in [1, n] minimizing the memory
// cell count b + ceil(n/b). The single-stage case b = n costs n cells and is the initial
// candidate; a smaller b replaces it only when strictly cheaper, so ties resolve to the
// smallest b found by the left-to-right scan.
func OptimalBlockSize(n int) (int, error) {
	if n < 1 {
		return 0, fault.NewError("mux.OptimalBlockSize").
			Context("multiplexer size %d", n).
			Cause(fault.ErrInvalidInput).
			Build()
	}

	best, cells := n, n
	for b := 1; b < n; b++ {
		if m := b + ceilDiv(n, b); m < cells {
			best, cells = b, m
		}
	}

	if best < 1 || best > n {
		return 0, fault.NewError("mux.OptimalBlockSize").
			Context("no block size candidate for %d inputs", n).
			Cause(fault.ErrInternalInvariant).
			Build()
	}
	return best, nil
}

// MemoryCellCount returns the number of configuration cells a multiplexer with n inputs
// needs when split into blocks of size b. An undivided multiplexer needs n cells.
func MemoryCellCount(n, b int) int {
	if b >= n {
		return n
	}
	return b + ceilDiv(n, b)
}

// BlockCount returns the number of first-stage blocks for n inputs and block size b
func BlockCount(n, b int) int {
	return ceilDiv(n, b)
}

// Partition splits items into consecutive blocks of at most size elements.
// The last block holds the remainder.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	blocks := make([][]T, 0, ceilDiv(len(items), size))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		blocks = append(blocks, items[start:end:end])
	}
	return blocks
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
