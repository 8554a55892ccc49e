package mux

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
)

func TestOptimalBlockSize(t *testing.T) {
	tests := []struct {
		n         int
		blockSize int
		cells     int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
		{4, 4, 4},
		{5, 5, 5},
		{6, 2, 5},
		{7, 2, 6},
		{9, 3, 6},
		// b = 2, 3, 4 and 5 all need 7 cells; the scan keeps the smallest
		{10, 2, 7},
		{16, 4, 8},
		{100, 10, 20},
	}

	for _, tt := range tests {
		b, err := OptimalBlockSize(tt.n)
		require.NoError(t, err, "n=%d", tt.n)
		assert.Equal(t, tt.blockSize, b, "n=%d", tt.n)
		assert.Equal(t, tt.cells, MemoryCellCount(tt.n, b), "n=%d", tt.n)
	}
}

func TestOptimalBlockSizeTenInputsIsExhaustiveMinimum(t *testing.T) {
	b, err := OptimalBlockSize(10)
	require.NoError(t, err)

	best := MemoryCellCount(10, b)
	for c := 1; c <= 10; c++ {
		assert.LessOrEqual(t, best, MemoryCellCount(10, c), "b=%d beats chosen %d", c, b)
		if MemoryCellCount(10, c) == best {
			assert.GreaterOrEqual(t, c, b, "smaller b=%d ties with chosen %d", c, b)
		}
	}
}

func TestOptimalBlockSizeRejectsEmpty(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := OptimalBlockSize(n)
		assert.ErrorIs(t, err, fault.ErrInvalidInput)
	}
}

func TestPartition(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	blocks := Partition(items, 3)
	require.Len(t, blocks, 3)
	assert.Equal(t, []int{0, 1, 2}, blocks[0])
	assert.Equal(t, []int{3, 4, 5}, blocks[1])
	assert.Equal(t, []int{6}, blocks[2])

	blocks = Partition(items, 7)
	require.Len(t, blocks, 1)
	assert.Equal(t, items, blocks[0])

	// appending to a block must not clobber its neighbour
	first := Partition(items, 3)[0]
	_ = append(first, 99)
	assert.Equal(t, 3, items[3])

	assert.Empty(t, Partition([]int{}, 4))
}

// TestBlockSizeProperties checks optimality and tie-breaking for arbitrary sizes
func TestBlockSizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("chosen block size is within range", prop.ForAll(
		func(n int) bool {
			b, err := OptimalBlockSize(n)
			return err == nil && b >= 1 && b <= n
		},
		gen.IntRange(1, 2000),
	))

	properties.Property("no block size needs fewer cells", prop.ForAll(
		func(n int) bool {
			b, _ := OptimalBlockSize(n)
			best := MemoryCellCount(n, b)
			for c := 1; c <= n; c++ {
				if MemoryCellCount(n, c) < best {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 500),
	))

	properties.Property("a split is only chosen when strictly cheaper than one stage", prop.ForAll(
		func(n int) bool {
			b, _ := OptimalBlockSize(n)
			if b == n {
				return true
			}
			if MemoryCellCount(n, b) >= n {
				return false
			}
			for c := 1; c < b; c++ {
				if MemoryCellCount(n, c) == MemoryCellCount(n, b) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 500),
	))

	properties.Property("blocks cover every input exactly once", prop.ForAll(
		func(n int) bool {
			b, _ := OptimalBlockSize(n)
			items := make([]int, n)
			total := 0
			blocks := Partition(items, b)
			for _, blk := range blocks {
				if len(blk) == 0 || len(blk) > b {
					return false
				}
				total += len(blk)
			}
			return total == n && len(blocks) == BlockCount(n, b)
		},
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
