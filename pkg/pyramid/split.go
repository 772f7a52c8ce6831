package pyramid

import (
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// SelectSplit returns how many leading tiles form the head group.
//
// The scan grows the head one tile at a time and stops at the first count
// where the head's total width (tiles plus the gaps between them) reaches the
// width still left for the tail (tiles plus one gap each). If no count
// balances, the head takes every tile but the last. The tail therefore always
// holds at least one tile. SelectSplit requires at least two tiles.
func SelectSplit(tiles []Tile, padding int) (int, error) {
	n := len(tiles)
	if n < 2 {
		return 0, perrors.New(perrors.ErrCodeInternal, "split needs at least 2 tiles, got %d", n)
	}

	sums := prefixWidths(tiles, padding)
	total := sums[n-1]

	headCount := n - 1
	for k := 1; k < n; k++ {
		head := sums[k-1] - padding
		tail := total - head - padding
		if head >= tail {
			headCount = k
			break
		}
	}

	if tailCount := n - headCount; headCount < 1 || tailCount < 1 {
		return 0, perrors.New(perrors.ErrCodeInternal,
			"split produced head=%d tail=%d for %d tiles", headCount, tailCount, n)
	}
	return headCount, nil
}

// prefixWidths returns running sums of width+padding.
func prefixWidths(tiles []Tile, padding int) []int {
	sums := make([]int, len(tiles))
	acc := 0
	for i, t := range tiles {
		acc += t.Width + padding
		sums[i] = acc
	}
	return sums
}

// groupExtents returns the horizontal extent of the head and the tail groups
// for a given split, without the trailing gap of either group.
func groupExtents(tiles []Tile, padding, headCount int) (head, tail int) {
	sums := prefixWidths(tiles, padding)
	head = sums[headCount-1] - padding
	tail = sums[len(sums)-1] - sums[headCount-1] - padding
	return head, tail
}
