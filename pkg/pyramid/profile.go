package pyramid

import "slices"

// Span is one horizontal range [Start, End] (inclusive) of a [Profile] and
// the height consumed there from one side of the strip.
type Span struct {
	Start, End int
	Height     int
}

// Profile is a left-to-right sequence of spans that partitions a strip's
// columns [0, stripWidth).
type Profile []Span

// Covers reports whether p partitions [0, width) with contiguous,
// non-overlapping spans.
func (p Profile) Covers(width int) bool {
	if len(p) == 0 {
		return width <= 0
	}
	next := 0
	for _, s := range p {
		if s.Start != next || s.End < s.Start {
			return false
		}
		next = s.End + 1
	}
	return next == width
}

// HeightAt returns the height recorded for column x, or 0 if x is outside p.
func (p Profile) HeightAt(x int) int {
	for _, s := range p {
		if x >= s.Start && x <= s.End {
			return s.Height
		}
	}
	return 0
}

// BuildProfiles returns the head and tail profiles of a strip.
//
// The head profile walks tiles[:headCount] left to right from column 0; each
// tile claims its width plus the following gap, at its height plus padding.
// The tail profile walks tiles[headCount:headCount+tailCount] in order but
// lays them right to left from the last column; each tile claims its width at
// its bare height, together with the gap to its left. Columns left over on
// either side form a zero-height span. The tail profile is reversed so both
// read left to right.
func BuildProfiles(tiles []Tile, padding, headCount, tailCount, stripWidth int) (head, tail Profile) {
	last := stripWidth - 1

	x := 0
	for _, t := range tiles[:headCount] {
		end := min(x+t.Width+padding-1, last)
		head = append(head, Span{Start: x, End: end, Height: t.Height + padding})
		x += t.Width + padding
		if x > last {
			break
		}
	}
	if x <= last {
		head = append(head, Span{Start: x, End: last, Height: 0})
	}

	x = last
	for _, t := range tiles[headCount : headCount+tailCount] {
		start := max(x-t.Width-padding+1, 0)
		tail = append(tail, Span{Start: start, End: x, Height: t.Height})
		x -= t.Width + padding
		if x < 0 {
			break
		}
	}
	if x >= 0 {
		tail = append(tail, Span{Start: 0, End: x, Height: 0})
	}
	slices.Reverse(tail)

	return head, tail
}
