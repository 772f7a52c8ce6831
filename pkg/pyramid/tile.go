package pyramid

// Tile is one pyramid level and, once packed, its position on the canvas.
// Width and Height are fixed by [Generate]; X and Y are written by [PlaceTiles].
type Tile struct {
	Level         int
	Width, Height int
	X, Y          int
}

// Area returns Width*Height.
func (t Tile) Area() int { return t.Width * t.Height }

// Right returns the exclusive right edge.
func (t Tile) Right() int { return t.X + t.Width }

// Bottom returns the exclusive bottom edge.
func (t Tile) Bottom() int { return t.Y + t.Height }

// Overlaps reports whether the placed rectangles of t and o share any pixel.
func (t Tile) Overlaps(o Tile) bool {
	return t.X < o.Right() && o.X < t.Right() && t.Y < o.Bottom() && o.Y < t.Bottom()
}

// Canvas is the output rectangle. Both dimensions are multiples of the
// alignment used to pack it.
type Canvas struct {
	Width, Height int
}

// Area returns Width*Height.
func (c Canvas) Area() int { return c.Width * c.Height }

// Contains reports whether t lies fully inside the canvas.
func (c Canvas) Contains(t Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.Right() <= c.Width && t.Bottom() <= c.Height
}

// Result is the outcome of a single [Pack] call. It is owned by the caller.
type Result struct {
	SourceWidth  int
	SourceHeight int
	Params       Params

	Canvas      Canvas
	Tiles       []Tile
	Utilization float64

	// HeadCount is the number of tiles anchored top-left. It equals
	// len(Tiles) for a single-level pyramid.
	HeadCount int

	// StripWidth is the width the tiles were laid out in; it is already
	// aligned because tail tiles are anchored to its right edge.
	// StripHeight is the estimated height before alignment rounding.
	StripWidth  int
	StripHeight int
}

// TailCount returns the number of tiles anchored bottom-right.
func (r *Result) TailCount() int { return len(r.Tiles) - r.HeadCount }

// alignUp rounds a up to the next multiple of b.
func alignUp(a, b int) int {
	return (a + b - 1) / b * b
}
