package pyramid

// PlaceTiles writes X and Y for every tile of a split strip.
//
// Head tiles sit on the top edge, left to right from column 0. Tail tiles sit
// on the bottom edge of a stripHeight-tall strip, right to left with the first
// tail tile's right edge on the last column.
func PlaceTiles(tiles []Tile, padding, headCount, tailCount, stripWidth, stripHeight int) {
	x := 0
	for i := 0; i < headCount; i++ {
		tiles[i].X = x
		tiles[i].Y = 0
		x += tiles[i].Width + padding
	}

	x = stripWidth - 1
	for i := headCount; i < headCount+tailCount; i++ {
		tiles[i].X = x - tiles[i].Width + 1
		tiles[i].Y = stripHeight - tiles[i].Height
		x -= tiles[i].Width + padding
	}
}
