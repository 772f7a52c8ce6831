package pyramid

// Utilization returns the fraction of a canvasW×canvasH canvas covered by
// tiles. It returns 0 for an empty canvas.
func Utilization(canvasW, canvasH int, tiles []Tile) float64 {
	area := canvasW * canvasH
	if area <= 0 {
		return 0
	}
	covered := 0
	for _, t := range tiles {
		covered += t.Area()
	}
	return float64(covered) / float64(area)
}
