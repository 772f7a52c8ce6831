package pyramid

import (
	"math"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// MaxGenerationSteps bounds the number of scale steps [Generate] will take.
// Ratios extremely close to 1 would otherwise spin for a very long time
// before the scale decays below the cutoff.
const MaxGenerationSteps = 1 << 20

// Generate returns the pyramid levels for a srcW×srcH source.
//
// Starting at scale 1, each level is round(src·scale) in both dimensions
// (round half up). Generation stops the first time either dimension falls
// below minDim. A level that is not strictly smaller than the previous one in
// both dimensions is skipped, so the returned sizes always strictly decrease.
// Levels are numbered by position among the kept sizes: after a skip, Level
// no longer equals the scale step, and level i is round(src·ratio^k) for
// some k >= i.
//
// The result is empty when the source is smaller than minDim in either
// dimension. Arguments are not validated here; see [Params.Validate].
func Generate(srcW, srcH int, ratio float64, minDim int) []Tile {
	tiles, _ := generate(srcW, srcH, ratio, minDim)
	return tiles
}

func generate(srcW, srcH int, ratio float64, minDim int) ([]Tile, error) {
	var tiles []Tile
	scale := 1.0
	for step := 0; ; step++ {
		if step >= MaxGenerationSteps {
			return tiles, perrors.New(perrors.ErrCodeInvalidParameter,
				"ratio %v decays too slowly (more than %d steps)", ratio, MaxGenerationSteps)
		}
		w := roundHalfUp(float64(srcW) * scale)
		h := roundHalfUp(float64(srcH) * scale)
		if w < minDim || h < minDim {
			return tiles, nil
		}
		if n := len(tiles); n == 0 || (w < tiles[n-1].Width && h < tiles[n-1].Height) {
			tiles = append(tiles, Tile{Level: len(tiles), Width: w, Height: h})
		}
		scale *= ratio
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
