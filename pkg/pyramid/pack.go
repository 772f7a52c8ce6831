package pyramid

import (
	"math"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// Params controls how a pyramid is generated and packed.
type Params struct {
	// Ratio is the scale applied at each successive level, in (0, 1).
	Ratio float64 `json:"ratio" toml:"ratio"`

	// MinDim is the smallest width or height a level may have. Must be > 0.
	MinDim int `json:"min_dim" toml:"min_dim"`

	// Padding is the gap in pixels kept between neighbouring tiles. Must be >= 0.
	Padding int `json:"padding" toml:"padding"`

	// Alignment makes both canvas dimensions a multiple of this value. Must be >= 1.
	Alignment int `json:"alignment" toml:"alignment"`
}

// Validate reports the first out-of-range field as an INVALID_PARAMETER error.
func (p Params) Validate() error {
	if math.IsNaN(p.Ratio) || p.Ratio <= 0 || p.Ratio >= 1 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "ratio %v is out of range (should be in (0, 1))", p.Ratio)
	}
	if p.MinDim <= 0 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "min dim %d is out of range (should be strictly positive)", p.MinDim)
	}
	if p.Padding < 0 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "padding %d is out of range (should be nonnegative)", p.Padding)
	}
	if p.Alignment < 1 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "alignment %d is out of range (should be at least 1)", p.Alignment)
	}
	return nil
}

// Pack generates the pyramid of a srcW×srcH source and packs it.
//
// Pack fails with INVALID_PARAMETER when the source size or p is out of range
// and with EMPTY_PYRAMID when no level reaches p.MinDim. Failures have no side
// effects. Identical inputs always produce identical results.
func Pack(srcW, srcH int, p Params) (*Result, error) {
	if srcW <= 0 || srcH <= 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidParameter, "source size %dx%d must be positive", srcW, srcH)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tiles, err := generate(srcW, srcH, p.Ratio, p.MinDim)
	if err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, perrors.New(perrors.ErrCodeEmptyPyramid,
			"source %dx%d is smaller than min dim %d", srcW, srcH, p.MinDim)
	}

	res := &Result{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Params:       p,
		Tiles:        tiles,
	}

	if len(tiles) == 1 {
		res.HeadCount = 1
		res.StripWidth = tiles[0].Width
		res.StripHeight = tiles[0].Height
	} else if err := packStrip(res); err != nil {
		return nil, err
	}

	res.Canvas = Canvas{
		Width:  alignUp(res.StripWidth, p.Alignment),
		Height: alignUp(res.StripHeight, p.Alignment),
	}
	res.Utilization = Utilization(res.Canvas.Width, res.Canvas.Height, res.Tiles)
	return res, nil
}

// packStrip runs split, profile, estimate and place for two or more tiles.
func packStrip(res *Result) error {
	p := res.Params
	tiles := res.Tiles

	headCount, err := SelectSplit(tiles, p.Padding)
	if err != nil {
		return err
	}
	tailCount := len(tiles) - headCount

	head, tail := groupExtents(tiles, p.Padding, headCount)
	stripW := alignUp(max(head, tail), p.Alignment)

	headProfile, tailProfile := BuildProfiles(tiles, p.Padding, headCount, tailCount, stripW)
	stripH := EstimateHeight(headProfile, tailProfile)
	PlaceTiles(tiles, p.Padding, headCount, tailCount, stripW, stripH)

	res.HeadCount = headCount
	res.StripWidth = stripW
	res.StripHeight = stripH
	return nil
}
