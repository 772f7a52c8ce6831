package layout

import (
	"encoding/json"
	"fmt"
	"os"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/pyramid"
)

// Version is the current layout format version.
const Version = 1

// =============================================================================
// Layout - Atlas Serialization Format
// =============================================================================

// Layout is the serialization format of a packed pyramid.
//
// Coordinates in Tiles are relative to the packed canvas. Border is not part
// of the packing: a renderer adds it on every side, so the image it produces
// is (Canvas.Width+2*Border)×(Canvas.Height+2*Border) and a tile's pixels
// start at (Border+X, Border+Y).
type Layout struct {
	Version     int     `json:"version"`
	Source      Size    `json:"source"`
	Params      Params  `json:"params"`
	Canvas      Size    `json:"canvas"`
	Border      int     `json:"border,omitempty"`
	Utilization float64 `json:"utilization"`
	HeadCount   int     `json:"head_count"`
	Tiles       []Tile  `json:"tiles"`
}

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Params mirrors [pyramid.Params].
type Params struct {
	Ratio     float64 `json:"ratio"`
	MinDim    int     `json:"min_dim"`
	Padding   int     `json:"padding"`
	Alignment int     `json:"alignment"`
}

// Tile is one placed pyramid level.
type Tile struct {
	Level  int `json:"level"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OutputSize returns the size of the rendered image, border included.
func (l *Layout) OutputSize() Size {
	return Size{
		Width:  l.Canvas.Width + 2*l.Border,
		Height: l.Canvas.Height + 2*l.Border,
	}
}

// =============================================================================
// Conversion
// =============================================================================

// FromResult converts a packing result into its serialization format.
func FromResult(res *pyramid.Result, border int) Layout {
	tiles := make([]Tile, len(res.Tiles))
	for i, t := range res.Tiles {
		tiles[i] = Tile{Level: t.Level, X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
	}
	return Layout{
		Version: Version,
		Source:  Size{Width: res.SourceWidth, Height: res.SourceHeight},
		Params: Params{
			Ratio:     res.Params.Ratio,
			MinDim:    res.Params.MinDim,
			Padding:   res.Params.Padding,
			Alignment: res.Params.Alignment,
		},
		Canvas:      Size{Width: res.Canvas.Width, Height: res.Canvas.Height},
		Border:      border,
		Utilization: res.Utilization,
		HeadCount:   res.HeadCount,
		Tiles:       tiles,
	}
}

// PyramidParams returns the packing parameters recorded in l.
func (l *Layout) PyramidParams() pyramid.Params {
	return pyramid.Params{
		Ratio:     l.Params.Ratio,
		MinDim:    l.Params.MinDim,
		Padding:   l.Params.Padding,
		Alignment: l.Params.Alignment,
	}
}

// PyramidTiles returns the placed tiles as [pyramid.Tile] values.
func (l *Layout) PyramidTiles() []pyramid.Tile {
	tiles := make([]pyramid.Tile, len(l.Tiles))
	for i, t := range l.Tiles {
		tiles[i] = pyramid.Tile{Level: t.Level, X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
	}
	return tiles
}

// Validate checks that the layout is renderable: it has tiles, a positive
// canvas, a nonnegative border, and every tile lies inside the canvas.
func (l *Layout) Validate() error {
	if l.Version > Version {
		return perrors.New(perrors.ErrCodeInvalidLayout, "layout version %d is newer than supported %d", l.Version, Version)
	}
	if len(l.Tiles) == 0 {
		return perrors.New(perrors.ErrCodeInvalidLayout, "layout must contain tiles")
	}
	if l.Canvas.Width <= 0 || l.Canvas.Height <= 0 {
		return perrors.New(perrors.ErrCodeInvalidLayout, "canvas %dx%d must be positive", l.Canvas.Width, l.Canvas.Height)
	}
	if l.Border < 0 {
		return perrors.New(perrors.ErrCodeInvalidLayout, "border %d must be nonnegative", l.Border)
	}
	canvas := pyramid.Canvas{Width: l.Canvas.Width, Height: l.Canvas.Height}
	for i, t := range l.PyramidTiles() {
		if t.Width <= 0 || t.Height <= 0 {
			return perrors.New(perrors.ErrCodeInvalidLayout, "tile %d has empty size %dx%d", i, t.Width, t.Height)
		}
		if !canvas.Contains(t) {
			return perrors.New(perrors.ErrCodeInvalidLayout, "tile %d at (%d,%d) %dx%d escapes canvas %dx%d",
				i, t.X, t.Y, t.Width, t.Height, canvas.Width, canvas.Height)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, perrors.Wrap(perrors.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	if l.Version == 0 {
		l.Version = Version
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
