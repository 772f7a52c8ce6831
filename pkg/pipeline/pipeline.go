// Package pipeline provides the pack → render pipeline for pyramidr.
//
// The CLI and the HTTP server both drive the same three stages through a
// [Runner], so flags, query parameters and cache keys behave identically:
//
//  1. Parse: decode the source image and hash its bytes
//  2. Layout: pack the pyramid for the source dimensions
//  3. Render: resample every level onto the atlas and encode it
//
// Layouts depend only on dimensions and packing parameters, so they are
// cached independently of the pixels. Artifacts are keyed by source hash,
// layout hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	src, err := pipeline.ParseSource(data)
//	res, err := runner.Execute(ctx, src, pipeline.Options{
//	    Ratio: 0.5, MinDim: 8, Alignment: 4,
//	    Format: "png",
//	})
//	os.WriteFile("atlas.png", res.Artifact, 0644)
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, opts)          // dimensions only
//	data, err := runner.Render(ctx, src, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyramidr/pkg/cache"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/pyramid"
	"github.com/matzehuels/pyramidr/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Defaults shared by the CLI flags, the config file and the HTTP API.
// Ratio and Alignment have no zero-value default inside Options: a zero
// there is a caller error, not a request for the default.
const (
	DefaultRatio     = 0.5
	DefaultMinDim    = 1
	DefaultPadding   = 0
	DefaultAlignment = 1
	DefaultBorder    = 0
	DefaultFormat    = render.FormatPNG
	DefaultFilter    = render.DefaultFilter

	// DefaultBackground fills canvas space no level covers. Use
	// "transparent" to keep it clear.
	DefaultBackground = "black"
)

// MaxBorder bounds the border so a typo cannot allocate a huge canvas.
const MaxBorder = 4096

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source dimensions. Execute fills them from the decoded image.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Layout options
	Ratio     float64 `json:"ratio"`
	MinDim    int     `json:"min_dim"`
	Padding   int     `json:"padding"`
	Alignment int     `json:"alignment"`
	Border    int     `json:"border,omitempty"`

	// Render options
	Format      string `json:"format,omitempty"`
	Filter      string `json:"filter,omitempty"`
	Background  string `json:"background,omitempty"`
	JPEGQuality int    `json:"jpeg_quality,omitempty"`
	FastPNG     bool   `json:"fast_png,omitempty"`
	Workers     int    `json:"workers,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SourceHash is the SHA-256 of the encoded source bytes.
	SourceHash string

	// Layout is the packed atlas description.
	Layout layout.Layout

	// LayoutHash is the content hash of the serialized layout.
	LayoutHash string

	// Artifact is the encoded atlas in Format.
	Artifact []byte
	Format   string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tiles       int
	Utilization float64
	Bytes       int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the source size and packing parameters.
func (o *Options) ValidateForLayout() error {
	o.setLoggerDefault()
	if o.Width <= 0 || o.Height <= 0 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "source size %dx%d must be positive", o.Width, o.Height)
	}
	if o.Border < 0 || o.Border > MaxBorder {
		return perrors.New(perrors.ErrCodeInvalidParameter, "border %d is out of range (0-%d)", o.Border, MaxBorder)
	}
	return o.Params().Validate()
}

// SetRenderDefaults fills empty render fields.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Filter == "" {
		o.Filter = DefaultFilter
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	o.setLoggerDefault()
}

// ValidateForRender applies render defaults and checks the render fields.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	format, err := render.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = format
	if _, err := render.NewResampler(o.Filter); err != nil {
		return err
	}
	if _, err := render.ParseColor(o.Background); err != nil {
		return err
	}
	if o.Workers < 0 {
		return perrors.New(perrors.ErrCodeInvalidParameter, "workers %d must be nonnegative", o.Workers)
	}
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Params returns the packing parameters.
func (o *Options) Params() pyramid.Params {
	return pyramid.Params{
		Ratio:     o.Ratio,
		MinDim:    o.MinDim,
		Padding:   o.Padding,
		Alignment: o.Alignment,
	}
}

// RenderOptions converts the render fields for [render.Composite].
func (o *Options) RenderOptions() (render.Options, error) {
	bg, err := render.ParseColor(o.Background)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Filter:     o.Filter,
		Background: bg,
		Workers:    o.Workers,
	}, nil
}

// EncodeOptions returns the encoder settings.
func (o *Options) EncodeOptions() render.EncodeOptions {
	return render.EncodeOptions{JPEGQuality: o.JPEGQuality, FastPNG: o.FastPNG}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Ratio:     o.Ratio,
		MinDim:    o.MinDim,
		Padding:   o.Padding,
		Alignment: o.Alignment,
		Border:    o.Border,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Filter:      o.Filter,
		Background:  o.Background,
		Format:      o.Format,
		JPEGQuality: o.JPEGQuality,
		FastPNG:     o.FastPNG,
	}
}
