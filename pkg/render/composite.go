package render

import (
	"context"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
)

// Options configures [Composite].
type Options struct {
	// Filter names the resampler (see [Filters]). Empty means [DefaultFilter].
	Filter string

	// Background fills the border and every pixel no tile covers.
	Background color.NRGBA

	// Workers bounds the number of tiles resampled at once.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// Composite renders src into the atlas described by l.
//
// The returned image is l.OutputSize() large. Tile i of l is src resampled
// to the tile's size and copied to (l.Border+X, l.Border+Y). If l records a
// source size, src must match it.
func Composite(ctx context.Context, src image.Image, l layout.Layout, opts Options) (*image.NRGBA, error) {
	if src == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "source image is nil")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	b := src.Bounds()
	if l.Source.Width > 0 && (b.Dx() != l.Source.Width || b.Dy() != l.Source.Height) {
		return nil, perrors.New(perrors.ErrCodeInvalidInput,
			"source is %dx%d but layout was packed for %dx%d", b.Dx(), b.Dy(), l.Source.Width, l.Source.Height)
	}
	if opts.Workers < 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidParameter, "workers %d must be nonnegative", opts.Workers)
	}
	resampler, err := NewResampler(opts.Filter)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// One NRGBA copy keeps concurrent reads on a fast path and off the
	// caller's image.
	base := imaging.Clone(src)

	size := l.OutputSize()
	dst := imaging.New(size.Width, size.Height, opts.Background)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range l.Tiles {
		t := t
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tile := base
			if t.Width != base.Rect.Dx() || t.Height != base.Rect.Dy() {
				tile = resampler.Resample(base, t.Width, t.Height)
			}
			at := image.Pt(l.Border+t.X, l.Border+t.Y)
			xdraw.Copy(dst, at, tile, tile.Bounds(), xdraw.Src, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dst, nil
}
