package render

import (
	"image"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// DefaultFilter is used when no filter name is given.
const DefaultFilter = "lanczos"

// Resampler scales an image to an exact size.
// Implementations must be safe for concurrent use on a shared source.
type Resampler interface {
	Resample(src image.Image, width, height int) *image.NRGBA
}

type imagingResampler struct {
	filter imaging.ResampleFilter
}

func (r imagingResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(src, width, height, r.filter)
}

type xdrawResampler struct {
	interp xdraw.Interpolator
}

func (r xdrawResampler) Resample(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

var resamplers = map[string]Resampler{
	"lanczos":          imagingResampler{imaging.Lanczos},
	"catmullrom":       imagingResampler{imaging.CatmullRom},
	"linear":           imagingResampler{imaging.Linear},
	"box":              imagingResampler{imaging.Box},
	"nearest":          imagingResampler{imaging.NearestNeighbor},
	"x-catmullrom":     xdrawResampler{xdraw.CatmullRom},
	"x-bilinear":       xdrawResampler{xdraw.BiLinear},
	"x-approxbilinear": xdrawResampler{xdraw.ApproxBiLinear},
	"x-nearest":        xdrawResampler{xdraw.NearestNeighbor},
}

// NewResampler returns the resampler registered under name.
// An empty name selects [DefaultFilter].
func NewResampler(name string) (Resampler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultFilter
	}
	r, ok := resamplers[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidFilter,
			"unknown filter %q (valid: %s)", name, strings.Join(Filters(), ", "))
	}
	return r, nil
}

// Filters returns all filter names in sorted order.
func Filters() []string {
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
