package pipeline

import (
	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/pyramid"
)

// GenerateLayout packs the pyramid for opts.Width×opts.Height and converts
// the result to its serialization format. It does no caching.
func GenerateLayout(opts Options) (layout.Layout, error) {
	res, err := pyramid.Pack(opts.Width, opts.Height, opts.Params())
	if err != nil {
		return layout.Layout{}, err
	}
	opts.Logger.Debug("packed pyramid",
		"levels", len(res.Tiles),
		"head", res.HeadCount,
		"tail", res.TailCount(),
		"strip", [2]int{res.StripWidth, res.StripHeight},
		"canvas", [2]int{res.Canvas.Width, res.Canvas.Height})
	return layout.FromResult(res, opts.Border), nil
}
