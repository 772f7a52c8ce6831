package pipeline

import (
	"bytes"
	"context"
	"image"

	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/render"
)

// RenderFromLayout composites src onto l and encodes the atlas in
// opts.Format. It does no caching.
func RenderFromLayout(ctx context.Context, src image.Image, l layout.Layout, opts Options) ([]byte, error) {
	rOpts, err := opts.RenderOptions()
	if err != nil {
		return nil, err
	}
	atlas, err := render.Composite(ctx, src, l, rOpts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, atlas, opts.Format, opts.EncodeOptions()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
