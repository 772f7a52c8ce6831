// Package render turns a packed layout into pixels.
//
// # Overview
//
// The packer in [pyramid] only decides where each level goes. This package
// does the image work around it:
//
//   - Resampling each level from the source image ([Resampler], [NewResampler])
//   - Compositing the levels onto one canvas ([Composite])
//   - Parsing background colours ([ParseColor])
//   - Decoding sources and encoding atlases ([Decode], [DecodeConfig], [Encode])
//
// # Filters
//
// Filter names select a [Resampler]. Names without a prefix use
// disintegration/imaging kernels; names with an "x-" prefix use the
// interpolators from golang.org/x/image/draw:
//
//	lanczos (default)  catmullrom  linear  box  nearest
//	x-catmullrom  x-bilinear  x-approxbilinear  x-nearest
//
// # Compositing
//
// [Composite] resamples every tile in parallel and copies it to
// (border+X, border+Y) of a canvas filled with the background colour:
//
//	l := layout.FromResult(res, 2)
//	atlas, err := render.Composite(ctx, src, l, render.Options{Filter: "lanczos"})
//
// Tiles never overlap, so workers write disjoint regions of the same
// [image.NRGBA] without locking.
//
// [pyramid]: github.com/matzehuels/pyramidr/pkg/pyramid
package render
