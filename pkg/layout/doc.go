// Package layout provides the serialization format for packed pyramids.
//
// A [Layout] is what pyramidr writes next to an atlas image so that other
// tools (texture streamers, sprite loaders) can find every level without
// re-running the packer. It is also the unit cached by pkg/pipeline and
// returned by the HTTP API.
//
// # Format
//
//	{
//	  "version": 1,
//	  "source": {"width": 256, "height": 256},
//	  "params": {"ratio": 0.5, "min_dim": 8, "padding": 0, "alignment": 1},
//	  "canvas": {"width": 256, "height": 384},
//	  "utilization": 0.888671875,
//	  "head_count": 1,
//	  "tiles": [
//	    {"level": 0, "x": 0, "y": 0, "width": 256, "height": 256},
//	    {"level": 1, "x": 128, "y": 256, "width": 128, "height": 128}
//	  ]
//	}
//
// Common operations:
//
//	l := layout.FromResult(res, border)         // pyramid.Result → Layout
//	layout.WriteLayoutFile(l, "atlas.json")     // Layout → File
//	l, err := layout.ReadLayoutFile("atlas.json") // File → Layout (validated)
package layout
