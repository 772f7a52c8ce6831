// Package pkg provides the core libraries for pyramidr image-pyramid packing.
//
// # Overview
//
// Pyramidr turns one source image into an atlas holding all of its
// successively downscaled levels. The pkg directory is organized into:
//
//  1. [pyramid] - The packer: level generation, head/tail split, skyline
//     profiles, height estimation, placement and utilization
//  2. [layout] - Serialization format of a packed pyramid
//  3. [render] - Resampling, compositing and image codecs
//  4. [pipeline] - Orchestration (parse → layout → render) with caching
//  5. [cache], [httputil], [config], [observability] - Infrastructure
//
// # Architecture
//
//	Source image (file, URL or HTTP upload)
//	         ↓
//	    [pipeline.ParseSource] (decode + content hash)
//	         ↓
//	    [pyramid.Pack] (pure geometry)
//	         ↓
//	    [layout.FromResult] (serializable layout)
//	         ↓
//	    [render.Composite] + [render.Encode]
//	         ↓
//	    PNG/JPEG/GIF/TIFF/BMP atlas
//
// # Quick Start
//
//	res, err := pyramid.Pack(1024, 768, pyramid.Params{
//	    Ratio:     0.5,
//	    MinDim:    8,
//	    Padding:   2,
//	    Alignment: 16,
//	})
//	fmt.Println(res.Canvas, res.Utilization)
package pkg
