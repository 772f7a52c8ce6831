// Package pyramid packs an image pyramid into the smallest enclosing canvas.
//
// An image pyramid is a sequence of progressively smaller copies of a source
// image: level 0 at full resolution, each following level scaled by a fixed
// ratio until either dimension would drop below a cutoff. This package decides
// where every level goes on a single canvas; it never touches pixels.
// Resampling and compositing live in pkg/render.
//
// # Algorithm
//
// Packing runs as a fixed sequence of stages:
//
//  1. [Generate] derives the level sizes.
//  2. [SelectSplit] divides the levels into a head group (anchored top-left,
//     laid out left to right) and a tail group (anchored bottom-right, laid
//     out right to left), balancing their total widths.
//  3. [BuildProfiles] records, for every column of the strip, how far the
//     head tiles reach down from the top and the tail tiles reach up from the
//     bottom.
//  4. [EstimateHeight] sweeps both profiles to find the smallest strip height
//     at which the two groups cannot collide.
//  5. [PlaceTiles] assigns final coordinates.
//  6. [Utilization] reports the fraction of the canvas covered by tiles.
//
// The strip width and height are finally rounded up to the requested
// alignment to form the [Canvas].
//
// # Usage
//
//	res, err := pyramid.Pack(1024, 768, pyramid.Params{
//	    Ratio:     0.5,
//	    MinDim:    8,
//	    Padding:   2,
//	    Alignment: 4,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, t := range res.Tiles {
//	    fmt.Println(t.Level, t.X, t.Y, t.Width, t.Height)
//	}
//
// A pyramid with a single level skips the split entirely: the canvas is the
// level itself rounded up to the alignment.
//
// Pack is deterministic and allocation-light; it is safe to call from many
// goroutines at once since every call owns its tiles.
package pyramid
