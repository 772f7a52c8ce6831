package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyramidr/pkg/config"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/pipeline"
	"github.com/matzehuels/pyramidr/pkg/render"
)

// =============================================================================
// Packing Flags
// =============================================================================

// packFlags holds the packing parameters shared by pack, plan and tune.
type packFlags struct {
	ratio     float64
	minDim    int
	padding   int
	alignment int
	border    int
}

func (f *packFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.ratio, "ratio", "a", pipeline.DefaultRatio, "scale between successive levels, in (0, 1)")
	cmd.Flags().IntVarP(&f.minDim, "min-dim", "s", pipeline.DefaultMinDim, "smallest width or height a level may have")
	cmd.Flags().IntVarP(&f.padding, "padding", "p", pipeline.DefaultPadding, "gap in pixels between neighbouring levels")
	cmd.Flags().IntVarP(&f.alignment, "align", "l", pipeline.DefaultAlignment, "make canvas dimensions a multiple of this")
	cmd.Flags().IntVarP(&f.border, "border", "b", pipeline.DefaultBorder, "extra border in pixels around the atlas")
}

// applyConfig copies values from the [pack] config section into every flag
// the user did not set on the command line.
func (f *packFlags) applyConfig(cmd *cobra.Command, pc config.PackConfig) {
	changed := cmd.Flags().Changed
	if !changed("ratio") && pc.Ratio != 0 {
		f.ratio = pc.Ratio
	}
	if !changed("min-dim") && pc.MinDim != 0 {
		f.minDim = pc.MinDim
	}
	if !changed("padding") && pc.Padding != 0 {
		f.padding = pc.Padding
	}
	if !changed("align") && pc.Alignment != 0 {
		f.alignment = pc.Alignment
	}
	if !changed("border") && pc.Border != 0 {
		f.border = pc.Border
	}
}

func (f *packFlags) options() pipeline.Options {
	return pipeline.Options{
		Ratio:     f.ratio,
		MinDim:    f.minDim,
		Padding:   f.padding,
		Alignment: f.alignment,
		Border:    f.border,
	}
}

// =============================================================================
// Render Flags
// =============================================================================

// renderFlags holds the compositing and encoding options of pack and render.
type renderFlags struct {
	filter     string
	background string
	quality    int
	workers    int
	fastPNG    bool
	noCache    bool
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, "filter", pipeline.DefaultFilter, "resampling filter ("+strings.Join(render.Filters(), ", ")+")")
	cmd.Flags().StringVar(&f.background, "background", pipeline.DefaultBackground, "fill colour for unused space: name, #rgb, #rrggbb, #rrggbbaa or transparent")
	cmd.Flags().IntVar(&f.quality, "quality", render.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "levels resampled concurrently (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.fastPNG, "fast-png", false, "favour PNG encoding speed over file size")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results (still writes them)")
}

func (f *renderFlags) applyConfig(cmd *cobra.Command, pc config.PackConfig) {
	changed := cmd.Flags().Changed
	if !changed("filter") && pc.Filter != "" {
		f.filter = pc.Filter
	}
	if !changed("background") && pc.Background != "" {
		f.background = pc.Background
	}
	if !changed("workers") && pc.Workers != 0 {
		f.workers = pc.Workers
	}
	if !changed("quality") && pc.Quality != 0 {
		f.quality = pc.Quality
	}
	if !changed("fast-png") && pc.FastPNG {
		f.fastPNG = true
	}
}

func (f *renderFlags) apply(opts *pipeline.Options) {
	opts.Filter = f.filter
	opts.Background = f.background
	opts.JPEGQuality = f.quality
	opts.Workers = f.workers
	opts.FastPNG = f.fastPNG
	opts.Refresh = f.refresh
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseSize parses a "WIDTHxHEIGHT" argument such as "1024x768".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, perrors.New(perrors.ErrCodeInvalidParameter, "size %q must look like WIDTHxHEIGHT", s)
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, perrors.New(perrors.ErrCodeInvalidParameter, "size %q has an invalid width", s)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, perrors.New(perrors.ErrCodeInvalidParameter, "size %q has an invalid height", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, perrors.New(perrors.ErrCodeInvalidParameter, "size %dx%d must be positive", w, h)
	}
	return w, h, nil
}

// outputFormat resolves the encoding of an output path: the explicit
// format when given, otherwise the path's extension.
func outputFormat(path, explicit string) (string, error) {
	if explicit != "" {
		return render.ParseFormat(explicit)
	}
	return render.FormatFromPath(path)
}
