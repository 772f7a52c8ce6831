package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	render renderFlags
	output string
	format string
}

// renderCommand creates the render command: saved layout plus image in,
// atlas out.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <layout.json> <image>",
		Short: "Composite an image onto a saved layout",
		Long: `Render resamples an image into every level of an existing layout, as written
by "pyramidr plan -o" or "pyramidr pack --layout", and writes the atlas.

The image must have the source size the layout was packed for.`,
		Example: `  pyramidr render atlas.json photo.png -o atlas.png
  pyramidr render atlas.json photo.png -o atlas.jpg --quality 85 --background black`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.render.applyConfig(cmd, c.Config.Pack)
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, args[0], args[1], opts)
		},
	}

	opts.render.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output atlas file (required)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default from --output extension)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, layoutPath, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	if err := perrors.ValidateInputFile(layoutPath); err != nil {
		return err
	}
	if err := validateInput(input); err != nil {
		return err
	}
	if err := perrors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	format, err := outputFormat(opts.output, opts.format)
	if err != nil {
		return err
	}

	l, err := layout.ReadLayoutFile(layoutPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.render.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	src, err := loadSource(ctx, runner, input)
	if err != nil {
		return err
	}
	logger.Debug("loaded inputs", "layout", layoutPath, "tiles", len(l.Tiles), "source", formatSize(src.Width(), src.Height()))

	var popts pipeline.Options
	opts.render.apply(&popts)
	popts.Format = format
	popts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d levels...", len(l.Tiles)))
	spinner.Start()
	data, cached, err := runner.RenderWithCacheInfo(ctx, src, l, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}

	size := l.OutputSize()
	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printFile(opts.output)
	printAtlasStats(len(l.Tiles), formatSize(size.Width, size.Height), l.Utilization, cached)
	return nil
}
