package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
)

// packOpts holds the flags of the pack command.
type packOpts struct {
	pack   packFlags
	render renderFlags
	output string
	layout string
	format string
}

// packCommand creates the pack command: image in, atlas out.
func (c *CLI) packCommand() *cobra.Command {
	opts := &packOpts{}

	cmd := &cobra.Command{
		Use:   "pack <image>",
		Short: "Pack the pyramid of an image into an atlas",
		Long: `Pack generates every downscaled level of an image, packs them into one
canvas and writes the resulting atlas.

The output format follows the extension of --output unless --format is given.
Use --layout to also write the tile placement as JSON.`,
		Example: `  pyramidr pack photo.png -o atlas.png
  pyramidr pack photo.jpg -o atlas.png -a 0.5 -s 8 -p 2 -l 16 -b 4
  pyramidr pack photo.png -o atlas.jpg --background white --layout atlas.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pack.applyConfig(cmd, c.Config.Pack)
			opts.render.applyConfig(cmd, c.Config.Pack)
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runPack(ctx, args[0], opts)
		},
	}

	opts.pack.register(cmd)
	opts.render.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output atlas file (required)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "also write the layout JSON to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default from --output extension)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runPack(ctx context.Context, input string, opts *packOpts) error {
	logger := loggerFromContext(ctx)

	if err := validateInput(input); err != nil {
		return err
	}
	if err := perrors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	if opts.layout != "" {
		if err := perrors.ValidateOutputPath(opts.layout); err != nil {
			return err
		}
	}
	format, err := outputFormat(opts.output, opts.format)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.render.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	src, err := loadSource(ctx, runner, input)
	if err != nil {
		return err
	}
	logger.Debug("decoded source", "path", input, "size", formatSize(src.Width(), src.Height()))

	popts := opts.pack.options()
	opts.render.apply(&popts)
	popts.Format = format
	popts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %s...", input))
	spinner.Start()
	res, err := runner.Execute(ctx, src, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, res.Artifact, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	if opts.layout != "" {
		if err := layout.WriteLayoutFile(res.Layout, opts.layout); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", opts.layout)
		}
	}
	prog.done(fmt.Sprintf("Packed %d levels", res.Stats.Tiles))

	size := res.Layout.OutputSize()
	printSuccess("Packed %s", StyleHighlight.Render(input))
	printFile(opts.output)
	if opts.layout != "" {
		printFile(opts.layout)
	}
	printAtlasStats(res.Stats.Tiles, formatSize(size.Width, size.Height), res.Stats.Utilization,
		res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	return nil
}
