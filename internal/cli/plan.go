package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
)

// planOpts holds the flags of the plan command.
type planOpts struct {
	pack    packFlags
	output  string
	noCache bool
}

// planCommand creates the plan command: dimensions in, tile table out.
func (c *CLI) planCommand() *cobra.Command {
	opts := &planOpts{}

	cmd := &cobra.Command{
		Use:   "plan <width>x<height>",
		Short: "Pack a pyramid for the given source size without an image",
		Long: `Plan packs the pyramid of a source of the given size and prints where every
level lands. No image is read; use --output to save the layout for render.`,
		Example: `  pyramidr plan 1024x768
  pyramidr plan 256x256 -a 0.5 -s 8 -p 4 -l 16 -o atlas.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseSize(args[0])
			if err != nil {
				return err
			}
			opts.pack.applyConfig(cmd, c.Config.Pack)
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runPlan(ctx, w, h, opts)
		},
	}

	opts.pack.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the layout JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, w, h int, opts *planOpts) error {
	if opts.output != "" {
		if err := perrors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.pack.options()
	popts.Width, popts.Height = w, h
	popts.Logger = loggerFromContext(ctx)

	l, cached, err := runner.LayoutWithCacheInfo(ctx, popts)
	if err != nil {
		return err
	}

	fmt.Println(renderTileTable(l))
	printNewline()

	size := l.OutputSize()
	printKeyValue("Source", formatSize(l.Source.Width, l.Source.Height))
	printKeyValue("Canvas", formatSize(size.Width, size.Height))
	printKeyValue("Utilization", formatUtilization(l.Utilization))
	printAtlasStats(len(l.Tiles), formatSize(size.Width, size.Height), l.Utilization, cached)

	if opts.output != "" {
		if err := layout.WriteLayoutFile(l, opts.output); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", opts.output)
		}
		printNewline()
		printSuccess("Layout written")
		printFile(opts.output)
		printNextStep("Render an image onto it", fmt.Sprintf("%s render %s <image> -o atlas.png", appName, opts.output))
	}
	return nil
}

// renderTileTable formats the placed levels of l, head tiles first.
func renderTileTable(l layout.Layout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	headStyle := lipgloss.NewStyle().Foreground(colorCyan)
	tailStyle := lipgloss.NewStyle().Foreground(colorBlue)

	rows := make([][]string, len(l.Tiles))
	for i, t := range l.Tiles {
		rows[i] = []string{
			strconv.Itoa(t.Level),
			tileGroup(l, i),
			strconv.Itoa(t.X),
			strconv.Itoa(t.Y),
			formatSize(t.Width, t.Height),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Group", "X", "Y", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < l.HeadCount {
				return headStyle
			}
			return tailStyle
		}).
		Render()
}

func tileGroup(l layout.Layout, i int) string {
	if i < l.HeadCount {
		return "head"
	}
	return "tail"
}
