package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/pyramid"
)

// tuneCommand creates the tune command, an interactive parameter explorer.
func (c *CLI) tuneCommand() *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "tune <width>x<height>",
		Short: "Explore packing parameters interactively",
		Long: `Tune repacks the pyramid of a source of the given size every time a parameter
changes and shows the resulting canvas, utilization and a minimap.

Press enter to print the flags of the current parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseSize(args[0])
			if err != nil {
				return err
			}
			flags.applyConfig(cmd, c.Config.Pack)
			opts := flags.options()
			p := opts.Params()
			if err := p.Validate(); err != nil {
				return err
			}

			prog := tea.NewProgram(newTuneModel(w, h, p), tea.WithContext(cmd.Context()))
			final, err := prog.Run()
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInternal, err, "run tune")
			}
			if m, ok := final.(tuneModel); ok && m.accepted {
				printSuccess("Parameters selected")
				printNextStep("Pack with", fmt.Sprintf("%s pack <image> -o atlas.png %s", appName, m.flagLine()))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// tuneModel - Interactive parameter explorer
// =============================================================================

const (
	fieldRatio = iota
	fieldMinDim
	fieldPadding
	fieldAlignment
	fieldCount
)

const (
	ratioStep    = 0.05
	minRatio     = 0.05
	maxRatio     = 0.95
	maxAlignment = 1024

	minimapCols = 48
	minimapRows = 16
)

var (
	tuneLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(11)
	tuneSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuneHeadStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	tuneTailStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	tuneErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// tuneModel is the bubbletea model behind `pyramidr tune`. Every parameter
// change repacks synchronously; packing is cheap next to a keypress.
type tuneModel struct {
	width, height int
	params        pyramid.Params
	initial       pyramid.Params
	field         int

	result *pyramid.Result
	err    error

	accepted bool
}

func newTuneModel(w, h int, p pyramid.Params) tuneModel {
	m := tuneModel{width: w, height: h, params: p, initial: p}
	m.repack()
	return m
}

func (m *tuneModel) repack() {
	m.result, m.err = pyramid.Pack(m.width, m.height, m.params)
}

func (m tuneModel) Init() tea.Cmd {
	return nil
}

func (m tuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.err == nil {
			m.accepted = true
			return m, tea.Quit
		}
	case "up", "k":
		m.field = (m.field + fieldCount - 1) % fieldCount
	case "down", "j":
		m.field = (m.field + 1) % fieldCount
	case "right", "l", "+":
		m.adjust(1)
	case "left", "h", "-":
		m.adjust(-1)
	case "r":
		m.params = m.initial
		m.repack()
	}
	return m, nil
}

// adjust moves the selected parameter one step in direction dir (±1).
func (m *tuneModel) adjust(dir int) {
	p := m.params
	switch m.field {
	case fieldRatio:
		r := math.Round((p.Ratio+float64(dir)*ratioStep)*100) / 100
		p.Ratio = min(max(r, minRatio), maxRatio)
	case fieldMinDim:
		p.MinDim = max(p.MinDim+dir, 1)
	case fieldPadding:
		p.Padding = max(p.Padding+dir, 0)
	case fieldAlignment:
		if dir > 0 {
			p.Alignment = min(p.Alignment*2, maxAlignment)
		} else {
			p.Alignment = max(p.Alignment/2, 1)
		}
	}
	if p != m.params {
		m.params = p
		m.repack()
	}
}

func (m tuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Tune %s", formatSize(m.width, m.height))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  ←/→ adjust  r reset  ⏎ accept  q quit"))
	b.WriteString("\n\n")

	values := [fieldCount][2]string{
		{"Ratio", fmt.Sprintf("%.2f", m.params.Ratio)},
		{"Min dim", fmt.Sprintf("%d", m.params.MinDim)},
		{"Padding", fmt.Sprintf("%d", m.params.Padding)},
		{"Alignment", fmt.Sprintf("%d", m.params.Alignment)},
	}
	for i, v := range values {
		cursor, value := "  ", StyleValue.Render(v[1])
		if i == m.field {
			cursor, value = "▸ ", tuneSelectedStyle.Render(v[1])
		}
		b.WriteString(cursor + tuneLabelStyle.Render(v[0]) + " " + value + "\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(tuneErrorStyle.Render(iconError + " " + perrors.UserMessage(m.err)))
		b.WriteString("\n")
		return b.String()
	}

	r := m.result
	b.WriteString(fmt.Sprintf("  %s %s  %s %s  %s %s\n",
		StyleDim.Render("levels"), StyleNumber.Render(fmt.Sprintf("%d", len(r.Tiles))),
		StyleDim.Render("canvas"), StyleNumber.Render(formatSize(r.Canvas.Width, r.Canvas.Height)),
		StyleDim.Render("used"), StyleNumber.Render(formatUtilization(r.Utilization))))
	b.WriteString("\n")
	b.WriteString(m.minimap())
	return b.String()
}

// minimap draws the canvas scaled into at most minimapCols×minimapRows
// cells. Each cell shows the level whose tile covers the cell's centre;
// terminal cells are about twice as tall as wide.
func (m tuneModel) minimap() string {
	r := m.result
	if r == nil || r.Canvas.Width <= 0 || r.Canvas.Height <= 0 {
		return ""
	}
	cols, rows := minimapSize(r.Canvas.Width, r.Canvas.Height)
	sx := float64(r.Canvas.Width) / float64(cols)
	sy := float64(r.Canvas.Height) / float64(rows)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.WriteString("  ")
		y := int((float64(row) + 0.5) * sy)
		for col := 0; col < cols; col++ {
			x := int((float64(col) + 0.5) * sx)
			idx := tileAt(r.Tiles, x, y)
			switch {
			case idx < 0:
				b.WriteString(StyleDim.Render("·"))
			case idx < r.HeadCount:
				b.WriteString(tuneHeadStyle.Render(levelGlyph(r.Tiles[idx].Level)))
			default:
				b.WriteString(tuneTailStyle.Render(levelGlyph(r.Tiles[idx].Level)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func minimapSize(w, h int) (cols, rows int) {
	cols = min(w, minimapCols)
	rows = int(math.Ceil(float64(h) * float64(cols) / float64(w) / 2))
	if rows > minimapRows {
		rows = minimapRows
		cols = int(math.Ceil(float64(w) * float64(rows) * 2 / float64(h)))
	}
	return max(cols, 1), max(rows, 1)
}

func tileAt(tiles []pyramid.Tile, x, y int) int {
	for i, t := range tiles {
		if x >= t.X && x < t.Right() && y >= t.Y && y < t.Bottom() {
			return i
		}
	}
	return -1
}

const levelGlyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

func levelGlyph(level int) string {
	if level < len(levelGlyphs) {
		return levelGlyphs[level : level+1]
	}
	return "+"
}

// flagLine renders the current parameters as pack flags.
func (m tuneModel) flagLine() string {
	return fmt.Sprintf("-a %g -s %d -p %d -l %d",
		m.params.Ratio, m.params.MinDim, m.params.Padding, m.params.Alignment)
}
