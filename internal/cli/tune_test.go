package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pyramidr/pkg/pyramid"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tuneModel, keys ...string) (tuneModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(tuneModel)
	}
	return m, cmd
}

var tuneDefaults = pyramid.Params{Ratio: 0.5, MinDim: 8, Padding: 0, Alignment: 1}

func TestTuneModelInitialPack(t *testing.T) {
	m := newTuneModel(256, 256, tuneDefaults)
	if m.err != nil {
		t.Fatalf("initial pack failed: %v", m.err)
	}
	if len(m.result.Tiles) != 6 {
		t.Errorf("tiles = %d, want 6", len(m.result.Tiles))
	}
	if m.Init() != nil {
		t.Error("Init should not schedule work")
	}
}

func TestTuneModelAdjust(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		check func(pyramid.Params) bool
	}{
		{"ratio up", []string{"right"}, func(p pyramid.Params) bool { return p.Ratio == 0.55 }},
		{"ratio down twice", []string{"left", "h"}, func(p pyramid.Params) bool { return p.Ratio == 0.4 }},
		{"ratio clamps high", []string{"+", "+", "+", "+", "+", "+", "+", "+", "+", "+", "+"}, func(p pyramid.Params) bool { return p.Ratio == 0.95 }},
		{"min dim up", []string{"down", "right"}, func(p pyramid.Params) bool { return p.MinDim == 9 }},
		{"padding stays nonnegative", []string{"j", "j", "left"}, func(p pyramid.Params) bool { return p.Padding == 0 }},
		{"padding up", []string{"j", "j", "l", "l"}, func(p pyramid.Params) bool { return p.Padding == 2 }},
		{"alignment doubles", []string{"up", "right", "right"}, func(p pyramid.Params) bool { return p.Alignment == 4 }},
		{"alignment halves", []string{"k", "l", "l", "l", "h"}, func(p pyramid.Params) bool { return p.Alignment == 4 }},
		{"reset", []string{"right", "down", "right", "r"}, func(p pyramid.Params) bool { return p == tuneDefaults }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(newTuneModel(256, 256, tuneDefaults), tt.keys...)
			if !tt.check(m.params) {
				t.Errorf("params after %v = %+v", tt.keys, m.params)
			}
			if m.err != nil {
				t.Errorf("unexpected pack error: %v", m.err)
			}
		})
	}
}

func TestTuneModelRepacks(t *testing.T) {
	m := newTuneModel(256, 256, tuneDefaults)
	before := m.result.Canvas

	m, _ = press(m, "up", "right", "right", "right", "right")
	if m.params.Alignment != 16 {
		t.Fatalf("alignment = %d, want 16", m.params.Alignment)
	}
	if m.result.Canvas.Width%16 != 0 || m.result.Canvas.Height%16 != 0 {
		t.Errorf("canvas %+v should be aligned to 16", m.result.Canvas)
	}
	if m.result.Canvas.Width < before.Width || m.result.Canvas.Height < before.Height {
		t.Errorf("aligned canvas %+v should not shrink below %+v", m.result.Canvas, before)
	}
}

func TestTuneModelShowsPackError(t *testing.T) {
	m := newTuneModel(64, 64, pyramid.Params{Ratio: 0.5, MinDim: 64, Alignment: 1})
	m, _ = press(m, "down", "right")
	if m.err == nil {
		t.Fatal("min dim above the source should fail to pack")
	}
	if !strings.Contains(m.View(), "smaller than min dim") {
		t.Errorf("view should show the pack error:\n%s", m.View())
	}

	m, cmd := press(m, "enter")
	if cmd != nil || m.accepted {
		t.Error("enter must not accept parameters that do not pack")
	}
}

func TestTuneModelQuitAndAccept(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := press(newTuneModel(256, 256, tuneDefaults), k)
		if cmd == nil {
			t.Errorf("%s should quit", k)
		}
		if m.accepted {
			t.Errorf("%s should not accept", k)
		}
	}

	m, cmd := press(newTuneModel(256, 256, tuneDefaults), "enter")
	if cmd == nil || !m.accepted {
		t.Error("enter should accept and quit")
	}
	if got := m.flagLine(); got != "-a 0.5 -s 8 -p 0 -l 1" {
		t.Errorf("flagLine = %q", got)
	}
}

func TestTuneModelView(t *testing.T) {
	view := newTuneModel(256, 256, tuneDefaults).View()
	for _, want := range []string{"Tune 256×256", "Ratio", "Alignment", "levels", "88.87%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMinimapSize(t *testing.T) {
	tests := []struct {
		w, h       int
		cols, rows int
	}{
		{256, 384, 22, 16},
		{100, 10, 48, 3},
		{1, 1, 1, 1},
		{20, 8, 20, 4},
	}
	for _, tt := range tests {
		cols, rows := minimapSize(tt.w, tt.h)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("minimapSize(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestMinimapMarksLevels(t *testing.T) {
	m := newTuneModel(256, 256, tuneDefaults)
	mm := m.minimap()
	if !strings.Contains(mm, "0") {
		t.Errorf("minimap should show level 0:\n%s", mm)
	}
	lines := strings.Split(strings.TrimRight(mm, "\n"), "\n")
	_, rows := minimapSize(m.result.Canvas.Width, m.result.Canvas.Height)
	if len(lines) != rows {
		t.Errorf("minimap has %d lines, want %d", len(lines), rows)
	}
}

func TestLevelGlyph(t *testing.T) {
	if levelGlyph(0) != "0" || levelGlyph(10) != "a" || levelGlyph(100) != "+" {
		t.Error("unexpected level glyphs")
	}
}
