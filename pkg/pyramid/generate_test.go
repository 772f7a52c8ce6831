package pyramid

import (
	"testing"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		ratio      float64
		minDim     int
		wantWidths []int
	}{
		{
			name:       "power of two halving",
			w:          256, h: 256, ratio: 0.5, minDim: 8,
			wantWidths: []int{256, 128, 64, 32, 16, 8},
		},
		{
			name:       "source below cutoff",
			w:          256, h: 256, ratio: 0.5, minDim: 300,
			wantWidths: nil,
		},
		{
			name:       "single level",
			w:          256, h: 256, ratio: 0.5, minDim: 200,
			wantWidths: []int{256},
		},
		{
			name:       "round half up",
			w:          5, h: 5, ratio: 0.5, minDim: 1,
			wantWidths: []int{5, 3, 1},
		},
		{
			name:       "height limits",
			w:          400, h: 100, ratio: 0.5, minDim: 20,
			wantWidths: []int{400, 200, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := Generate(tt.w, tt.h, tt.ratio, tt.minDim)
			if len(tiles) != len(tt.wantWidths) {
				t.Fatalf("Generate() returned %d tiles, want %d", len(tiles), len(tt.wantWidths))
			}
			for i, tile := range tiles {
				if tile.Width != tt.wantWidths[i] {
					t.Errorf("tile %d width = %d, want %d", i, tile.Width, tt.wantWidths[i])
				}
				if tile.Level != i {
					t.Errorf("tile %d level = %d, want %d", i, tile.Level, i)
				}
			}
		})
	}
}

func TestGenerateRenumbersSkippedLevels(t *testing.T) {
	// 3·0.9^k rounds to 3, 3, 2, 2, 2, 2, 2, 1, ...: steps 1 and 3-6 repeat
	// the previous size and are skipped.
	tiles := Generate(3, 3, 0.9, 1)
	want := []int{3, 2, 1}
	if len(tiles) != len(want) {
		t.Fatalf("Generate(3, 3, 0.9, 1) = %v, want sizes %v", tiles, want)
	}
	for i, tile := range tiles {
		if tile.Level != i {
			t.Errorf("tiles[%d].Level = %d, want %d", i, tile.Level, i)
		}
		if tile.Width != want[i] || tile.Height != want[i] {
			t.Errorf("tiles[%d] = %dx%d, want %dx%d", i, tile.Width, tile.Height, want[i], want[i])
		}
	}
}

func TestGenerateStrictlyDecreasing(t *testing.T) {
	// Ratios close to 1 round to the same size for several steps.
	for _, ratio := range []float64{0.5, 0.75, 0.9, 0.97, 0.999} {
		tiles := Generate(37, 23, ratio, 2)
		if len(tiles) == 0 {
			t.Fatalf("ratio %v: no tiles", ratio)
		}
		for i, tile := range tiles {
			if tile.Width < 2 || tile.Height < 2 {
				t.Errorf("ratio %v: tile %d is %dx%d, below min dim", ratio, i, tile.Width, tile.Height)
			}
			if i == 0 {
				continue
			}
			prev := tiles[i-1]
			if tile.Width >= prev.Width || tile.Height >= prev.Height {
				t.Errorf("ratio %v: tile %d (%dx%d) not smaller than tile %d (%dx%d)",
					ratio, i, tile.Width, tile.Height, i-1, prev.Width, prev.Height)
			}
		}
	}
}

func TestGenerateSlowDecay(t *testing.T) {
	_, err := generate(100, 100, 1-1e-12, 1)
	if !perrors.Is(err, perrors.ErrCodeInvalidParameter) {
		t.Errorf("generate() error = %v, want INVALID_PARAMETER", err)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 1},
		{1.49, 1},
		{2.5, 3},
		{127.5, 128},
		{0.49, 0},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
