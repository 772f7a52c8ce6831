package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/pyramid"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func packLayout(t *testing.T, w, h int, p pyramid.Params, border int) layout.Layout {
	t.Helper()
	res, err := pyramid.Pack(w, h, p)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	return layout.FromResult(res, border)
}

func TestNewResampler(t *testing.T) {
	for _, name := range Filters() {
		t.Run(name, func(t *testing.T) {
			r, err := NewResampler(name)
			if err != nil {
				t.Fatalf("NewResampler(%q) error: %v", name, err)
			}
			out := r.Resample(solid(40, 20, red), 10, 5)
			if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 5 {
				t.Errorf("Resample() size = %v, want 10x5", out.Bounds())
			}
			if got := out.NRGBAAt(5, 2); !near(got, red) {
				t.Errorf("Resample() center = %v, want %v", got, red)
			}
		})
	}
}

func TestNewResamplerDefaultAndUnknown(t *testing.T) {
	if _, err := NewResampler(""); err != nil {
		t.Errorf("NewResampler(\"\") error: %v", err)
	}
	if _, err := NewResampler(" Lanczos "); err != nil {
		t.Errorf("NewResampler is not case-insensitive: %v", err)
	}
	_, err := NewResampler("bicubic")
	if !perrors.Is(err, perrors.ErrCodeInvalidFilter) {
		t.Errorf("NewResampler(bicubic) error = %v, want INVALID_FILTER", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"", Transparent, false},
		{"transparent", Transparent, false},
		{"black", color.NRGBA{A: 0xff}, false},
		{"White", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#f00", color.NRGBA{0xff, 0, 0, 0xff}, false},
		{"#00ff00", color.NRGBA{0, 0xff, 0, 0xff}, false},
		{"#0000ff80", color.NRGBA{0, 0, 0xff, 0x80}, false},
		{"#12345", Transparent, true},
		{"#zzzzzz", Transparent, true},
		{"#000000zz", Transparent, true},
		{"notacolour", Transparent, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"tif", FormatTIFF, false},
		{"bmp", FormatBMP, false},
		{"webp", "", true},
		{"p/ng", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := FormatFromPath("atlas"); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(no ext) error = %v, want INVALID_FORMAT", err)
	}
	if got := ContentType(FormatJPEG); got != "image/jpeg" {
		t.Errorf("ContentType(jpeg) = %q", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	src := solid(8, 4, red)
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format, EncodeOptions{FastPNG: true}); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			img, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
				t.Errorf("decoded size = %v, want 8x4", img.Bounds())
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, src, FormatJPEG, EncodeOptions{JPEGQuality: 101}); !perrors.Is(err, perrors.ErrCodeInvalidParameter) {
		t.Errorf("Encode(quality 101) error = %v, want INVALID_PARAMETER", err)
	}
	if _, err := Decode(bytes.NewReader([]byte("not an image"))); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Decode(garbage) error = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, solid(12, 5, red), FormatPNG, EncodeOptions{}); err != nil {
		t.Fatal(err)
	}
	cfg, format, err := DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig() error: %v", err)
	}
	if cfg.Width != 12 || cfg.Height != 5 || format != FormatPNG {
		t.Errorf("DecodeConfig() = %dx%d %s, want 12x5 png", cfg.Width, cfg.Height, format)
	}
	if _, _, err := DecodeConfig(bytes.NewReader([]byte("GIF8"))); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("DecodeConfig(truncated) error = %v, want INVALID_INPUT", err)
	}
}

func TestCompositePlacement(t *testing.T) {
	l := packLayout(t, 64, 64, pyramid.Params{Ratio: 0.5, MinDim: 8, Padding: 2, Alignment: 4}, 3)
	bg := color.NRGBA{B: 0xff, A: 0xff}

	atlas, err := Composite(context.Background(), solid(64, 64, red), l, Options{Background: bg, Workers: 2})
	if err != nil {
		t.Fatalf("Composite() error: %v", err)
	}

	size := l.OutputSize()
	if atlas.Bounds().Dx() != size.Width || atlas.Bounds().Dy() != size.Height {
		t.Fatalf("atlas size = %v, want %dx%d", atlas.Bounds(), size.Width, size.Height)
	}
	if got := atlas.NRGBAAt(0, 0); got != bg {
		t.Errorf("border pixel = %v, want background %v", got, bg)
	}
	for i, tile := range l.Tiles {
		cx := l.Border + tile.X + tile.Width/2
		cy := l.Border + tile.Y + tile.Height/2
		if got := atlas.NRGBAAt(cx, cy); !near(got, red) {
			t.Errorf("tile %d center (%d,%d) = %v, want %v", i, cx, cy, got, red)
		}
		// First column right of the tile is padding or border.
		if x := l.Border + tile.X + tile.Width; x < size.Width-l.Border && !covered(l, x-l.Border, cy-l.Border) {
			if got := atlas.NRGBAAt(x, cy); got != bg {
				t.Errorf("pixel right of tile %d = %v, want background", i, got)
			}
		}
	}
}

// near allows for rounding in the resampling kernels.
func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return max(x, y)-min(x, y) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func covered(l layout.Layout, x, y int) bool {
	for _, t := range l.Tiles {
		if x >= t.X && x < t.X+t.Width && y >= t.Y && y < t.Y+t.Height {
			return true
		}
	}
	return false
}

func TestCompositeErrors(t *testing.T) {
	l := packLayout(t, 32, 32, pyramid.Params{Ratio: 0.5, MinDim: 4, Alignment: 1}, 0)

	tests := []struct {
		name string
		src  image.Image
		opts Options
		code perrors.Code
	}{
		{"nil source", nil, Options{}, perrors.ErrCodeInvalidInput},
		{"size mismatch", solid(30, 32, red), Options{}, perrors.ErrCodeInvalidInput},
		{"bad filter", solid(32, 32, red), Options{Filter: "bogus"}, perrors.ErrCodeInvalidFilter},
		{"negative workers", solid(32, 32, red), Options{Workers: -1}, perrors.ErrCodeInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Composite(context.Background(), tt.src, l, tt.opts)
			if !perrors.Is(err, tt.code) {
				t.Errorf("Composite() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompositeCanceled(t *testing.T) {
	l := packLayout(t, 32, 32, pyramid.Params{Ratio: 0.5, MinDim: 4, Alignment: 1}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Composite(ctx, solid(32, 32, red), l, Options{}); err == nil {
		t.Error("Composite() expected error for canceled context")
	}
}
