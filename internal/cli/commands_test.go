package cli

import (
	"context"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
)

// isolate points every user directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("PYRAMIDR_REDIS_URL", "")
	return dir
}

func writeSource(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestPackCommand(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	out := filepath.Join(dir, "atlas.png")
	layoutPath := filepath.Join(dir, "atlas.json")
	writeSource(t, src, 256, 256)

	err := execute(t, "pack", src, "-o", out, "-a", "0.5", "-s", "8", "-l", "16", "-b", "2", "--layout", layoutPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	l, err := layout.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(l.Tiles) != 6 {
		t.Errorf("tiles = %d, want 6", len(l.Tiles))
	}
	if l.Canvas.Width%16 != 0 || l.Canvas.Height%16 != 0 {
		t.Errorf("canvas %dx%d is not aligned to 16", l.Canvas.Width, l.Canvas.Height)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open atlas: %v", err)
	}
	size := l.OutputSize()
	if b := img.Bounds(); b.Dx() != size.Width || b.Dy() != size.Height {
		t.Errorf("atlas is %dx%d, want %dx%d", b.Dx(), b.Dy(), size.Width, size.Height)
	}
	// The border is background, black unless --background says otherwise.
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != (color.NRGBA{A: 255}) {
		t.Errorf("border pixel = %v, want opaque black", got)
	}

	// A second run is served from the file cache and writes the same bytes.
	first, _ := os.ReadFile(out)
	if err := execute(t, "pack", src, "-o", out, "-a", "0.5", "-s", "8", "-l", "16", "-b", "2"); err != nil {
		t.Fatalf("second pack: %v", err)
	}
	second, _ := os.ReadFile(out)
	if string(first) != string(second) {
		t.Error("cached pack should reproduce the atlas byte for byte")
	}
}

func TestPackCommandFromURL(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	writeSource(t, src, 64, 48)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, src)
	}))
	defer srv.Close()

	out := filepath.Join(dir, "atlas.png")
	if err := execute(t, "pack", srv.URL+"/photo.png", "-o", out, "-s", "4"); err != nil {
		t.Fatalf("pack from URL: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() < 64 || b.Dy() < 48 {
		t.Errorf("atlas %dx%d cannot hold level 0", b.Dx(), b.Dy())
	}

	err = execute(t, "pack", srv.URL+"/missing.png", "-o", out, "--no-cache")
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing URL error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPackCommandErrors(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	writeSource(t, src, 64, 64)

	tests := []struct {
		name string
		args []string
		want perrors.Code
	}{
		{"missing input", []string{"pack", filepath.Join(dir, "nope.png"), "-o", filepath.Join(dir, "a.png")}, perrors.ErrCodeFileNotFound},
		{"missing output folder", []string{"pack", src, "-o", filepath.Join(dir, "nope", "a.png")}, perrors.ErrCodeFileNotFound},
		{"unknown format", []string{"pack", src, "-o", filepath.Join(dir, "a.webp")}, perrors.ErrCodeInvalidFormat},
		{"ratio out of range", []string{"pack", src, "-o", filepath.Join(dir, "a.png"), "-a", "1.5"}, perrors.ErrCodeInvalidParameter},
		{"bad filter", []string{"pack", src, "-o", filepath.Join(dir, "a.png"), "--filter", "bogus"}, perrors.ErrCodeInvalidFilter},
		{"min dim above source", []string{"pack", src, "-o", filepath.Join(dir, "a.png"), "-s", "300"}, perrors.ErrCodeEmptyPyramid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, append(tt.args, "--no-cache")...)
			if !perrors.Is(err, tt.want) {
				t.Errorf("error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestPackCommandUsesConfig(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	writeSource(t, src, 64, 64)
	cfgPath := filepath.Join(dir, "pyramidr.toml")
	if err := os.WriteFile(cfgPath, []byte("[pack]\nmin_dim = 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := execute(t, "--config", cfgPath, "pack", src, "-o", filepath.Join(dir, "a.png"), "--no-cache")
	if !perrors.Is(err, perrors.ErrCodeEmptyPyramid) {
		t.Fatalf("config min_dim should apply, got %v", err)
	}

	// The command line overrides the config file.
	err = execute(t, "--config", cfgPath, "pack", src, "-o", filepath.Join(dir, "a.png"), "--no-cache", "-s", "4")
	if err != nil {
		t.Fatalf("explicit -s should win over config: %v", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	dir := isolate(t)
	err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "plan", "64x64")
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPlanThenRender(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	layoutPath := filepath.Join(dir, "plan.json")
	out := filepath.Join(dir, "atlas.jpg")
	writeSource(t, src, 200, 120)

	if err := execute(t, "plan", "200x120", "-s", "4", "-p", "2", "-o", layoutPath); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if err := execute(t, "render", layoutPath, src, "-o", out, "--background", "black", "--quality", "80"); err != nil {
		t.Fatalf("render: %v", err)
	}

	l, err := layout.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != l.Canvas.Width || b.Dy() != l.Canvas.Height {
		t.Errorf("atlas is %dx%d, want canvas %dx%d", b.Dx(), b.Dy(), l.Canvas.Width, l.Canvas.Height)
	}
}

func TestRenderRejectsMismatchedSource(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "photo.png")
	layoutPath := filepath.Join(dir, "plan.json")
	writeSource(t, src, 100, 100)

	if err := execute(t, "plan", "64x64", "-o", layoutPath); err != nil {
		t.Fatalf("plan: %v", err)
	}
	err := execute(t, "render", layoutPath, src, "-o", filepath.Join(dir, "a.png"), "--no-cache")
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestPlanInvalidSize(t *testing.T) {
	isolate(t)
	err := execute(t, "plan", "64by64")
	if !perrors.Is(err, perrors.ErrCodeInvalidParameter) {
		t.Errorf("error = %v, want INVALID_PARAMETER", err)
	}
}

func TestCacheClear(t *testing.T) {
	dir := isolate(t)
	if err := execute(t, "plan", "64x64"); err != nil {
		t.Fatalf("plan: %v", err)
	}
	cacheDir := filepath.Join(dir, "cache", "pyramidr")
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("plan should populate %s (err %v)", cacheDir, err)
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, err = os.ReadDir(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := execute(t, "completion", shell); err != nil {
			t.Errorf("completion %s: %v", shell, err)
		}
	}
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
