package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyramidr/pkg/cache"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/layout"
	"github.com/matzehuels/pyramidr/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout → render for an already parsed source.
func (r *Runner) Execute(ctx context.Context, src *Source, opts Options) (*Result, error) {
	if src == nil || src.Image == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "source image is required")
	}
	opts.Width, opts.Height = src.Width(), src.Height()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{SourceHash: src.Hash, Format: opts.Format}

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.LayoutHash = HashLayout(l)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Tiles = len(l.Tiles)
	result.Stats.Utilization = l.Utilization
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("packed layout",
		"tiles", len(l.Tiles),
		"canvas", fmt.Sprintf("%dx%d", l.Canvas.Width, l.Canvas.Height),
		"utilization", fmt.Sprintf("%.4f", l.Utilization),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	data, renderHit, err := r.RenderWithCacheInfo(ctx, src, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.Stats.Bytes = len(data)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered atlas",
		"format", opts.Format,
		"bytes", len(data),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo packs the pyramid with caching and reports whether
// the layout came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	key := r.Keyer.LayoutKey(opts.LayoutKeyOpts())
	if !opts.Refresh {
		var cached layout.Layout
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		switch {
		case err == nil && cached.Validate() == nil:
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return cached, true, nil
		case err != nil && !errors.Is(err, cache.ErrCacheMiss):
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, opts.Width, opts.Height)
	start := time.Now()
	l, err := GenerateLayout(opts)
	hooks.OnPackComplete(ctx, len(l.Tiles), l.Utilization, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	r.store(ctx, keyTypeLayout, key, func() ([]byte, error) { return layout.MarshalLayout(l) }, cache.TTLLayout)
	return l, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return l, err
}

// RenderWithCacheInfo renders src onto l with caching and reports whether
// the artifact came from the cache. Sources without a hash are never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, src *Source, l layout.Layout, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if src == nil || src.Image == nil {
		return nil, false, perrors.New(perrors.ErrCodeInvalidInput, "source image is required")
	}

	var key string
	if src.Hash != "" {
		key = r.Keyer.ArtifactKey(src.Hash, HashLayout(l), opts.ArtifactKeyOpts())
	}
	if key != "" && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("artifact cache read failed", "err", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format, len(l.Tiles))
	start := time.Now()
	data, err := RenderFromLayout(ctx, src.Image, l, opts)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if key != "" {
		r.store(ctx, keyTypeArtifact, key, func() ([]byte, error) { return data, nil }, cache.TTLArtifact)
	}
	return data, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, src *Source, l layout.Layout, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, src, l, opts)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a cache entry. Failures are logged, never returned: a cache
// that cannot be written must not fail the run.
func (r *Runner) store(ctx context.Context, keyType, key string, encode func() ([]byte, error), ttl time.Duration) {
	data, err := encode()
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashLayout returns the content hash of a layout's serialized form.
func HashLayout(l layout.Layout) string {
	data, err := layout.MarshalLayout(l)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
