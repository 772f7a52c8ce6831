// Package config loads pyramidr's optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/pyramidr/config.toml (or
// ~/.config/pyramidr/config.toml) unless --config names another path.
// Every value is a default: flags given on the command line win.
//
//	[pack]
//	ratio = 0.5
//	min_dim = 8
//	alignment = 4
//	filter = "catmullrom"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	max_upload_bytes = 33554432
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// Environment variables read by [Load].
const (
	EnvConfigHome = "XDG_CONFIG_HOME"
	EnvCacheHome  = "XDG_CACHE_HOME"
	EnvRedisURL   = "PYRAMIDR_REDIS_URL"
)

// Config is the parsed configuration file. Zero values mean "not set".
type Config struct {
	Pack   PackConfig   `toml:"pack"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the values came from; empty when none was found.
	Path string `toml:"-"`
}

// PackConfig holds defaults for the pack, plan, tune and render commands.
type PackConfig struct {
	Ratio      float64 `toml:"ratio"`
	MinDim     int     `toml:"min_dim"`
	Padding    int     `toml:"padding"`
	Alignment  int     `toml:"alignment"`
	Border     int     `toml:"border"`
	Filter     string  `toml:"filter"`
	Background string  `toml:"background"`
	Workers    int     `toml:"workers"`
	Quality    int     `toml:"quality"`
	FastPNG    bool    `toml:"fast_png"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	// KeyPrefix scopes every cache key, so deployments or format
	// revisions can share one backend.
	KeyPrefix string `toml:"key_prefix"`
}

// ServerConfig holds defaults for `pyramidr serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxUploadBytes  int64         `toml:"max_upload_bytes"`
	MaxSourcePixels int64         `toml:"max_source_pixels"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
}

// DefaultPath returns the config file location for this user.
func DefaultPath() string {
	return filepath.Join(configHome(), "pyramidr", "config.toml")
}

// DefaultCacheDir returns the file cache location for this user.
func DefaultCacheDir() string {
	if dir := os.Getenv(EnvCacheHome); dir != "" {
		return filepath.Join(dir, "pyramidr")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "pyramidr")
	}
	return filepath.Join(os.TempDir(), "pyramidr-cache")
}

func configHome() string {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "."
}

// Load reads the config file at path. With an empty path the default
// location is tried and a missing file yields an empty Config; a missing
// explicit path is an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		cfg.applyEnv()
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if url := os.Getenv(EnvRedisURL); url != "" {
		c.Cache.RedisURL = url
	}
}

// CacheDir returns the configured cache directory or the default one.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	return DefaultCacheDir()
}

func expandHome(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return p
}
