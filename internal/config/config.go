// Package config loads bpview settings.
//
// Settings are layered: built-in defaults, then the TOML file at
// $XDG_CONFIG_HOME/bpview/config.toml, then BPVIEW_* environment
// variables. Command-line flags are applied last by the CLI.
//
//	[source]
//	kind = "http"
//	url = "http://localhost:8080"
//	timeout = "10s"
//
//	[cache]
//	ttl = "5m"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":3000"
//
//	[viewport]
//	width = 400
//	height = 400
//	margin = 20
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/bpview/pkg/cache"
	bperrors "github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/source"
)

const (
	appName   = "bpview"
	envPrefix = "BPVIEW"
	fileName  = "config.toml"
)

// DefaultAddr is the HTTP viewer's listen address.
const DefaultAddr = ":3000"

// Config holds all bpview settings.
type Config struct {
	Source   Source   `toml:"source"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Viewport Viewport `toml:"viewport"`
}

// Source selects the blueprint backend.
type Source struct {
	Kind     string        `toml:"kind"`
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
	Mongo    Mongo         `toml:"mongo"`
	Postgres Postgres      `toml:"postgres"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type Postgres struct {
	DSN string `toml:"dsn"`
}

// Cache configures the response cache of the HTTP source. A zero TTL
// disables caching. When RedisURL is set entries go to Redis, otherwise
// to files under Dir (default: the user cache directory).
type Cache struct {
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url" split_words:"true"`
	Dir      string        `toml:"dir"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Source: Source{
			Kind:    source.KindHTTP,
			URL:     source.DefaultBaseURL,
			Timeout: source.DefaultTimeout,
		},
		Server: Server{Addr: DefaultAddr},
		Viewport: Viewport{
			Width:  fit.DefaultWidth,
			Height: fit.DefaultHeight,
			Margin: fit.DefaultMargin,
		},
	}
}

// CacheDir returns the cache directory using the XDG convention
// (~/.cache/bpview).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path (the default location when empty),
// applies environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile decodes path over the defaults. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, bperrors.New(bperrors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with BPVIEW_* environment variables, for example
// BPVIEW_SOURCE_URL or BPVIEW_CACHE_TTL. Unset variables leave cfg alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "environment")
	}
	return nil
}

// Validate checks the settings that can be checked without connecting.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case source.KindHTTP, source.KindMongo, source.KindPostgres:
	default:
		return bperrors.New(bperrors.ErrCodeInvalidConfig,
			"source.kind %q must be one of http, mongo, postgres", c.Source.Kind)
	}
	if c.Source.Timeout < 0 {
		return bperrors.New(bperrors.ErrCodeInvalidConfig, "source.timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		return bperrors.New(bperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return c.FitViewport().Validate()
}

// FitViewport returns the configured viewport.
func (c *Config) FitViewport() fit.Viewport {
	return fit.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height, Margin: c.Viewport.Margin}
}

// SourceConfig converts the settings into a source configuration using
// the given cache.
func (c *Config) SourceConfig(cache cache.Cache) source.Config {
	return source.Config{
		Kind:            c.Source.Kind,
		BaseURL:         c.Source.URL,
		Timeout:         c.Source.Timeout,
		MongoURI:        c.Source.Mongo.URI,
		MongoDatabase:   c.Source.Mongo.Database,
		MongoCollection: c.Source.Mongo.Collection,
		PostgresDSN:     c.Source.Postgres.DSN,
		Cache:           cache,
		CacheTTL:        c.Cache.TTL,
	}
}

// OpenCache builds the response cache: a [cache.NullCache] when the TTL is
// zero or the source is not HTTP, Redis when a URL is configured, files
// otherwise.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	if c.Cache.TTL == 0 || !c.cachesResponses() {
		return cache.NewNullCache(), nil
	}
	if c.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return rc, nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cachesResponses reports whether the configured source reads through the
// response cache. Only the HTTP source does.
func (c *Config) cachesResponses() bool {
	return c.Source.Kind == "" || c.Source.Kind == source.KindHTTP
}
