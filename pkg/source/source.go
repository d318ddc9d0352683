// Package source fetches blueprint sets from the stores bpview can read.
//
// Every backend implements [Source]. An empty author selects all
// blueprints; otherwise only the author's blueprints are returned. Sources
// are read-only and never retry: a failed fetch is reported once and the
// caller decides what to show.
//
// Backends:
//
//   - [HTTPSource]: the blueprint REST service (GET /blueprints[/author]).
//   - [MongoSource]: a MongoDB collection of blueprint documents.
//   - [PostgresSource]: a PostgreSQL table with a jsonb points column.
//   - [Static]: a fixed in-memory set, used for local files and tests.
//
// [Open] picks a backend from a [Config].
package source

import (
	"context"
	"time"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/cache"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/observability"
)

// Source fetches blueprint sets.
type Source interface {
	// Fetch returns the blueprints of author, or all blueprints when
	// author is empty.
	Fetch(ctx context.Context, author string) (blueprint.Set, error)
	// Name identifies the backend in logs and hooks.
	Name() string
	Close() error
}

// Backend kinds accepted by [Open].
const (
	KindHTTP     = "http"
	KindMongo    = "mongo"
	KindPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Kind    string
	BaseURL string
	Timeout time.Duration

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	PostgresDSN string

	// Cache and CacheTTL enable the HTTP response cache. A nil cache or a
	// zero TTL disables it.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Open creates the backend named by cfg.Kind. An empty kind selects HTTP.
func Open(ctx context.Context, cfg Config) (Source, error) {
	var (
		src Source
		err error
	)
	switch cfg.Kind {
	case "", KindHTTP:
		opts := []HTTPOption{WithTimeout(cfg.Timeout)}
		if cfg.Cache != nil && cfg.CacheTTL > 0 {
			opts = append(opts, WithCache(cfg.Cache, cfg.CacheTTL))
		}
		src, err = wrap(NewHTTPSource(cfg.BaseURL, opts...))
	case KindMongo:
		src, err = wrap(NewMongoSource(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection))
	case KindPostgres:
		src, err = wrap(NewPostgresSource(ctx, cfg.PostgresDSN))
	default:
		err = errors.New(errors.ErrCodeInvalidConfig,
			"unknown source kind %q (must be one of http, mongo, postgres)", cfg.Kind)
	}
	return src, err
}

// wrap keeps a failed constructor from producing a non-nil interface
// holding a nil pointer.
func wrap[S Source](s S, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// observe runs fetch between the fetch hooks.
func observe(ctx context.Context, name, author string, fetch func() (blueprint.Set, error)) (blueprint.Set, error) {
	hooks := observability.Fetch()
	hooks.OnFetchStart(ctx, name, author)
	start := time.Now()

	set, err := fetch()
	if err != nil {
		set = nil
	}

	hooks.OnFetchComplete(ctx, name, author, len(set), time.Since(start), err)
	return set, err
}
