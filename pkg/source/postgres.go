package source

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
)

// PostgresSource reads blueprints from a table
//
//	CREATE TABLE blueprints (
//	    author text NOT NULL,
//	    name   text NOT NULL,
//	    points jsonb NOT NULL DEFAULT '[]'
//	);
//
// Results are sorted by name.
type PostgresSource struct {
	pool *pgxpool.Pool
}

const (
	selectAll      = `SELECT author, name, points FROM blueprints ORDER BY name`
	selectByAuthor = `SELECT author, name, points FROM blueprints WHERE author = $1 ORDER BY name`
)

// NewPostgresSource opens a connection pool for dsn and pings the server.
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "postgres source requires a DSN")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse postgres DSN")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping postgres")
	}
	return &PostgresSource{pool: pool}, nil
}

func (s *PostgresSource) Fetch(ctx context.Context, author string) (blueprint.Set, error) {
	return observe(ctx, s.Name(), author, func() (blueprint.Set, error) {
		query, args := selectAll, []any(nil)
		if author != "" {
			query, args = selectByAuthor, []any{author}
		}

		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query blueprints")
		}
		set, err := pgx.CollectRows(rows, scanBlueprint)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "scan blueprints")
		}
		if set == nil {
			set = blueprint.Set{}
		}
		return set, nil
	})
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func scanBlueprint(row pgx.CollectableRow) (blueprint.Blueprint, error) {
	var (
		b   blueprint.Blueprint
		raw []byte
	)
	if err := row.Scan(&b.Author, &b.Name, &raw); err != nil {
		return b, err
	}
	points, err := decodePoints(raw)
	if err != nil {
		return b, err
	}
	b.Points = points
	return b, nil
}

func decodePoints(raw []byte) ([]blueprint.Point, error) {
	points := []blueprint.Point{}
	if len(raw) == 0 {
		return points, nil
	}
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []blueprint.Point{}
	}
	return points, nil
}
