package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/alexgrove/dealflow-cli/internal/dedup"
	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/pipeline"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool. The production deployment
// points it at the Supabase-hosted Postgres the dashboard reads from.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS deals (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id       TEXT NOT NULL,
	fingerprint  TEXT NOT NULL UNIQUE,
	company_name TEXT NOT NULL,
	record       JSONB NOT NULL,
	score        INTEGER NOT NULL,
	score_detail JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS filter_settings (
	name       TEXT PRIMARY KEY,
	criteria   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_deals_score ON deals(score DESC);
CREATE INDEX IF NOT EXISTS idx_deals_run_id ON deals(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveResults(ctx context.Context, runID string, results []pipeline.Result) (int, error) {
	inserted := 0
	now := time.Now().UTC()

	for _, result := range results {
		recordJSON, err := json.Marshal(result.Record)
		if err != nil {
			return inserted, eris.Wrap(err, "postgres: marshal record")
		}
		scoreJSON, err := json.Marshal(result.Score)
		if err != nil {
			return inserted, eris.Wrap(err, "postgres: marshal score")
		}

		tag, err := s.pool.Exec(ctx,
			`INSERT INTO deals (id, run_id, fingerprint, company_name, record, score, score_detail, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (fingerprint) DO NOTHING`,
			uuid.New().String(), runID, dedup.Fingerprint(result.Record),
			result.Record.CompanyName, recordJSON,
			result.Score.Score, scoreJSON, now,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "postgres: insert deal %s", result.Record.CompanyName)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func (s *PostgresStore) ListTopDeals(ctx context.Context, limit int) ([]ScoredDeal, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id, fingerprint, record, score_detail, created_at
		 FROM deals ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list top deals")
	}
	defer rows.Close()

	var deals []ScoredDeal
	for rows.Next() {
		var (
			deal       ScoredDeal
			recordJSON []byte
			scoreJSON  []byte
		)
		if err := rows.Scan(&deal.ID, &deal.RunID, &deal.Fingerprint, &recordJSON, &scoreJSON, &deal.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan deal")
		}
		if err := json.Unmarshal(recordJSON, &deal.Record); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal record")
		}
		if err := json.Unmarshal(scoreJSON, &deal.Score); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal score")
		}
		deals = append(deals, deal)
	}
	return deals, eris.Wrap(rows.Err(), "postgres: iterate deals")
}

func (s *PostgresStore) SaveFilterSettings(ctx context.Context, name string, cfg filter.Configuration) error {
	criteriaJSON, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal filter settings")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO filter_settings (name, criteria, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET criteria = EXCLUDED.criteria, updated_at = EXCLUDED.updated_at`,
		name, criteriaJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save filter settings %s", name)
}

func (s *PostgresStore) GetFilterSettings(ctx context.Context, name string) (filter.Configuration, error) {
	var criteriaJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT criteria FROM filter_settings WHERE name = $1`, name,
	).Scan(&criteriaJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return filter.Configuration{}, eris.Errorf("postgres: filter settings %q not found", name)
	}
	if err != nil {
		return filter.Configuration{}, eris.Wrapf(err, "postgres: get filter settings %s", name)
	}

	var cfg filter.Configuration
	if err := json.Unmarshal(criteriaJSON, &cfg); err != nil {
		return filter.Configuration{}, eris.Wrap(err, "postgres: unmarshal filter settings")
	}
	return cfg, nil
}

var _ Store = (*PostgresStore)(nil)
