package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/alexgrove/dealflow-cli/internal/dedup"
	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/pipeline"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS deals (
	id           TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	fingerprint  TEXT NOT NULL UNIQUE,
	company_name TEXT NOT NULL,
	record       TEXT NOT NULL,
	score        INTEGER NOT NULL,
	score_detail TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS filter_settings (
	name       TEXT PRIMARY KEY,
	criteria   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_deals_score ON deals(score DESC);
CREATE INDEX IF NOT EXISTS idx_deals_run_id ON deals(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveResults(ctx context.Context, runID string, results []pipeline.Result) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	inserted := 0
	now := time.Now().UTC()

	for _, result := range results {
		recordJSON, err := json.Marshal(result.Record)
		if err != nil {
			return inserted, eris.Wrap(err, "sqlite: marshal record")
		}
		scoreJSON, err := json.Marshal(result.Score)
		if err != nil {
			return inserted, eris.Wrap(err, "sqlite: marshal score")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO deals (id, run_id, fingerprint, company_name, record, score, score_detail, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, dedup.Fingerprint(result.Record),
			result.Record.CompanyName, string(recordJSON),
			result.Score.Score, string(scoreJSON), now,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "sqlite: insert deal %s", result.Record.CompanyName)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, eris.Wrap(err, "sqlite: rows affected")
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return inserted, eris.Wrap(err, "sqlite: commit")
	}
	return inserted, nil
}

func (s *SQLiteStore) ListTopDeals(ctx context.Context, limit int) ([]ScoredDeal, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, fingerprint, record, score_detail, created_at
		 FROM deals ORDER BY score DESC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list top deals")
	}
	defer rows.Close() //nolint:errcheck

	var deals []ScoredDeal
	for rows.Next() {
		var (
			deal       ScoredDeal
			recordJSON string
			scoreJSON  string
		)
		if err := rows.Scan(&deal.ID, &deal.RunID, &deal.Fingerprint, &recordJSON, &scoreJSON, &deal.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan deal")
		}
		if err := json.Unmarshal([]byte(recordJSON), &deal.Record); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal record")
		}
		if err := json.Unmarshal([]byte(scoreJSON), &deal.Score); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal score")
		}
		deals = append(deals, deal)
	}
	return deals, eris.Wrap(rows.Err(), "sqlite: iterate deals")
}

func (s *SQLiteStore) SaveFilterSettings(ctx context.Context, name string, cfg filter.Configuration) error {
	criteriaJSON, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal filter settings")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO filter_settings (name, criteria, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET criteria = excluded.criteria, updated_at = excluded.updated_at`,
		name, string(criteriaJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save filter settings %s", name)
}

func (s *SQLiteStore) GetFilterSettings(ctx context.Context, name string) (filter.Configuration, error) {
	var criteriaJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT criteria FROM filter_settings WHERE name = ?`, name,
	).Scan(&criteriaJSON)
	if err == sql.ErrNoRows {
		return filter.Configuration{}, eris.Errorf("sqlite: filter settings %q not found", name)
	}
	if err != nil {
		return filter.Configuration{}, eris.Wrapf(err, "sqlite: get filter settings %s", name)
	}

	var cfg filter.Configuration
	if err := json.Unmarshal([]byte(criteriaJSON), &cfg); err != nil {
		return filter.Configuration{}, eris.Wrap(err, "sqlite: unmarshal filter settings")
	}
	return cfg, nil
}

var _ Store = (*SQLiteStore)(nil)
