// Package store persists scored deals and filter-settings snapshots. The
// deals table carries a unique fingerprint constraint — the cross-run
// second line of defense behind the pipeline's in-batch dedup.
package store

import (
	"context"
	"time"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/pipeline"
)

// ScoredDeal is one persisted deal with its score and provenance.
type ScoredDeal struct {
	ID          string            `json:"id"`
	RunID       string            `json:"run_id"`
	Fingerprint string            `json:"fingerprint"`
	Record      model.DealRecord  `json:"record"`
	Score       model.ScoreResult `json:"score"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Store defines the persistence interface for the scoring pipeline.
type Store interface {
	// Deals. SaveResults returns the number of rows actually inserted;
	// deals whose fingerprint already exists from a prior run are skipped.
	SaveResults(ctx context.Context, runID string, results []pipeline.Result) (int, error)
	ListTopDeals(ctx context.Context, limit int) ([]ScoredDeal, error)

	// Filter settings snapshots, keyed by name (preset or custom view).
	SaveFilterSettings(ctx context.Context, name string, cfg filter.Configuration) error
	GetFilterSettings(ctx context.Context, name string) (filter.Configuration, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
