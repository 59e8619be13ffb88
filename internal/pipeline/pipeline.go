// Package pipeline composes deduplication and scoring over a batch of
// discoveries, producing a ranked result set plus an accounting of every
// record that did not survive. Nothing is dropped silently.
package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/alexgrove/dealflow-cli/internal/dedup"
	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/scorer"
)

// Result pairs a surviving deal with its score.
type Result struct {
	Record model.DealRecord  `json:"record"`
	Score  model.ScoreResult `json:"score"`
}

// Summary accounts for every input record: Input == Scored + Duplicates +
// Invalid + Rejected. Dashboards surface these as data-quality signals.
type Summary struct {
	Input      int `json:"input"`
	Duplicates int `json:"duplicates_removed"`
	Invalid    int `json:"validation_failures"`
	Rejected   int `json:"strict_rejections"`
	Scored     int `json:"scored"`
}

// ProcessBatch deduplicates, scores, and ranks a batch against one
// configuration snapshot. Per-record validation failures are counted and
// skipped; a configuration error aborts immediately since the whole batch
// would be meaningless under it.
//
// Results are sorted descending by score. Ties keep first-seen input order,
// matching the dedup module's first-seen-wins rule.
func ProcessBatch(ctx context.Context, records []model.DealRecord, cfg filter.Configuration) ([]Result, Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Input: len(records)}

	deduped := dedup.Deduplicate(records)
	summary.Duplicates = deduped.Duplicates
	summary.Invalid = deduped.Invalid

	results := make([]Result, 0, len(deduped.Kept))
	for _, record := range deduped.Kept {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		score, err := scorer.Score(record, cfg)
		if err != nil {
			// Validation slipped past dedup; count it, keep going.
			summary.Invalid++
			zap.L().Warn("pipeline: scoring failed",
				zap.String("company", record.CompanyName),
				zap.Error(err),
			)
			continue
		}

		if score.Rejected {
			summary.Rejected++
			zap.L().Debug("pipeline: strict rejection",
				zap.String("company", record.CompanyName),
				zap.String("criterion", score.RejectionReason),
			)
			continue
		}

		results = append(results, Result{Record: record, Score: score})
	}

	summary.Scored = len(results)
	rank(results)

	zap.L().Info("batch complete",
		zap.Int("input", summary.Input),
		zap.Int("scored", summary.Scored),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("invalid", summary.Invalid),
		zap.Int("rejected", summary.Rejected),
	)

	return results, summary, nil
}

// rank sorts results descending by score. The sort is stable so equal
// scores preserve first-seen order.
func rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.Score > results[j].Score.Score
	})
}
