package pipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexgrove/dealflow-cli/internal/dedup"
	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/scorer"
)

// ProcessBatchParallel is ProcessBatch with the scoring step fanned out
// across at most workers goroutines. Scoring is side-effect-free, so only
// dedup must stay sequential (its seen-set has first-seen-wins ordering).
// Scores land in an index-addressed slice, so the ranked output is
// identical to the sequential path.
func ProcessBatchParallel(ctx context.Context, records []model.DealRecord, cfg filter.Configuration, workers int) ([]Result, Summary, error) {
	if workers <= 1 {
		return ProcessBatch(ctx, records, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Input: len(records)}

	deduped := dedup.Deduplicate(records)
	summary.Duplicates = deduped.Duplicates
	summary.Invalid = deduped.Invalid

	scores := make([]*model.ScoreResult, len(deduped.Kept))
	var invalid atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, record := range deduped.Kept {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := scorer.Score(record, cfg)
			if err != nil {
				invalid.Add(1)
				zap.L().Warn("pipeline: scoring failed",
					zap.String("company", record.CompanyName),
					zap.Error(err),
				)
				return nil // don't abort batch on individual failure
			}
			scores[i] = &score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, summary, err
	}

	summary.Invalid += int(invalid.Load())

	results := make([]Result, 0, len(deduped.Kept))
	for i, record := range deduped.Kept {
		score := scores[i]
		if score == nil {
			continue
		}
		if score.Rejected {
			summary.Rejected++
			continue
		}
		results = append(results, Result{Record: record, Score: *score})
	}

	summary.Scored = len(results)
	rank(results)

	return results, summary, nil
}
