package dedup

import (
	"go.uber.org/zap"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

// Result summarizes one deduplication pass.
type Result struct {
	Kept       []model.DealRecord
	Duplicates int
	Invalid    int
}

// Deduplicate processes records in input order, keeping the first occurrence
// of each fingerprint and dropping the rest. The seen-set is scoped to this
// call; cross-run dedup is the store's unique constraint, not ours.
//
// Records that fail validation are excluded and counted, never fatal — one
// malformed scrape must not abort the batch. Output order is first-seen
// input order.
func Deduplicate(records []model.DealRecord) Result {
	log := zap.L()

	seen := make(map[string]bool, len(records))
	result := Result{Kept: make([]model.DealRecord, 0, len(records))}

	for _, record := range records {
		if err := record.Validate(); err != nil {
			result.Invalid++
			log.Warn("dedup: dropping invalid record",
				zap.String("source", record.SourceName),
				zap.Error(err),
			)
			continue
		}

		fp := Fingerprint(record)
		if seen[fp] {
			result.Duplicates++
			// First-seen wins regardless of confidence; log the loser's
			// confidence so the data-quality signal survives.
			log.Debug("dedup: dropping duplicate",
				zap.String("company", record.CompanyName),
				zap.String("fingerprint", fp),
				zap.Float64("confidence", record.Confidence()),
			)
			continue
		}

		seen[fp] = true
		result.Kept = append(result.Kept, record)
	}

	return result
}
