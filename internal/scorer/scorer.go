// Package scorer computes the rule-based investment score for a deal
// record: a fixed-weight pass over stage, AI focus, climate sector,
// geography, and funding size, plus always-on deal-flow bonuses. Scoring is
// a pure function of (record, configuration) — no I/O, no shared state.
package scorer

import (
	"strings"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
)

// Factor names for the always-on bonuses, which apply regardless of which
// criteria are enabled.
const (
	factorMediaCoverage = "media_coverage"
	factorConfidence    = "confidence"
)

// Point weights per criterion. Criterion weights sum to 105 before bonuses;
// the final score is clamped to [0,100].
const (
	stageMatchPoints    = 30
	stageSeriesBPoints  = 15
	stageLatePoints     = 5
	aiFocusPoints       = 25
	aiMissingPenalty    = -15
	sectorMatchPoints   = 25
	sectorPartialPoints = 10
	sectorPartialStrict = 5
	geoUSPoints         = 10
	geoPreferredPoints  = 7
	geoStrictPenalty    = -10
	amountOptimalPoints = 15
	amountInRangePoints = 8
	amountAbovePenalty  = -10
	amountBelowPenalty  = -5
	lowMediaBonus       = 10
	highMediaPenalty    = -5
	lowMediaThreshold   = 3
	highMediaThreshold  = 10
)

// Score evaluates one deal against a filter configuration. Criteria apply
// in fixed order; the first strict-mode failure short-circuits with
// Rejected=true and Score=0 no matter what points had accumulated.
// Rejection is absolute, not a floor.
func Score(record model.DealRecord, cfg filter.Configuration) (model.ScoreResult, error) {
	if err := record.Validate(); err != nil {
		return model.ScoreResult{}, err
	}
	if err := cfg.Validate(); err != nil {
		return model.ScoreResult{}, err
	}

	var (
		total   int
		factors []model.Factor
	)

	for _, crit := range cfg.Criteria() {
		if !crit.Enabled {
			continue
		}

		points, rejected := applyCriterion(record, crit)
		if rejected {
			return model.ScoreResult{
				Score:           0,
				Rejected:        true,
				RejectionReason: crit.Name,
				Factors:         factors,
			}, nil
		}

		total += points
		factors = append(factors, model.Factor{Criterion: crit.Name, Points: points})
	}

	// Always-on bonuses, not gated by any criterion's Enabled flag.
	media := mediaPoints(record.MediaMentions)
	total += media
	factors = append(factors, model.Factor{Criterion: factorMediaCoverage, Points: media})

	conf := int(record.Confidence() * 10)
	total += conf
	factors = append(factors, model.Factor{Criterion: factorConfidence, Points: conf})

	return model.ScoreResult{
		Score:   clamp(total),
		Factors: factors,
	}, nil
}

// applyCriterion dispatches one enabled criterion. Returns the points
// awarded (possibly negative) and whether a strict-mode failure rejects the
// record outright.
func applyCriterion(record model.DealRecord, crit filter.Criterion) (int, bool) {
	switch crit.Name {
	case filter.CriterionStage:
		return scoreStage(record, crit)
	case filter.CriterionAI:
		return scoreAI(record, crit)
	case filter.CriterionSector:
		return scoreSector(record, crit)
	case filter.CriterionGeography:
		return scoreGeography(record, crit)
	case filter.CriterionFundingSize:
		return scoreFundingSize(record, crit)
	}
	// Validate has already excluded unknown names.
	return 0, false
}

// scoreStage awards full points for an allowed stage; otherwise strict mode
// rejects, flexible mode falls to the soft later-stage tiers.
func scoreStage(record model.DealRecord, crit filter.Criterion) (int, bool) {
	stage := model.NormalizeStage(record.FundingStage)

	for _, allowed := range crit.AllowedStages {
		if stage == model.NormalizeStage(allowed) {
			return stageMatchPoints, false
		}
	}

	if crit.StrictMode {
		return 0, true
	}

	switch stage {
	case model.StageSeriesB:
		return stageSeriesBPoints, false
	case model.StageSeriesC, model.StageGrowth:
		return stageLatePoints, false
	}
	return 0, false
}

// scoreAI awards the AI bonus, or penalizes its absence. Only a strict
// require-AI criterion turns the miss into a rejection.
func scoreAI(record model.DealRecord, crit filter.Criterion) (int, bool) {
	if record.HasAIFocus {
		return aiFocusPoints, false
	}
	if crit.StrictMode && crit.RequireAI {
		return 0, true
	}
	return aiMissingPenalty, false
}

// scoreSector awards full points on a target-sector match. A sector merely
// prefixed "Climate Tech" earns partial credit — narrowed, never rejected,
// in strict mode. Deals with no climate signal at all hard-fail under
// strict mode.
func scoreSector(record model.DealRecord, crit filter.Criterion) (int, bool) {
	for _, sector := range record.ClimateSectors {
		for _, target := range crit.TargetSectors {
			if strings.EqualFold(strings.TrimSpace(sector), strings.TrimSpace(target)) {
				return sectorMatchPoints, false
			}
		}
	}

	for _, sector := range record.ClimateSectors {
		if strings.HasPrefix(strings.TrimSpace(sector), "Climate Tech") {
			if crit.StrictMode {
				return sectorPartialStrict, false
			}
			return sectorPartialPoints, false
		}
	}

	if crit.StrictMode {
		return 0, true
	}
	return 0, false
}

// scoreGeography prefers US headquarters, then the configured country list.
// Geography never hard-rejects; strict mode escalates the miss to a penalty.
func scoreGeography(record model.DealRecord, crit filter.Criterion) (int, bool) {
	country := record.Country()

	if strings.EqualFold(country, "US") {
		return geoUSPoints, false
	}
	for _, preferred := range crit.PreferredCountries {
		if strings.EqualFold(country, preferred) {
			return geoPreferredPoints, false
		}
	}

	if crit.StrictMode {
		return geoStrictPenalty, false
	}
	return 0, false
}

// scoreFundingSize awards points by range band. An unknown amount is
// outside all ranges: it takes the below-min soft penalty, or the strict
// rejection, never the optimal/acceptable path.
func scoreFundingSize(record model.DealRecord, crit filter.Criterion) (int, bool) {
	amount := record.AmountRaisedUSD

	if amount != nil {
		if *amount >= crit.OptimalMin && *amount <= crit.OptimalMax {
			return amountOptimalPoints, false
		}
		if *amount >= crit.MinAmount && *amount <= crit.MaxAmount {
			return amountInRangePoints, false
		}
	}

	if crit.StrictMode {
		return 0, true
	}

	if amount != nil && *amount > crit.MaxAmount {
		return amountAbovePenalty, false
	}
	return amountBelowPenalty, false
}

// mediaPoints implements the proprietary-deal-flow signal: little press
// coverage suggests an exclusive deal, heavy coverage a crowded one.
func mediaPoints(mentions int) int {
	switch {
	case mentions < lowMediaThreshold:
		return lowMediaBonus
	case mentions > highMediaThreshold:
		return highMediaPenalty
	}
	return 0
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
