package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrValidation marks a malformed record or configuration. Callers skip the
// offending record and keep processing; they never abort a batch on it.
var ErrValidation = eris.New("validation failed")

// SourceType buckets a discovery by the kind of scraper that produced it.
type SourceType string

const (
	SourceNews        SourceType = "news"
	SourceVCPortfolio SourceType = "vc_portfolio"
	SourceGovernment  SourceType = "government"
)

// Canonical funding stages after normalization.
const (
	StagePreSeed = "pre-seed"
	StageSeed    = "seed"
	StageSeriesA = "series a"
	StageSeriesB = "series b"
	StageSeriesC = "series c"
	StageGrowth  = "growth"
)

// DealRecord is one discovered funding event from any source. It is created
// by an upstream scraper or AI extractor and is immutable once scored.
type DealRecord struct {
	CompanyName         string     `json:"company_name"`
	FundingStage        string     `json:"funding_stage,omitempty"`
	AmountRaisedUSD     *float64   `json:"amount_raised_usd,omitempty"`
	HasAIFocus          bool       `json:"has_ai_focus"`
	ClimateSectors      []string   `json:"climate_sectors,omitempty"`
	HeadquartersCountry string     `json:"headquarters_country,omitempty"`
	MediaMentions       int        `json:"media_mentions"`
	ConfidenceScore     float64    `json:"confidence_score"`
	SourceName          string     `json:"source_name,omitempty"`
	SourceType          SourceType `json:"source_type,omitempty"`
	SourceURL           string     `json:"source_url,omitempty"`
}

// Factor records the points one criterion contributed to a score.
type Factor struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

// ScoreResult is the outcome of scoring a single deal. Rejected is distinct
// from Score==0: a non-strict deal can legitimately net out at zero.
type ScoreResult struct {
	Score           int      `json:"score"`
	Rejected        bool     `json:"rejected"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	Factors         []Factor `json:"contributing_factors"`
}

// Validate checks the invariants an upstream collaborator must guarantee.
// Only CompanyName is mandatory; every other field has a defined default.
func (d DealRecord) Validate() error {
	if strings.TrimSpace(d.CompanyName) == "" {
		return eris.Wrap(ErrValidation, "deal record missing company_name")
	}
	return nil
}

// Country returns the headquarters country with the missing-value sentinel
// applied.
func (d DealRecord) Country() string {
	if strings.TrimSpace(d.HeadquartersCountry) == "" {
		return "Unknown"
	}
	return strings.TrimSpace(d.HeadquartersCountry)
}

// Confidence returns the extraction confidence clamped to [0,1], with 0.5
// substituted when the upstream extractor supplied nothing.
func (d DealRecord) Confidence() float64 {
	switch {
	case d.ConfidenceScore == 0:
		return 0.5
	case d.ConfidenceScore < 0:
		return 0
	case d.ConfidenceScore > 1:
		return 1
	}
	return d.ConfidenceScore
}

// stageAliases maps hyphenated and spaced variants onto canonical stages.
var stageAliases = map[string]string{
	"preseed":  StagePreSeed,
	"pre seed": StagePreSeed,
	"series-a": StageSeriesA,
	"series-b": StageSeriesB,
	"series-c": StageSeriesC,
	"late":     StageGrowth,
}

// NormalizeStage lowercases, trims, and collapses internal whitespace in a
// free-text funding stage, then folds known aliases onto the canonical set.
// Unrecognized stages pass through normalized but unmapped.
func NormalizeStage(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if canonical, ok := stageAliases[s]; ok {
		return canonical
	}
	return s
}
