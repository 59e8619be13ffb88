package scorer

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
)

func amt(v float64) *float64 { return &v }

// solarTech is the canonical everything-matches deal.
func solarTech() model.DealRecord {
	return model.DealRecord{
		CompanyName:         "SolarTech",
		FundingStage:        "seed",
		HasAIFocus:          true,
		ClimateSectors:      []string{"Climate Tech - Energy & Grid"},
		HeadquartersCountry: "US",
		AmountRaisedUSD:     amt(5_000_000),
		MediaMentions:       1,
		ConfidenceScore:     0.9,
	}
}

func TestScore_FullMatchClampsTo100(t *testing.T) {
	result, err := Score(solarTech(), filter.Default())
	require.NoError(t, err)

	// 30+25+25+10+15+10+9 = 124, clamped.
	assert.Equal(t, 100, result.Score)
	assert.False(t, result.Rejected)

	want := []model.Factor{
		{Criterion: "stage", Points: 30},
		{Criterion: "ai", Points: 25},
		{Criterion: "sector", Points: 25},
		{Criterion: "geography", Points: 10},
		{Criterion: "funding_size", Points: 15},
		{Criterion: "media_coverage", Points: 10},
		{Criterion: "confidence", Points: 9},
	}
	assert.Equal(t, want, result.Factors)
}

func TestScore_Deterministic(t *testing.T) {
	cfg := filter.Default()
	first, err := Score(solarTech(), cfg)
	require.NoError(t, err)
	second, err := Score(solarTech(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_StrictStageRejects(t *testing.T) {
	record := solarTech()
	record.FundingStage = "later-stage"

	cfg, err := filter.Default().SetStrict(filter.CriterionStage, true)
	require.NoError(t, err)

	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.True(t, result.Rejected)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "stage", result.RejectionReason)
	assert.Empty(t, result.Factors)
}

func TestScore_StrictRejectionIsAbsolute(t *testing.T) {
	// Everything else matches perfectly; a single strict failure still
	// zeroes the deal.
	record := solarTech()
	record.HasAIFocus = false

	cfg, err := filter.Default().SetStrict(filter.CriterionAI, true)
	require.NoError(t, err)

	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.True(t, result.Rejected)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "ai", result.RejectionReason)
	// Factors stop at the failing criterion.
	assert.Equal(t, []model.Factor{{Criterion: "stage", Points: 30}}, result.Factors)
}

func TestScore_StageSoftTiers(t *testing.T) {
	cfg := filter.Default()

	cases := map[string]int{
		"series b": 15,
		"series-b": 15,
		"series c": 5,
		"growth":   5,
		"ipo":      0,
	}
	for stage, want := range cases {
		record := solarTech()
		record.FundingStage = stage
		result, err := Score(record, cfg)
		require.NoError(t, err)
		assert.Equal(t, want, result.Factors[0].Points, "stage %q", stage)
	}
}

func TestScore_MissingAIPenalty(t *testing.T) {
	record := solarTech()
	record.HasAIFocus = false

	result, err := Score(record, filter.Default())
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.Equal(t, -15, result.Factors[1].Points)
}

func TestScore_SectorPartialMatch(t *testing.T) {
	record := solarTech()
	record.ClimateSectors = []string{"Climate Tech - Ocean Alkalinity"}

	result, err := Score(record, filter.Default())
	require.NoError(t, err)
	assert.Equal(t, 10, result.Factors[2].Points)

	// Strict mode narrows the partial bonus but never hard-rejects.
	cfg, err := filter.Default().SetStrict(filter.CriterionSector, true)
	require.NoError(t, err)
	result, err = Score(record, cfg)
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.Equal(t, 5, result.Factors[2].Points)
}

func TestScore_StrictSectorRejectsNonClimate(t *testing.T) {
	record := solarTech()
	record.ClimateSectors = []string{"Fintech"}

	cfg, err := filter.Default().SetStrict(filter.CriterionSector, true)
	require.NoError(t, err)

	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.True(t, result.Rejected)
	assert.Equal(t, "sector", result.RejectionReason)
}

func TestScore_Geography(t *testing.T) {
	cfg := filter.Default()

	record := solarTech()
	record.HeadquartersCountry = "Canada"
	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Factors[3].Points)

	record.HeadquartersCountry = "Germany"
	result, err = Score(record, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Factors[3].Points)

	// Strict geography penalizes, never rejects.
	strictCfg, err := cfg.SetStrict(filter.CriterionGeography, true)
	require.NoError(t, err)
	result, err = Score(record, strictCfg)
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.Equal(t, -10, result.Factors[3].Points)
}

func TestScore_FundingSizeBands(t *testing.T) {
	cfg := filter.Default()

	cases := map[string]struct {
		amount *float64
		want   int
	}{
		"optimal":    {amt(5_000_000), 15},
		"acceptable": {amt(12_000_000), 8},
		"above max":  {amt(50_000_000), -10},
		"below min":  {amt(100_000), -5},
		"unknown":    {nil, -5},
	}
	for name, tc := range cases {
		record := solarTech()
		record.AmountRaisedUSD = tc.amount
		result, err := Score(record, cfg)
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.Factors[4].Points, name)
	}
}

func TestScore_NilAmountNeverPanics(t *testing.T) {
	record := solarTech()
	record.AmountRaisedUSD = nil

	assert.NotPanics(t, func() {
		result, err := Score(record, filter.Default())
		require.NoError(t, err)
		assert.False(t, result.Rejected)
	})
}

func TestScore_StrictFundingSizeRejectsUnknownAmount(t *testing.T) {
	record := solarTech()
	record.AmountRaisedUSD = nil

	cfg, err := filter.Default().SetStrict(filter.CriterionFundingSize, true)
	require.NoError(t, err)

	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.True(t, result.Rejected)
	assert.Equal(t, "funding_size", result.RejectionReason)
}

func TestScore_AllDealsPresetOnlyBonuses(t *testing.T) {
	cfg, err := filter.ApplyPreset(filter.PresetAllDeals)
	require.NoError(t, err)

	result, err := Score(solarTech(), cfg)
	require.NoError(t, err)

	// media +10, confidence +9; no criterion factors at all.
	assert.Equal(t, 19, result.Score)
	want := []model.Factor{
		{Criterion: "media_coverage", Points: 10},
		{Criterion: "confidence", Points: 9},
	}
	assert.Equal(t, want, result.Factors)
}

func TestScore_MediaCoverage(t *testing.T) {
	cfg := filter.Default()

	record := solarTech()
	record.MediaMentions = 12
	result, err := Score(record, cfg)
	require.NoError(t, err)
	assert.Equal(t, -5, result.Factors[5].Points)

	record.MediaMentions = 5
	result, err = Score(record, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Factors[5].Points)
}

func TestScore_ClampFloor(t *testing.T) {
	// A deal that fails everything non-strictly bottoms out at 0, not
	// negative: -15(ai) -10(above max) -5(media) +5(conf) ... still >= 0.
	record := model.DealRecord{
		CompanyName:     "Overexposed Corp",
		FundingStage:    "ipo",
		AmountRaisedUSD: amt(200_000_000),
		MediaMentions:   40,
		ConfidenceScore: 0.1,
	}

	result, err := Score(record, filter.Default())
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Equal(t, 0, result.Score)
}

func TestScore_NetZeroIsNotRejection(t *testing.T) {
	// Rejected==false with Score==0 is a legitimate outcome, distinct
	// from a strict-mode rejection.
	record := model.DealRecord{
		CompanyName:     "Overexposed Corp",
		FundingStage:    "ipo",
		AmountRaisedUSD: amt(200_000_000),
		MediaMentions:   40,
		ConfidenceScore: 0.1,
	}

	result, err := Score(record, filter.Default())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Rejected)
	assert.Empty(t, result.RejectionReason)
}

func TestScore_InvalidRecord(t *testing.T) {
	_, err := Score(model.DealRecord{}, filter.Default())
	assert.True(t, eris.Is(err, model.ErrValidation))
}
