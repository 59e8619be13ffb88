package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/pipeline"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "dealflow-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func amt(v float64) *float64 { return &v }

func testResult(company string, score int) pipeline.Result {
	return pipeline.Result{
		Record: model.DealRecord{
			CompanyName:     company,
			FundingStage:    "seed",
			SourceType:      model.SourceNews,
			AmountRaisedUSD: amt(5_000_000),
		},
		Score: model.ScoreResult{
			Score: score,
			Factors: []model.Factor{
				{Criterion: "stage", Points: 30},
			},
		},
	}
}

func TestSQLiteSaveResults(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	inserted, err := s.SaveResults(ctx, "run-1", []pipeline.Result{
		testResult("SolarTech", 90),
		testResult("GridFlow", 70),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestSQLiteSaveResults_CrossRunFingerprintDedup(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveResults(ctx, "run-1", []pipeline.Result{testResult("SolarTech", 90)})
	require.NoError(t, err)

	// Same deal resurfacing in a later run: the unique fingerprint keeps it
	// out, and the skip is visible in the insert count.
	inserted, err := s.SaveResults(ctx, "run-2", []pipeline.Result{
		testResult("SolarTech", 90),
		testResult("GridFlow", 70),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	deals, err := s.ListTopDeals(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, deals, 2)
}

func TestSQLiteListTopDeals(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SaveResults(ctx, "run-1", []pipeline.Result{
		testResult("Bronze Co", 40),
		testResult("Gold Co", 95),
		testResult("Silver Co", 70),
	})
	require.NoError(t, err)

	deals, err := s.ListTopDeals(ctx, 2)
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "Gold Co", deals[0].Record.CompanyName)
	assert.Equal(t, 95, deals[0].Score.Score)
	assert.Equal(t, "Silver Co", deals[1].Record.CompanyName)
	assert.NotEmpty(t, deals[0].Fingerprint)
	assert.Equal(t, "run-1", deals[0].RunID)
}

func TestSQLiteListTopDeals_Empty(t *testing.T) {
	s := newTestSQLite(t)

	deals, err := s.ListTopDeals(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestSQLiteFilterSettings_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	original, err := filter.ApplyPreset(filter.PresetClimateOnly)
	require.NoError(t, err)
	require.NoError(t, s.SaveFilterSettings(ctx, "climate_view", original))

	loaded, err := s.GetFilterSettings(ctx, "climate_view")
	require.NoError(t, err)
	assert.Equal(t, original.Criteria(), loaded.Criteria())
}

func TestSQLiteFilterSettings_Upsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFilterSettings(ctx, "view", filter.Default()))

	strict, err := filter.ApplyPreset(filter.PresetAlexStrict)
	require.NoError(t, err)
	require.NoError(t, s.SaveFilterSettings(ctx, "view", strict))

	loaded, err := s.GetFilterSettings(ctx, "view")
	require.NoError(t, err)
	assert.Equal(t, strict.Criteria(), loaded.Criteria())
}

func TestSQLiteGetFilterSettings_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetFilterSettings(context.Background(), "nope")
	assert.Error(t, err)
}
