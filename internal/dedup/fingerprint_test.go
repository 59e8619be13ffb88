package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

func amt(v float64) *float64 { return &v }

func TestFingerprint_Normalization(t *testing.T) {
	a := model.DealRecord{
		CompanyName:     "  Boston   Metal ",
		SourceType:      model.SourceNews,
		AmountRaisedUSD: amt(5_000_000),
	}
	b := model.DealRecord{
		CompanyName:     "boston metal",
		SourceType:      model.SourceNews,
		AmountRaisedUSD: amt(5_000_000),
	}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_Diacritics(t *testing.T) {
	a := model.DealRecord{CompanyName: "Brúnn Energi", SourceType: model.SourceNews}
	b := model.DealRecord{CompanyName: "Brunn Energi", SourceType: model.SourceNews}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_AmountBucketing(t *testing.T) {
	base := model.DealRecord{CompanyName: "Acme", SourceType: model.SourceNews}

	a, b, c := base, base, base
	a.AmountRaisedUSD = amt(5_020_000)
	b.AmountRaisedUSD = amt(4_980_000)
	c.AmountRaisedUSD = amt(5_060_000)

	// Within the same $100K bucket.
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	// Rounds up to the next bucket.
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}

func TestFingerprint_NilAmount(t *testing.T) {
	record := model.DealRecord{CompanyName: "Acme", SourceType: model.SourceGovernment}
	assert.Equal(t, "acme|government|unknown", Fingerprint(record))
}

func TestFingerprint_SourceBuckets(t *testing.T) {
	news := model.DealRecord{CompanyName: "Acme", SourceType: model.SourceNews}
	vc := model.DealRecord{CompanyName: "Acme", SourceType: model.SourceVCPortfolio}
	assert.NotEqual(t, Fingerprint(news), Fingerprint(vc))

	unknown := model.DealRecord{CompanyName: "Acme", SourceType: "rss"}
	assert.Equal(t, "acme|unknown_source|unknown", Fingerprint(unknown))
}

func TestFingerprint_TotalOnEmptyRecord(t *testing.T) {
	// Never panics, even on a record validation would reject.
	assert.NotPanics(t, func() { Fingerprint(model.DealRecord{}) })
}

func TestNormalizeCompany(t *testing.T) {
	assert.Equal(t, "solar tech", NormalizeCompany("  SOLAR   Tech "))
	assert.Equal(t, "", NormalizeCompany("   "))
}
