// Package dedup detects duplicate deal discoveries within a batch by
// comparing normalized content fingerprints. The same company reported by
// two news scrapers, or by a scraper and a VC portfolio sweep, collapses to
// a single record.
package dedup

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

// amountBucketUSD is the rounding granularity for the amount component of a
// fingerprint. Two reports of the same round differing by less than this are
// treated as the same discovery.
const amountBucketUSD = 100_000

// deaccent strips combining marks so "Brúnn Energi" and "Brunn Energi"
// fingerprint identically.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fingerprint computes the normalized composite key for a record:
// company | source bucket | amount bucket. It is pure and total — absent
// optional fields map to sentinel strings, never to an error. The caller is
// responsible for rejecting records with no company name before keying.
func Fingerprint(record model.DealRecord) string {
	return strings.Join([]string{
		NormalizeCompany(record.CompanyName),
		sourceBucket(record.SourceType),
		amountBucket(record.AmountRaisedUSD),
	}, "|")
}

// NormalizeCompany trims, lowercases, strips diacritics, and collapses
// internal whitespace in a company name.
func NormalizeCompany(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(deaccent, name); err == nil {
		name = folded
	}
	return strings.Join(strings.Fields(name), " ")
}

// sourceBucket maps a source type onto the coarse categories used for
// duplicate detection. Unknown types get their own bucket rather than
// colliding with a real one.
func sourceBucket(t model.SourceType) string {
	switch t {
	case model.SourceNews, model.SourceVCPortfolio, model.SourceGovernment:
		return string(t)
	}
	return "unknown_source"
}

// amountBucket rounds a raised amount to the nearest $100K. A nil amount
// maps to the "unknown" sentinel.
func amountBucket(amount *float64) string {
	if amount == nil {
		return "unknown"
	}
	bucket := int64(math.Round(*amount/amountBucketUSD)) * amountBucketUSD
	return fmt.Sprintf("%d", bucket)
}
