// Package ingest reads deal discovery batches from CSV and XLSX files, the
// offline hand-off format used by the scraper side of the pipeline. Parsing
// is lenient: a bad cell degrades to the field's documented default instead
// of dropping the row — only a missing company name invalidates a record,
// and even that is the dedup/pipeline boundary's call, not ours.
package ingest

import (
	"strconv"
	"strings"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

// Column headers recognized in input files, matched case-insensitively.
const (
	colCompany    = "company_name"
	colStage      = "funding_stage"
	colAmount     = "amount_raised_usd"
	colAIFocus    = "has_ai_focus"
	colSectors    = "climate_sectors"
	colCountry    = "headquarters_country"
	colMentions   = "media_mentions"
	colConfidence = "confidence_score"
	colSourceName = "source_name"
	colSourceType = "source_type"
	colSourceURL  = "source_url"
)

// sectorSeparator splits the multi-valued climate_sectors cell.
const sectorSeparator = ";"

// headerIndex maps normalized column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// cell returns the named column's value for a row, or "" when the column is
// absent or the row is short.
func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// recordFromRow builds a DealRecord from one header-mapped row.
func recordFromRow(row []string, idx map[string]int) model.DealRecord {
	record := model.DealRecord{
		CompanyName:         cell(row, idx, colCompany),
		FundingStage:        model.NormalizeStage(cell(row, idx, colStage)),
		HasAIFocus:          parseBool(cell(row, idx, colAIFocus)),
		HeadquartersCountry: cell(row, idx, colCountry),
		SourceName:          cell(row, idx, colSourceName),
		SourceType:          model.SourceType(strings.ToLower(cell(row, idx, colSourceType))),
		SourceURL:           cell(row, idx, colSourceURL),
	}

	if raw := cell(row, idx, colSectors); raw != "" {
		for _, s := range strings.Split(raw, sectorSeparator) {
			if s = strings.TrimSpace(s); s != "" {
				record.ClimateSectors = append(record.ClimateSectors, s)
			}
		}
	}

	if amount, err := strconv.ParseFloat(cell(row, idx, colAmount), 64); err == nil && amount >= 0 {
		record.AmountRaisedUSD = &amount
	}

	if mentions, err := strconv.Atoi(cell(row, idx, colMentions)); err == nil && mentions >= 0 {
		record.MediaMentions = mentions
	}

	if conf, err := strconv.ParseFloat(cell(row, idx, colConfidence), 64); err == nil && conf >= 0 && conf <= 1 {
		record.ConfidenceScore = conf
	}

	return record
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}
