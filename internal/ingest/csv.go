package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

// ReadCSV reads deal records from a header-mapped CSV file.
func ReadCSV(path string) ([]model.DealRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ParseCSV(f)
}

// ParseCSV reads deal records from CSV data. The first row must be a
// header; unknown columns are ignored, short rows tolerated.
func ParseCSV(r io.Reader) ([]model.DealRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: csv has no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	idx := headerIndex(header)

	var records []model.DealRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		records = append(records, recordFromRow(row, idx))
	}

	return records, nil
}
