package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/citemap/internal/model"
)

// csvHeader is the column set of the exported dataset. Kept stable so
// downstream tooling and the render command can rely on it.
var csvHeader = []string{
	"citing author name",
	"citing paper title",
	"cited paper title",
	"affiliation",
	"latitude",
	"longitude",
	"county",
	"city",
	"state",
	"country",
}

// CSVWriter outputs the dataset as CSV with the full tuple schema.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs all geocoded records. The byte count is approximate: csv
// buffers internally, so the count reflects the formatted payload size.
func (w *CSVWriter) Write(report *model.CitationReport) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	var written int
	for _, rec := range report.Geocoded {
		row := []string{
			rec.CitingAuthorName,
			rec.CitingPaperTitle,
			rec.CitedPaperTitle,
			rec.Affiliation,
			strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
			strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
			rec.County,
			rec.City,
			rec.State,
			rec.Country,
		}
		if err := cw.Write(row); err != nil {
			return written, fmt.Errorf("write csv row: %w", err)
		}
		for _, col := range row {
			written += len(col) + 1
		}
	}

	cw.Flush()
	return written, cw.Error()
}

// ReadCSV parses a dataset previously written by CSVWriter, so the map can
// be re-rendered without re-crawling.
func ReadCSV(r io.Reader) ([]model.GeocodedRecord, error) {
	cr := csv.NewReader(r)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Skip the header row; tolerate files written without one.
	if rows[0][0] == csvHeader[0] {
		rows = rows[1:]
	}

	records := make([]model.GeocodedRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < len(csvHeader) {
			return nil, fmt.Errorf("csv row %d: expected %d columns, got %d", i+1, len(csvHeader), len(row))
		}

		lat, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad latitude %q: %w", i+1, row[4], err)
		}
		lon, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad longitude %q: %w", i+1, row[5], err)
		}

		records = append(records, model.GeocodedRecord{
			AffiliationRecord: model.AffiliationRecord{
				CitingAuthorName: row[0],
				CitingPaperTitle: row[1],
				CitedPaperTitle:  row[2],
				Affiliation:      row[3],
			},
			Latitude:  lat,
			Longitude: lon,
			County:    row[6],
			City:      row[7],
			State:     row[8],
			Country:   row[9],
		})
	}

	return records, nil
}
