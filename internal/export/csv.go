// Package export serializes a filtered view to the download formats the
// dashboard offers. Encoders always emit the visible columns in fixed order,
// header row first.
package export

import (
	"bytes"
	"encoding/csv"

	"pricing_services/internal/view"
)

// CSV encodes the entries as UTF-8 comma-delimited text with a header row.
func CSV(columns []string, entries []view.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write(recordFields(e.Record)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordFields(r view.ServiceRecord) []string {
	return []string{
		r.Category,
		r.Item,
		r.PriceString(),
		r.Turnaround,
		r.Notes,
	}
}
