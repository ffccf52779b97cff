package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry pairs a record with its authoritative 1-based sheet row number.
// Row 1 is the header, so the record at slice index i lives at row i+2.
// Filtering keeps these numbers intact; mutations must target them, never
// a renumbered position.
type Entry struct {
	Record    ServiceRecord `json:"record"`
	RowNumber int           `json:"row"`
}

// TableView is the full in-memory snapshot taken at load time. It is never
// patched after a mutation; callers reload to observe backend changes.
type TableView struct {
	entries []Entry
}

// Build converts raw worksheet values (header row included) into a TableView,
// trimming header whitespace and projecting to the visible columns.
func Build(raw [][]interface{}, columns []string) (*TableView, error) {
	if len(columns) != 5 {
		return nil, fmt.Errorf("expected 5 visible columns, got %d", len(columns))
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("worksheet is empty, expected a header row")
	}

	header := raw[0]
	index := make(map[string]int, len(header))
	for i := range header {
		index[strings.TrimSpace(cellString(header, i))] = i
	}

	positions := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("worksheet header is missing column %q", col)
		}
		positions[i] = pos
	}

	v := &TableView{entries: make([]Entry, 0, len(raw)-1)}
	for i, row := range raw[1:] {
		rec := ServiceRecord{
			Category:   strings.TrimSpace(cellString(row, positions[0])),
			Item:       strings.TrimSpace(cellString(row, positions[1])),
			Price:      cellPrice(row, positions[2], i+2),
			Turnaround: strings.TrimSpace(cellString(row, positions[3])),
			Notes:      strings.TrimSpace(cellString(row, positions[4])),
		}
		v.entries = append(v.entries, Entry{Record: rec, RowNumber: i + 2})
	}

	log.Debug().Int("rows", len(v.entries)).Msg("Built table view")
	return v, nil
}

// Entries returns the full view in load order.
func (v *TableView) Entries() []Entry {
	return v.entries
}

func (v *TableView) Len() int {
	return len(v.entries)
}

// Summary carries the dashboard headline metrics for a set of entries.
type Summary struct {
	Count        int     `json:"count"`
	AveragePrice float64 `json:"average_price"`
	Categories   int     `json:"categories"`
}

func Summarize(entries []Entry) Summary {
	s := Summary{Count: len(entries)}
	seen := make(map[string]struct{})
	total := 0.0
	for _, e := range entries {
		total += e.Record.Price
		seen[e.Record.Category] = struct{}{}
	}
	s.Categories = len(seen)
	if s.Count > 0 {
		s.AveragePrice = total / float64(s.Count)
	}
	return s
}

// CategoryOptions returns the filter choices: the All sentinel followed by
// the distinct categories in sorted order.
func CategoryOptions(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.Record.Category != "" {
			seen[e.Record.Category] = struct{}{}
		}
	}
	options := make([]string, 0, len(seen)+1)
	for c := range seen {
		options = append(options, c)
	}
	sort.Strings(options)
	return append([]string{CategoryAll}, options...)
}

// cellString safely extracts a string cell at the given index.
func cellString(row []interface{}, index int) string {
	if index >= 0 && index < len(row) && row[index] != nil {
		return fmt.Sprintf("%v", row[index])
	}
	return ""
}

// cellPrice coerces a price cell to float64. The sheet may hold the value as
// a number or as formatted text ("$1,200.00"); unparseable cells load as 0.
func cellPrice(row []interface{}, index, rowNumber int) float64 {
	if index < 0 || index >= len(row) || row[index] == nil {
		return 0
	}
	switch val := row[index].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	default:
		s := strings.TrimSpace(fmt.Sprintf("%v", val))
		s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Debug().Int("row", rowNumber).Str("cell", s).Msg("Unparseable price cell, loading as 0")
			return 0
		}
		return f
	}
}
