// Package reconcile maps UI-level selections back to authoritative 1-based
// sheet row numbers. The in-memory view is 0-indexed and excludes the header
// row, so the record at index i lives at sheet row i+2.
package reconcile

import (
	"errors"
	"fmt"

	"pricing_services/internal/view"
)

// ErrRowNotFound reports a selection whose record no longer exists in the
// loaded view, e.g. because another session deleted it since load.
var ErrRowNotFound = errors.New("record not found in loaded view")

// MissPolicy decides what happens when a selected record cannot be resolved.
type MissPolicy string

const (
	// MissSkip silently drops the mutation, the behavior the dashboard
	// always had.
	MissSkip MissPolicy = "skip"
	// MissError surfaces the miss as a per-operation failure.
	MissError MissPolicy = "error"
)

// ParsePolicy maps the config value to a policy, defaulting to MissSkip.
func ParsePolicy(s string) MissPolicy {
	if s == string(MissError) {
		return MissError
	}
	return MissSkip
}

// Selector identifies one record to mutate: either an explicit sheet row
// number (Row > 0) or a (category, item) pair drawn from a UI selection.
type Selector struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Row      int    `json:"row"`
}

// ByRecord scans the full table view, not a filtered one, for the first
// entry whose (category, item) matches, and returns its sheet row number.
// Duplicate keys collapse to the first match in load order; later duplicates
// are unreachable through this path until the first is removed.
func ByRecord(entries []view.Entry, category, item string) (int, bool) {
	for _, e := range entries {
		if e.Record.Category == category && e.Record.Item == item {
			return e.RowNumber, true
		}
	}
	return 0, false
}

// ByNumber validates a user-supplied row number against the loaded view's
// length. The view may be stale relative to the store; that staleness is
// accepted, and no existence check is made against the backend.
func ByNumber(n, viewLen int) (int, error) {
	if n < 2 || n > viewLen+1 {
		return 0, fmt.Errorf("row %d out of range, expected 2..%d", n, viewLen+1)
	}
	return n, nil
}

// Resolve applies a selector against the loaded view. A miss returns
// (0, false, nil) under MissSkip and (0, false, ErrRowNotFound) under
// MissError. Explicit row numbers only ever fail on bounds.
func Resolve(entries []view.Entry, sel Selector, policy MissPolicy) (int, bool, error) {
	if sel.Row > 0 {
		n, err := ByNumber(sel.Row, len(entries))
		if err != nil {
			return 0, false, err
		}
		return n, true, nil
	}

	n, ok := ByRecord(entries, sel.Category, sel.Item)
	if !ok {
		if policy == MissError {
			return 0, false, fmt.Errorf("%w: category %q item %q", ErrRowNotFound, sel.Category, sel.Item)
		}
		return 0, false, nil
	}
	return n, true, nil
}
