// Package dispatch issues gateway mutations once a sheet row number has been
// resolved. Mutations are write-through-blind: the in-memory view is never
// patched, so callers reload to observe their own writes.
package dispatch

import (
	"context"
	"fmt"

	"pricing_services/internal/reconcile"
	"pricing_services/internal/sheets"
	"pricing_services/internal/view"

	"github.com/rs/zerolog/log"
)

// Result reports what a single mutation did. Skipped is true when the
// selector missed under the skip policy and no gateway call was made.
type Result struct {
	Row     int  `json:"row,omitempty"`
	Skipped bool `json:"skipped,omitempty"`
}

type Dispatcher struct {
	gw     sheets.Gateway
	policy reconcile.MissPolicy
}

func New(gw sheets.Gateway, policy reconcile.MissPolicy) *Dispatcher {
	return &Dispatcher{gw: gw, policy: policy}
}

// Add appends one record to the store. Category and item must be non-empty.
func (d *Dispatcher) Add(ctx context.Context, rec view.ServiceRecord) error {
	if rec.Category == "" || rec.Item == "" {
		return fmt.Errorf("category and item are required")
	}
	if err := d.gw.AppendRow(ctx, rec.ToRow()); err != nil {
		return err
	}
	log.Info().
		Str("category", rec.Category).
		Str("item", rec.Item).
		Msg("Appended service row")
	return nil
}

// Update resolves the selector against the loaded view and overwrites the
// five-cell range at the resolved row.
func (d *Dispatcher) Update(ctx context.Context, entries []view.Entry, sel reconcile.Selector, rec view.ServiceRecord) (Result, error) {
	n, ok, err := reconcile.Resolve(entries, sel, d.policy)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		log.Warn().
			Str("category", sel.Category).
			Str("item", sel.Item).
			Msg("Update selector missed, skipping")
		return Result{Skipped: true}, nil
	}
	if err := d.gw.UpdateRowRange(ctx, n, rec.ToRow()); err != nil {
		return Result{}, err
	}
	log.Info().Int("row", n).Msg("Updated service row")
	return Result{Row: n}, nil
}

// Delete resolves the selector and removes the row. Rows below the deleted
// one shift up in the store while the loaded view stays as it was, so a
// second delete against the same stale view addresses the wrong record.
func (d *Dispatcher) Delete(ctx context.Context, entries []view.Entry, sel reconcile.Selector) (Result, error) {
	n, ok, err := reconcile.Resolve(entries, sel, d.policy)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		log.Warn().
			Str("category", sel.Category).
			Str("item", sel.Item).
			Msg("Delete selector missed, skipping")
		return Result{Skipped: true}, nil
	}
	if err := d.gw.DeleteRow(ctx, n); err != nil {
		return Result{}, err
	}
	log.Info().Int("row", n).Msg("Deleted service row")
	return Result{Row: n}, nil
}
