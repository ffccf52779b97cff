package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing_services/internal/reconcile"
	"pricing_services/internal/view"
)

// mockGateway records calls without any backing data.
type mockGateway struct {
	appended [][]interface{}
	updated  map[int][]interface{}
	deleted  []int
	err      error
}

func newMockGateway() *mockGateway {
	return &mockGateway{updated: make(map[int][]interface{})}
}

func (m *mockGateway) ReadAll(ctx context.Context) ([][]interface{}, error) {
	return nil, m.err
}

func (m *mockGateway) AppendRow(ctx context.Context, row []interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, row)
	return nil
}

func (m *mockGateway) UpdateRowRange(ctx context.Context, rowNumber int, row []interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.updated[rowNumber] = row
	return nil
}

func (m *mockGateway) DeleteRow(ctx context.Context, rowNumber int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, rowNumber)
	return nil
}

func loadedEntries() []view.Entry {
	return []view.Entry{
		{Record: view.ServiceRecord{Category: "Consulting", Item: "Audit", Price: 100, Turnaround: "3 days", Notes: "rush"}, RowNumber: 2},
		{Record: view.ServiceRecord{Category: "Consulting", Item: "Audit", Price: 150, Turnaround: "5 days"}, RowNumber: 3},
		{Record: view.ServiceRecord{Category: "Design", Item: "Logo", Price: 1200, Turnaround: "2 weeks"}, RowNumber: 4},
	}
}

func TestAddAppendsOrderedFields(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	rec := view.ServiceRecord{Category: "Design", Item: "Banner", Price: 80, Turnaround: "1 week", Notes: "print"}
	require.NoError(t, d.Add(context.Background(), rec))

	require.Len(t, gw.appended, 1)
	assert.Equal(t, []interface{}{"Design", "Banner", 80.0, "1 week", "print"}, gw.appended[0])
}

func TestAddRequiresCategoryAndItem(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	assert.Error(t, d.Add(context.Background(), view.ServiceRecord{Item: "Banner"}))
	assert.Error(t, d.Add(context.Background(), view.ServiceRecord{Category: "Design"}))
	assert.Empty(t, gw.appended)
}

func TestUpdateWritesResolvedRow(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	rec := view.ServiceRecord{Category: "Design", Item: "Logo", Price: 1500, Turnaround: "3 weeks", Notes: "rework"}
	res, err := d.Update(context.Background(), loadedEntries(), reconcile.Selector{Category: "Design", Item: "Logo"}, rec)
	require.NoError(t, err)
	assert.Equal(t, Result{Row: 4}, res)
	assert.Equal(t, rec.ToRow(), gw.updated[4])
}

func TestUpdateDuplicateKeyAlwaysHitsFirstRow(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	rec := view.ServiceRecord{Category: "Consulting", Item: "Audit", Price: 175}
	res, err := d.Update(context.Background(), loadedEntries(), reconcile.Selector{Category: "Consulting", Item: "Audit"}, rec)
	require.NoError(t, err)
	// The duplicate at row 3 is unreachable through this path.
	assert.Equal(t, 2, res.Row)
}

func TestUpdateMissSkipped(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	res, err := d.Update(context.Background(), loadedEntries(), reconcile.Selector{Category: "Gone", Item: "Gone"}, view.ServiceRecord{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, gw.updated)
}

func TestUpdateMissErrorPolicy(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissError)

	_, err := d.Update(context.Background(), loadedEntries(), reconcile.Selector{Category: "Gone", Item: "Gone"}, view.ServiceRecord{})
	assert.ErrorIs(t, err, reconcile.ErrRowNotFound)
}

func TestDeleteByExplicitRow(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	res, err := d.Delete(context.Background(), loadedEntries(), reconcile.Selector{Row: 3})
	require.NoError(t, err)
	assert.Equal(t, Result{Row: 3}, res)
	assert.Equal(t, []int{3}, gw.deleted)
}

func TestDeleteExplicitRowOutOfBounds(t *testing.T) {
	gw := newMockGateway()
	d := New(gw, reconcile.MissSkip)

	_, err := d.Delete(context.Background(), loadedEntries(), reconcile.Selector{Row: 12})
	assert.Error(t, err)
	assert.Empty(t, gw.deleted)
}

// storeGateway models the real backend shift: deleting row n moves every
// later row up by one.
type storeGateway struct {
	rows [][]interface{} // rows[0] is sheet row 2
}

func (s *storeGateway) ReadAll(ctx context.Context) ([][]interface{}, error) { return nil, nil }

func (s *storeGateway) AppendRow(ctx context.Context, row []interface{}) error {
	s.rows = append(s.rows, row)
	return nil
}

func (s *storeGateway) UpdateRowRange(ctx context.Context, rowNumber int, row []interface{}) error {
	s.rows[rowNumber-2] = row
	return nil
}

func (s *storeGateway) DeleteRow(ctx context.Context, rowNumber int) error {
	i := rowNumber - 2
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

func TestStaleSecondDeleteTargetsShiftedRow(t *testing.T) {
	store := &storeGateway{rows: [][]interface{}{
		{"Consulting", "Audit", 100.0, "3 days", "rush"},
		{"Design", "Logo", 1200.0, "2 weeks", ""},
		{"Design", "Banner", 80.0, "1 week", ""},
	}}
	d := New(store, reconcile.MissSkip)
	entries := loadedEntries()

	// First delete removes sheet row 2 and shifts the store up by one.
	_, err := d.Delete(context.Background(), entries, reconcile.Selector{Row: 2})
	require.NoError(t, err)

	// A second delete against the same stale view still addresses row 2,
	// which now holds what was originally row 3.
	_, err = d.Delete(context.Background(), entries, reconcile.Selector{Row: 2})
	require.NoError(t, err)

	require.Len(t, store.rows, 1)
	assert.Equal(t, "Banner", store.rows[0][1])
}
