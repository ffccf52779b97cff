package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing_services/internal/view"
)

func duplicateEntries() []view.Entry {
	return []view.Entry{
		{Record: view.ServiceRecord{Category: "Consulting", Item: "Audit", Price: 100, Turnaround: "3 days", Notes: "rush"}, RowNumber: 2},
		{Record: view.ServiceRecord{Category: "Consulting", Item: "Audit", Price: 150, Turnaround: "5 days"}, RowNumber: 3},
		{Record: view.ServiceRecord{Category: "Design", Item: "Logo", Price: 1200}, RowNumber: 4},
	}
}

func TestByRecordFirstMatchWins(t *testing.T) {
	// Two records share (Consulting, Audit) at rows 2 and 3; resolution
	// always lands on row 2 regardless of which one the user clicked.
	n, ok := ByRecord(duplicateEntries(), "Consulting", "Audit")
	require.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestByRecordUnique(t *testing.T) {
	n, ok := ByRecord(duplicateEntries(), "Design", "Logo")
	require.True(t, ok)
	assert.Equal(t, 4, n)
}

func TestByRecordMiss(t *testing.T) {
	_, ok := ByRecord(duplicateEntries(), "Consulting", "Gone")
	assert.False(t, ok)
}

func TestByNumberBounds(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		viewLen int
		wantErr bool
	}{
		{"first data row", 2, 3, false},
		{"last data row", 4, 3, false},
		{"header row", 1, 3, true},
		{"zero", 0, 3, true},
		{"past end of view", 5, 3, true},
		{"empty view", 2, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByNumber(tt.n, tt.viewLen)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, got)
		})
	}
}

func TestResolveExplicitRow(t *testing.T) {
	n, ok, err := Resolve(duplicateEntries(), Selector{Row: 3}, MissSkip)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestResolveExplicitRowOutOfRange(t *testing.T) {
	_, _, err := Resolve(duplicateEntries(), Selector{Row: 9}, MissSkip)
	assert.Error(t, err)
}

func TestResolveMissSkip(t *testing.T) {
	_, ok, err := Resolve(duplicateEntries(), Selector{Category: "Consulting", Item: "Gone"}, MissSkip)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveMissError(t *testing.T) {
	_, _, err := Resolve(duplicateEntries(), Selector{Category: "Consulting", Item: "Gone"}, MissError)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, MissError, ParsePolicy("error"))
	assert.Equal(t, MissSkip, ParsePolicy("skip"))
	assert.Equal(t, MissSkip, ParsePolicy(""))
}
