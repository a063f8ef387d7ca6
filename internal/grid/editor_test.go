package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtaverse/dashboard/internal/dashapi"
	"github.com/rtaverse/dashboard/internal/httputil"
)

func sampleTable() *Table {
	return NewTable("accidents_2024",
		[]string{"id", "BARANGAY", "VICTIMS", "MONTH"},
		[][]string{
			{"1", "Poblacion", "2", "January"},
			{"2", "San Isidro", "1", "March"},
			{"3", "Bagumbayan", "4", "July"},
		})
}

func TestEditAppliesAndStacks(t *testing.T) {
	ed := NewEditor(sampleTable())

	require.NoError(t, ed.Edit(0, "VICTIMS", "5"))
	v, _ := ed.Table().Cell(0, "VICTIMS")
	assert.Equal(t, "5", v)
	assert.True(t, ed.Dirty())
}

func TestEditRejectsReadOnlyColumn(t *testing.T) {
	ed := NewEditor(sampleTable())

	err := ed.Edit(0, "MONTH", "February")
	assert.ErrorIs(t, err, ErrReadOnlyColumn)
	assert.False(t, ed.Dirty())
}

func TestEditNeedsRowIdentity(t *testing.T) {
	table := NewTable("t", []string{"BARANGAY"}, [][]string{{"Poblacion"}})
	ed := NewEditor(table)

	err := ed.Edit(0, "BARANGAY", "San Roque")
	assert.ErrorIs(t, err, ErrNoRowIdentity)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "5"))
	require.NoError(t, ed.Edit(1, "BARANGAY", "San Roque"))

	assert.True(t, ed.Undo())
	v, _ := ed.Table().Cell(1, "BARANGAY")
	assert.Equal(t, "San Isidro", v)

	assert.True(t, ed.Redo())
	v, _ = ed.Table().Cell(1, "BARANGAY")
	assert.Equal(t, "San Roque", v)

	assert.True(t, ed.Undo())
	assert.True(t, ed.Undo())
	assert.False(t, ed.Undo(), "stack exhausted")
	assert.False(t, ed.Dirty())
}

func TestNewEditClearsRedo(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "5"))
	require.True(t, ed.Undo())

	require.NoError(t, ed.Edit(0, "VICTIMS", "7"))
	assert.False(t, ed.Redo(), "redo history forked away")
	v, _ := ed.Table().Cell(0, "VICTIMS")
	assert.Equal(t, "7", v)
}

func TestPendingChangesCollapsePerCell(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "31"))
	require.NoError(t, ed.Edit(0, "VICTIMS", "32"))
	require.NoError(t, ed.Edit(0, "VICTIMS", "33"))
	require.NoError(t, ed.Edit(1, "BARANGAY", "San Roque"))

	changes := ed.PendingChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, dashapi.CellChange{ID: 1, Column: "VICTIMS", NewValue: "33"}, changes[0])
	assert.Equal(t, dashapi.CellChange{ID: 2, Column: "BARANGAY", NewValue: "San Roque"}, changes[1])
}

func TestUndoneEditsAreNotSaved(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "5"))
	require.NoError(t, ed.Edit(1, "BARANGAY", "San Roque"))
	require.True(t, ed.Undo())

	changes := ed.PendingChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, "VICTIMS", changes[0].Column)
}

func TestSaveNothingPendingSkipsNetwork(t *testing.T) {
	mock := httputil.NewMockClient()
	api := dashapi.NewClient("http://backend:5000", mock)
	ed := NewEditor(sampleTable())

	msg, err := ed.Save(context.Background(), api)
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Zero(t, mock.RequestCount())
}

func TestSaveSendsCollapsedChanges(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddResponse(200, `{"success":true,"message":"1 cell updated"}`)
	api := dashapi.NewClient("http://backend:5000", mock)

	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "8"))
	require.NoError(t, ed.Edit(0, "VICTIMS", "9"))

	msg, err := ed.Save(context.Background(), api)
	require.NoError(t, err)
	assert.Equal(t, "1 cell updated", msg)
	assert.Equal(t, 1, mock.RequestCount())
	assert.False(t, ed.Dirty())

	// saved state is the new cancel point
	assert.True(t, ed.Cancel(nil))
	v, _ := ed.Table().Cell(0, "VICTIMS")
	assert.Equal(t, "9", v)
}

func TestSaveFailureKeepsStacks(t *testing.T) {
	mock := httputil.NewMockClient()
	mock.AddErrorResponse(errors.New("connection refused"))
	api := dashapi.NewClient("http://backend:5000", mock)

	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "8"))

	_, err := ed.Save(context.Background(), api)
	require.Error(t, err)
	assert.True(t, ed.Dirty(), "failed save must not drop pending edits")
}

func TestCancelRestoresBaseline(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "8"))

	confirmed := false
	ok := ed.Cancel(func() bool { confirmed = true; return true })
	assert.True(t, ok)
	assert.True(t, confirmed)

	v, _ := ed.Table().Cell(0, "VICTIMS")
	assert.Equal(t, "2", v)
	assert.False(t, ed.Dirty())
}

func TestCancelDeclinedKeepsSession(t *testing.T) {
	ed := NewEditor(sampleTable())
	require.NoError(t, ed.Edit(0, "VICTIMS", "8"))

	ok := ed.Cancel(func() bool { return false })
	assert.False(t, ok)
	assert.True(t, ed.Dirty())
	v, _ := ed.Table().Cell(0, "VICTIMS")
	assert.Equal(t, "8", v)
}

func TestCancelCleanNeedsNoConfirm(t *testing.T) {
	ed := NewEditor(sampleTable())

	ok := ed.Cancel(func() bool {
		t.Fatal("confirm must not run without unsaved edits")
		return false
	})
	assert.True(t, ok)
}
