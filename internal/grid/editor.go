package grid

import (
	"context"
	"errors"
	"strings"

	"github.com/rtaverse/dashboard/internal/dashapi"
)

// ErrReadOnlyColumn rejects edits to backend-derived columns.
var ErrReadOnlyColumn = errors.New("column is read-only")

// EditRecord is one applied cell edit, kept on the undo stack until saved
// or undone.
type EditRecord struct {
	RowID    int64
	Column   string
	OldValue string
	NewValue string
}

// Editor runs an edit session over one table. Edits apply to the table
// immediately and stack for undo; Save sends only the collapsed set of
// touched cells. Cancel restores the rows captured when the session
// started.
type Editor struct {
	table    *Table
	baseline [][]string
	undo     []EditRecord
	redo     []EditRecord
}

// NewEditor starts an edit session, snapshotting the table's rows for
// cancel.
func NewEditor(table *Table) *Editor {
	return &Editor{table: table, baseline: table.snapshotRows()}
}

// Table returns the table under edit.
func (e *Editor) Table() *Table { return e.table }

// Dirty reports whether any unsaved edits are stacked.
func (e *Editor) Dirty() bool { return len(e.undo) > 0 }

// Edit applies a new cell value. The previous value goes on the undo
// stack and the redo stack is cleared, as a fresh edit forks history.
// Editing a derived column or an identity-less table is rejected.
func (e *Editor) Edit(row int, column, value string) error {
	if IsReadOnly(column) {
		return ErrReadOnlyColumn
	}
	id, err := e.table.RowID(row)
	if err != nil {
		return err
	}
	c := e.table.ColumnIndex(column)
	if c < 0 {
		return errors.New("unknown column " + column)
	}

	old := e.table.Rows[row][c]
	if old == value {
		return nil
	}
	e.table.Rows[row][c] = value
	e.undo = append(e.undo, EditRecord{RowID: id, Column: e.table.Headers[c], OldValue: old, NewValue: value})
	e.redo = nil
	return nil
}

// Undo reverts the most recent edit and moves it to the redo stack. It
// reports whether there was anything to undo.
func (e *Editor) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	rec := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.applyValue(rec.RowID, rec.Column, rec.OldValue)
	e.redo = append(e.redo, rec)
	return true
}

// Redo reapplies the most recently undone edit.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	rec := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.applyValue(rec.RowID, rec.Column, rec.NewValue)
	e.undo = append(e.undo, rec)
	return true
}

func (e *Editor) applyValue(id int64, column, value string) {
	row := e.table.rowByID(id)
	if row < 0 {
		return
	}
	if c := e.table.ColumnIndex(column); c >= 0 {
		e.table.Rows[row][c] = value
	}
}

// PendingChanges collapses the undo stack to one change per touched cell,
// keeping the latest value. Order follows first touch of each cell.
func (e *Editor) PendingChanges() []dashapi.CellChange {
	type cellKey struct {
		id     int64
		column string
	}
	index := make(map[cellKey]int)
	var out []dashapi.CellChange
	for _, rec := range e.undo {
		key := cellKey{id: rec.RowID, column: strings.ToUpper(rec.Column)}
		if i, seen := index[key]; seen {
			out[i].NewValue = rec.NewValue
			continue
		}
		index[key] = len(out)
		out = append(out, dashapi.CellChange{ID: rec.RowID, Column: rec.Column, NewValue: rec.NewValue})
	}
	return out
}

// Save pushes the collapsed changes to the backend. With nothing pending
// it returns immediately without a request. On success the session
// re-baselines: stacks clear and the current rows become the new cancel
// point.
func (e *Editor) Save(ctx context.Context, api *dashapi.Client) (string, error) {
	changes := e.PendingChanges()
	if len(changes) == 0 {
		return "", nil
	}
	msg, err := api.UpdateRows(ctx, e.table.Name, changes)
	if err != nil {
		return "", err
	}
	e.undo = nil
	e.redo = nil
	e.baseline = e.table.snapshotRows()
	return msg, nil
}

// Cancel abandons the session, restoring the baseline rows. With unsaved
// edits the confirm callback gates the restore; returning false keeps the
// session. Cancel reports whether the session ended.
func (e *Editor) Cancel(confirm func() bool) bool {
	if e.Dirty() && confirm != nil && !confirm() {
		return false
	}
	e.table.Rows = e.baseline
	e.baseline = e.table.snapshotRows()
	e.undo = nil
	e.redo = nil
	return true
}
