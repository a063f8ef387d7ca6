// Package grid is the data-manager table engine: cell editing with
// undo/redo, sparse saving of only the touched cells, row deletion with
// its follow-up reconciliation, debounced search and CSV/XLSX export.
package grid

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoRowIdentity is returned when an operation needs row ids but the
// table has no id column to key them by.
var ErrNoRowIdentity = errors.New("table has no id column")

// readOnlyColumns are derived by the backend's enrichment pipeline; editing
// them would be overwritten on the next ingest.
var readOnlyColumns = map[string]bool{
	"MONTH":                true,
	"DAY_OF_WEEK":          true,
	"TIME_CLUSTER":         true,
	"YEAR":                 true,
	"DAY":                  true,
	"WEEKDAY":              true,
	"ACCIDENT_HOTSPOT":     true,
	"GENDER_CLUSTER":       true,
	"ALCOHOL_USED_CLUSTER": true,
}

// IsReadOnly reports whether the column is a derived, non-editable one.
// The check is case-insensitive to match header normalisation on upload.
func IsReadOnly(column string) bool {
	return readOnlyColumns[strings.ToUpper(column)]
}

// Table is an in-memory page of a dataset: a header row plus data rows in
// display order. Cell values are kept as strings, the way the backend
// serves them.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string

	// selection is keyed by row id so it survives search filtering and
	// row removal shifting positions.
	selected map[int64]bool
}

// NewTable copies the headers and rows so callers can keep mutating their
// slices.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{Name: name, Headers: append([]string{}, headers...)}
	t.Rows = make([][]string, len(rows))
	for i, r := range rows {
		t.Rows[i] = append([]string{}, r...)
	}
	return t
}

// ColumnIndex returns the position of the named column, case-insensitive,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// idColumn returns the index of the id column, or -1 when the table
// carries no row identity.
func (t *Table) idColumn() int {
	return t.ColumnIndex("id")
}

// RowID returns the numeric id of the row at the given position.
func (t *Table) RowID(row int) (int64, error) {
	idx := t.idColumn()
	if idx < 0 {
		return 0, ErrNoRowIdentity
	}
	if row < 0 || row >= len(t.Rows) {
		return 0, errors.New("row index out of range")
	}
	id, err := strconv.ParseInt(t.Rows[row][idx], 10, 64)
	if err != nil {
		return 0, errors.New("row has a non-numeric id: " + t.Rows[row][idx])
	}
	return id, nil
}

// rowByID returns the position of the row with the given id, or -1.
func (t *Table) rowByID(id int64) int {
	idx := t.idColumn()
	if idx < 0 {
		return -1
	}
	want := strconv.FormatInt(id, 10)
	for i, r := range t.Rows {
		if r[idx] == want {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name).
func (t *Table) Cell(row int, column string) (string, bool) {
	c := t.ColumnIndex(column)
	if c < 0 || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row][c], true
}

// RemoveRows drops the rows with the given ids, preserving order of the
// rest. It returns how many were removed.
func (t *Table) RemoveRows(ids []int64) int {
	idx := t.idColumn()
	if idx < 0 || len(ids) == 0 {
		return 0
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[strconv.FormatInt(id, 10)] = true
	}
	kept := t.Rows[:0]
	removed := 0
	for _, r := range t.Rows {
		if doomed[r[idx]] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.Rows = kept
	for _, id := range ids {
		delete(t.selected, id)
	}
	return removed
}

// SetSelected marks or unmarks the row with the given id.
func (t *Table) SetSelected(id int64, on bool) {
	if t.selected == nil {
		t.selected = make(map[int64]bool)
	}
	if on {
		t.selected[id] = true
	} else {
		delete(t.selected, id)
	}
}

// Selected reports whether the row with the given id is marked.
func (t *Table) Selected(id int64) bool {
	return t.selected[id]
}

// SelectedIDs returns the marked row ids in display order.
func (t *Table) SelectedIDs() []int64 {
	if len(t.selected) == 0 {
		return nil
	}
	var out []int64
	for i := range t.Rows {
		id, err := t.RowID(i)
		if err != nil {
			continue
		}
		if t.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// ClearSelection unmarks every row.
func (t *Table) ClearSelection() {
	t.selected = nil
}

// Visible returns a copy of the table reduced to the rows matching the
// search query, so exports and the view operate on what is on screen.
// Selection marks are not carried over.
func (t *Table) Visible(query string) *Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, i := range t.Search(query) {
		rows = append(rows, t.Rows[i])
	}
	return NewTable(t.Name, t.Headers, rows)
}

// snapshotRows deep-copies the data rows for cancel support.
func (t *Table) snapshotRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = append([]string{}, r...)
	}
	return out
}

// Search returns the positions of rows where any cell contains the query,
// case-insensitive. An empty query matches every row.
func (t *Table) Search(query string) []int {
	if query == "" {
		out := make([]int, len(t.Rows))
		for i := range out {
			out[i] = i
		}
		return out
	}
	q := strings.ToLower(query)
	var out []int
	for i, r := range t.Rows {
		for _, cell := range r {
			if strings.Contains(strings.ToLower(cell), q) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
