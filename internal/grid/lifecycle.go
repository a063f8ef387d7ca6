package grid

import (
	"context"
	"errors"

	"github.com/rtaverse/dashboard/internal/dashapi"
)

// Outcome tells the caller what to do with the view after a delete.
type Outcome int

const (
	// OutcomeNone: rows remain, keep the current view.
	OutcomeNone Outcome = iota
	// OutcomeReload: the filtered page emptied but the dataset may still
	// hold rows outside the filter; refetch before concluding anything.
	OutcomeReload
	// OutcomeTeardown: the unfiltered table is empty, the dataset is gone;
	// charts and the grid should reset to their empty states.
	OutcomeTeardown
)

// DeleteRows removes the rows on the backend first and mirrors the
// deletion locally only when that succeeds. filtered says whether the
// table currently shows a filtered subset, which decides the empty-table
// outcome.
func DeleteRows(ctx context.Context, api *dashapi.Client, table *Table, ids []int64, filtered bool) (Outcome, string, error) {
	if len(ids) == 0 {
		return OutcomeNone, "", errors.New("no rows selected")
	}
	if table.idColumn() < 0 {
		return OutcomeNone, "", ErrNoRowIdentity
	}

	msg, err := api.DeleteRows(ctx, table.Name, ids)
	if err != nil {
		return OutcomeNone, "", err
	}
	table.RemoveRows(ids)

	if len(table.Rows) > 0 {
		return OutcomeNone, msg, nil
	}
	if filtered {
		return OutcomeReload, msg, nil
	}
	return OutcomeTeardown, msg, nil
}

// DeleteSelected removes every marked row. It refuses to do anything when
// the selection is empty so a stray click cannot wipe rows.
func DeleteSelected(ctx context.Context, api *dashapi.Client, table *Table, filtered bool) (Outcome, string, error) {
	ids := table.SelectedIDs()
	if len(ids) == 0 {
		return OutcomeNone, "", errors.New("no rows selected")
	}
	return DeleteRows(ctx, api, table, ids, filtered)
}

// DeleteRow is the single-row form used by the per-row delete button.
func DeleteRow(ctx context.Context, api *dashapi.Client, table *Table, id int64, filtered bool) (Outcome, string, error) {
	return DeleteRows(ctx, api, table, []int64{id}, filtered)
}
