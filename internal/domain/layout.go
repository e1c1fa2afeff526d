package domain

import (
	"fmt"
	"time"
)

// CellUpdate is one value to write at a 1-based row and column
type CellUpdate struct {
	Row    int
	Column int
	Value  interface{}
}

// BuildUpdates maps a report to the cells of its department's row block.
// The date stamp goes on the start row of the allocated column, each field on
// its row offset, alt fields one column to the right.
func BuildUpdates(r *Report, column int, loc *time.Location) ([]CellUpdate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if column < FirstColumn {
		return nil, fmt.Errorf("column %d is before the first data column %d", column, FirstColumn)
	}

	start := r.Department.StartRow()
	layout := r.Department.Layout()

	updates := make([]CellUpdate, 0, len(layout)+1)
	updates = append(updates, CellUpdate{
		Row:    start,
		Column: column,
		Value:  DateStamp(r.SubmittedAt, loc),
	})

	for _, cell := range layout {
		col := column
		if cell.Alt {
			col = column + 1
		}
		updates = append(updates, CellUpdate{
			Row:    start + cell.RowOffset,
			Column: col,
			Value:  r.Answers[cell.Field].CellValue(),
		})
	}

	return updates, nil
}
