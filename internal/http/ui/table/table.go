// Package table turns typed records into the generic rows the list
// template renders.
package table

import (
	"time"

	"github.com/target/backoffice-ui/internal/http/uiutil"
)

// Cell is one rendered table cell.
type Cell struct {
	Text string
	// Badge renders Text as a status badge.
	Badge bool
	// Time renders as a <time> element when set.
	Time *time.Time
	// Numeric cells are right aligned.
	Numeric bool
}

// Row is one record.
type Row struct {
	ID    string
	Cells []Cell
	// EditURL and DeleteURL are empty when the viewer cannot manage records.
	EditURL   string
	DeleteURL string
}

// Table is what the list template consumes.
type Table struct {
	Columns []string
	Rows    []Row
}

// Column extracts one cell from a record.
type Column[T any] struct {
	Label string
	Value func(T) Cell
}

// Options controls row links.
type Options[T any] struct {
	// BasePath is the resource path, e.g. "/suppliers".
	BasePath string
	ID       func(T) string
	// Manage adds edit and delete links.
	Manage bool
}

// Build renders items with cols.
func Build[T any](cols []Column[T], items []T, opts Options[T]) Table {
	t := Table{Columns: make([]string, len(cols)), Rows: make([]Row, 0, len(items))}
	for i, c := range cols {
		t.Columns[i] = c.Label
	}
	for _, it := range items {
		row := Row{Cells: make([]Cell, len(cols))}
		for i, c := range cols {
			row.Cells[i] = c.Value(it)
		}
		if opts.ID != nil {
			row.ID = opts.ID(it)
		}
		if opts.Manage && row.ID != "" {
			row.EditURL = opts.BasePath + "/" + row.ID + "/edit"
			row.DeleteURL = opts.BasePath + "/" + row.ID + "/delete"
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Text is a plain cell.
func Text(s string) Cell { return Cell{Text: s} }

// Truncated is a plain cell cut to n runes.
func Truncated(s string, n int) Cell { return Cell{Text: uiutil.TruncateWithEllipsis(s, n)} }

// Number is a right aligned cell.
func Number(s string) Cell { return Cell{Text: s, Numeric: true} }

// Badge renders s as a status badge.
func Badge(s string) Cell { return Cell{Text: s, Badge: true} }

// Active renders an active flag as a badge.
func Active(active bool) Cell {
	if active {
		return Badge("active")
	}
	return Badge("inactive")
}

// Date renders a calendar date; nil renders empty.
func Date(t *time.Time) Cell {
	if t == nil || t.IsZero() {
		return Cell{}
	}
	return Cell{Text: uiutil.FormatFriendlyDate(*t), Time: t}
}
