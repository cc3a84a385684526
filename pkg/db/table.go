package db

import (
	"context"
	"math"
)

// Table is an immutable, fully materialized result set. Rows keep the order
// they were read in.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`

	index map[string]int
}

// Source loads a named dataset into a Table.
type Source interface {
	Load(ctx context.Context, name string) (*Table, error)
	Close() error
}

func NewTable(columns []string, rows [][]any) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		t.index[col] = i
	}
}

// ColumnIndex returns the position of column, or false if the table has no
// such column.
func (t *Table) ColumnIndex(column string) (int, bool) {
	if t.index == nil {
		for i, col := range t.Columns {
			if col == column {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := t.index[column]
	return i, ok
}

func (t *Table) HasColumn(column string) bool {
	_, ok := t.ColumnIndex(column)
	return ok
}

// Value returns the cell at row for column. Missing columns yield nil.
func (t *Table) Value(row []any, column string) any {
	i, ok := t.ColumnIndex(column)
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Object renders row as a column-keyed map.
func (t *Table) Object(row []any) map[string]any {
	obj := make(map[string]any, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(row) {
			obj[col] = row[i]
		} else {
			obj[col] = nil
		}
	}
	return obj
}

// normalizeValue converts driver values into JSON-safe values.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
	}
	return v
}
