package service

import (
	"math"
	"strings"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// Program table columns with fixed meaning.
const (
	ColumnRegion   = "CTPRVN_NM"
	ColumnSport    = "SPORT"
	ColumnFacility = "FCLTY_NM"
)

// Targets lists the audience columns the target filter may select.
var Targets = []string{"child", "teen", "adult", "senior", "disorder"}

var reservedColumns = map[string]struct{}{
	ColumnRegion:   {},
	ColumnSport:    {},
	ColumnFacility: {},
}

func isTarget(v string) bool {
	for _, t := range Targets {
		if t == v {
			return true
		}
	}
	return false
}

// predicate reports whether row is kept.
type predicate func(t *db.Table, row []any) bool

func filterRows(t *db.Table, rows [][]any, keep predicate) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		if keep(t, row) {
			out = append(out, row)
		}
	}
	return out
}

func equals(column, want string) predicate {
	return func(t *db.Table, row []any) bool {
		s, ok := t.Value(row, column).(string)
		return ok && s == want
	}
}

func isTrue(column string) predicate {
	return func(t *db.Table, row []any) bool {
		return truthy(t.Value(row, column))
	}
}

func allTrue(columns []string) predicate {
	return func(t *db.Table, row []any) bool {
		for _, col := range columns {
			if !truthy(t.Value(row, col)) {
				return false
			}
		}
		return true
	}
}

// containsFold matches rows where any of columns contains needle under
// Unicode case folding. NULL cells never match.
func containsFold(needle string, columns ...string) predicate {
	folder := cases.Fold()
	needle = folder.String(needle)
	return func(t *db.Table, row []any) bool {
		for _, col := range columns {
			s, ok := t.Value(row, col).(string)
			if !ok {
				continue
			}
			if strings.Contains(folder.String(s), needle) {
				return true
			}
		}
		return false
	}
}

// truthy is the boolean-column test. Mirrored tables store booleans as text,
// DuckDB returns them as bool.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return !math.IsNaN(val) && val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case int:
		return val != 0
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return false
		}
		v = val
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// paginate returns the [start, end) window of rows for page and limit.
// Pages past the end are empty; the bounds check runs before any
// multiplication so huge page or limit values cannot overflow.
func paginate(rows [][]any, page, limit int) [][]any {
	if page < 1 || limit < 1 || page-1 >= TotalPages(len(rows), limit) {
		return nil
	}
	start := (page - 1) * limit
	end := len(rows)
	if end-start > limit {
		end = start + limit
	}
	return rows[start:end]
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
