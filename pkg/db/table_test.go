package db

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ValueAndObject(t *testing.T) {
	table := NewTable([]string{"SPORT", "FCLTY_NM"}, [][]any{
		{"Golf", "Range"},
		{"Tennis"},
	})

	assert.True(t, table.HasColumn("SPORT"))
	assert.False(t, table.HasColumn("sport"))
	assert.Equal(t, 2, table.Len())

	assert.Equal(t, "Golf", table.Value(table.Rows[0], "SPORT"))
	assert.Nil(t, table.Value(table.Rows[0], "MISSING"))
	assert.Nil(t, table.Value(table.Rows[1], "FCLTY_NM"))

	assert.Equal(t, map[string]any{"SPORT": "Tennis", "FCLTY_NM": nil}, table.Object(table.Rows[1]))
}

func TestTable_ColumnIndexWithoutIndex(t *testing.T) {
	var table Table
	require.NoError(t, json.Unmarshal([]byte(`{"columns":["a","b"],"rows":[[1,2]]}`), &table))

	i, ok := table.ColumnIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = table.ColumnIndex("c")
	assert.False(t, ok)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "bytes", normalizeValue([]byte("bytes")))
	assert.Nil(t, normalizeValue(math.NaN()))
	assert.Nil(t, normalizeValue(math.Inf(1)))
	assert.Nil(t, normalizeValue(float32(math.NaN())))
	assert.Equal(t, 1.5, normalizeValue(1.5))
	assert.Equal(t, true, normalizeValue(true))
	assert.Nil(t, normalizeValue(nil))
}
