package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programsCSV = `CTPRVN_NM,SPORT,FCLTY_NM,morning,Mon,child
Seoul,Swimming,Mapo Pool,True,True,False
Busan,Tennis,,False,True,True
Seoul,Yoga,Jamsil Hall,True,False,True
`

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSource_Load(t *testing.T) {
	path := writeCSV(t, "program_sports.csv", programsCSV)

	src, err := NewCSVSource(map[string]string{"programs": path})
	require.NoError(t, err)
	defer src.Close()

	table, err := src.Load(context.Background(), "programs")
	require.NoError(t, err)

	assert.Equal(t, []string{"CTPRVN_NM", "SPORT", "FCLTY_NM", "morning", "Mon", "child"}, table.Columns)
	require.Equal(t, 3, table.Len())

	first := table.Rows[0]
	assert.Equal(t, "Seoul", table.Value(first, "CTPRVN_NM"))
	assert.Equal(t, "Mapo Pool", table.Value(first, "FCLTY_NM"))
	assert.Equal(t, true, table.Value(first, "morning"))
	assert.Equal(t, false, table.Value(first, "child"))

	// empty cells come back as NULL
	assert.Nil(t, table.Value(table.Rows[1], "FCLTY_NM"))

	// file order is kept
	assert.Equal(t, "Jamsil Hall", table.Value(table.Rows[2], "FCLTY_NM"))
}

func TestCSVSource_NumericColumns(t *testing.T) {
	path := writeCSV(t, "facilities.csv", "FCLTY_NM,FCLTY_LA,FCLTY_LO\nMapo Pool,37.55,126.91\nNowhere,,\n")

	src, err := NewCSVSource(map[string]string{"facilities": path})
	require.NoError(t, err)
	defer src.Close()

	table, err := src.Load(context.Background(), "facilities")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, 37.55, table.Value(table.Rows[0], "FCLTY_LA"))
	assert.Nil(t, table.Value(table.Rows[1], "FCLTY_LA"))
}

func TestCSVSource_MissingFile(t *testing.T) {
	src, err := NewCSVSource(map[string]string{"programs": filepath.Join(t.TempDir(), "nope.csv")})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(context.Background(), "programs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCSVSource_UnknownDataset(t *testing.T) {
	src, err := NewCSVSource(nil)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(context.Background(), "programs")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVSource_PathWithQuote(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "o'brien")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "programs.csv")
	require.NoError(t, os.WriteFile(path, []byte(programsCSV), 0o644))

	src, err := NewCSVSource(nil)
	require.NoError(t, err)
	defer src.Close()

	table, err := src.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

type countingCache struct {
	entries map[string]*Table
	modTime map[string]time.Time
	sets    int
	drops   int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string]*Table{}, modTime: map[string]time.Time{}}
}

func (c *countingCache) Get(_ context.Context, key string, modTime time.Time) (*Table, bool) {
	t, ok := c.entries[key]
	if !ok || !c.modTime[key].Equal(modTime) {
		return nil, false
	}
	return t, true
}

func (c *countingCache) Set(_ context.Context, key string, modTime time.Time, t *Table) {
	c.sets++
	c.entries[key] = t
	c.modTime[key] = modTime
}

func (c *countingCache) Invalidate(_ context.Context, key string) {
	c.drops++
	delete(c.entries, key)
}

func (c *countingCache) Close() error { return nil }

func TestCachedSource_ReloadsOnModification(t *testing.T) {
	ctx := context.Background()
	path := writeCSV(t, "programs.csv", programsCSV)

	csvSource, err := NewCSVSource(map[string]string{"programs": path})
	require.NoError(t, err)

	c := newCountingCache()
	src := NewCachedSource(csvSource, c)
	defer src.Close()

	first, err := src.Load(ctx, "programs")
	require.NoError(t, err)
	second, err := src.Load(ctx, "programs")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.sets)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.WriteFile(path, []byte(programsCSV+"Daegu,Judo,Dojo,False,False,False\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := src.Load(ctx, "programs")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 4, third.Len())
	assert.Equal(t, 2, c.sets)
}

func TestCachedSource_MissingFileInvalidates(t *testing.T) {
	ctx := context.Background()
	path := writeCSV(t, "programs.csv", programsCSV)

	csvSource, err := NewCSVSource(map[string]string{"programs": path})
	require.NoError(t, err)

	c := newCountingCache()
	src := NewCachedSource(csvSource, c)
	defer src.Close()

	_, err = src.Load(ctx, "programs")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	_, err = src.Load(ctx, "programs")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, c.drops)
}
