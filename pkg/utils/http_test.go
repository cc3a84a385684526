package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/data/programs.csv"))
	assert.True(t, IsURL("http://localhost:8080/x.csv"))
	assert.False(t, IsURL("./data/programs.csv"))
	assert.False(t, IsURL("/srv/data/programs.csv"))
	assert.False(t, IsURL("file:///srv/data/programs.csv"))
}

func TestLocalCopy_Path(t *testing.T) {
	path, cleanup, err := LocalCopy(context.Background(), "./data/programs.csv", t.TempDir())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "./data/programs.csv", path)
}

func TestLocalCopy_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("SPORT\nGolf\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, cleanup, err := LocalCopy(context.Background(), srv.URL+"/exports/programs.csv", dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-programs.csv"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SPORT\nGolf\n", string(content))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalCopy_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := LocalCopy(context.Background(), srv.URL+"/missing.csv", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
