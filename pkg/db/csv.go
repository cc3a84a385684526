package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// CSVSource reads datasets from delimited text files through an in-memory
// DuckDB connection. Every Load parses the file again.
type CSVSource struct {
	duckConn *sql.DB
	files    map[string]string
}

func NewCSVSource(files map[string]string) (*CSVSource, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	return &CSVSource{
		duckConn: conn,
		files:    files,
	}, nil
}

// Path returns the file backing dataset name.
func (s *CSVSource) Path(name string) (string, error) {
	path, ok := s.files[name]
	if !ok {
		return "", fmt.Errorf("dataset %q is not configured: %w", name, os.ErrNotExist)
	}
	return path, nil
}

func (s *CSVSource) Load(ctx context.Context, name string) (*Table, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	return s.LoadFile(ctx, path)
}

// LoadFile parses the CSV at path with header detection enabled.
func (s *CSVSource) LoadFile(ctx context.Context, path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	query := fmt.Sprintf("SELECT * FROM read_csv_auto('%s', header=true, auto_detect=true)",
		strings.ReplaceAll(absPath, "'", "''"))

	rows, err := s.duckConn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV into DuckDB: %w", err)
	}
	defer rows.Close()

	return scanTable(rows)
}

func (s *CSVSource) Close() error {
	return s.duckConn.Close()
}

// scanTable drains rows into a Table.
func scanTable(rows *sql.Rows) (*Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var data [][]any

	for rows.Next() {
		values := make([]any, len(columns))

		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, v := range values {
			values[i] = normalizeValue(v)
		}

		data = append(data, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return NewTable(columns, data), nil
}
