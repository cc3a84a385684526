package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var datasetNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Import describes one dataset copy into the mirror database.
type Import struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Source     string    `json:"source" db:"source"`
	Rows       int       `json:"rows" db:"rows"`
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`
}

// Mirror is a libsql (Turso) database holding persisted copies of the
// datasets. It doubles as a Source.
type Mirror struct {
	tursoConn *sql.DB
}

func NewMirror(dbURL string) (*Mirror, error) {
	conn, err := sql.Open("libsql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetConnMaxIdleTime(9 * time.Second)

	return newMirror(conn)
}

func newMirror(conn *sql.DB) (*Mirror, error) {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS dataset_import (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			rows INTEGER NOT NULL,
			imported_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create dataset_import: %w", err)
	}

	return &Mirror{tursoConn: conn}, nil
}

func (m *Mirror) Close() error {
	return m.tursoConn.Close()
}

// Load reads the mirrored table in insertion order.
func (m *Mirror) Load(ctx context.Context, name string) (*Table, error) {
	if !datasetNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}

	rows, err := m.tursoConn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", name))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	return scanTable(rows)
}

// LastImport returns the most recent import record for name. The error wraps
// sql.ErrNoRows when name was never imported.
func (m *Mirror) LastImport(ctx context.Context, name string) (*Import, error) {
	var imp Import
	err := m.tursoConn.QueryRowContext(ctx, `
		SELECT id, name, source, rows, imported_at
		FROM dataset_import
		WHERE name = ?
		ORDER BY imported_at DESC
		LIMIT 1
	`, name).Scan(&imp.ID, &imp.Name, &imp.Source, &imp.Rows, &imp.ImportedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get import for %s: %w", name, err)
	}
	return &imp, nil
}

// Persist replaces table name with the contents of t. All columns are stored
// as TEXT; NULLs stay NULL.
func (m *Mirror) Persist(ctx context.Context, name, source string, t *Table) (imp *Import, err error) {
	if !datasetNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("table for %s has no columns", name)
	}

	tx, err := m.tursoConn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
		return nil, fmt.Errorf("failed to drop %s: %w", name, err)
	}

	columnList := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		columnList[i] = fmt.Sprintf("\"%s\"", strings.ReplaceAll(col, "\"", ""))
		placeholders[i] = "?"
	}

	createTableSQL := fmt.Sprintf("CREATE TABLE %s (%s TEXT)", name, strings.Join(columnList, " TEXT, "))
	if _, err = tx.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", name, err)
	}

	insertStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(columnList, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer insertStmt.Close()

	for _, row := range t.Rows {
		stringValues := make([]any, len(t.Columns))
		for i := range t.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			if v == nil {
				continue
			}
			stringValues[i] = fmt.Sprintf("%v", v)
		}

		if _, err = insertStmt.ExecContext(ctx, stringValues...); err != nil {
			return nil, fmt.Errorf("failed to insert data: %w", err)
		}
	}

	imp = &Import{
		ID:         uuid.New().String(),
		Name:       name,
		Source:     source,
		Rows:       len(t.Rows),
		ImportedAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dataset_import (id, name, source, rows, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, imp.ID, imp.Name, imp.Source, imp.Rows, imp.ImportedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return imp, nil
}
