package export

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"

	_ "modernc.org/sqlite"
)

// TableName is the SQLite table holding exported records.
const TableName = "records"

// SQLiteExporter writes a SQLite database file with one TEXT column per
// schema column.
type SQLiteExporter struct {
	// TempDir holds the database while it is built; empty uses os.TempDir.
	TempDir string
}

// NewSQLiteExporter creates a SQLite exporter.
func NewSQLiteExporter() *SQLiteExporter {
	return &SQLiteExporter{}
}

func (e *SQLiteExporter) ContentType() string { return "application/vnd.sqlite3" }
func (e *SQLiteExporter) Extension() string   { return "sqlite" }

// Export builds the database in a temporary file and copies it to w.
func (e *SQLiteExporter) Export(w io.Writer, table domain.Table) error {
	if table.Width() == 0 {
		return fmt.Errorf("sqlite export: %w", ErrNoColumns)
	}

	dir, err := os.MkdirTemp(e.TempDir, "cra-export-*")
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "records.sqlite")
	if err := writeDatabase(context.Background(), path, table); err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	return nil
}

func writeDatabase(ctx context.Context, path string, table domain.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	names := table.Schema.Names()
	columns := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		columns[i] = quoteIdent(name) + " TEXT"
		placeholders[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(TableName), strings.Join(columns, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(TableName), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(names))
	for i, row := range table.Rows {
		for j, cell := range row {
			args[j] = cell
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
