// Package warehouse publishes the derived summary tables to a DuckDB
// database so downstream tools can query them with SQL. Tables are replaced
// wholesale on every publish; derived tables are recomputed from scratch per
// filter change, so there is nothing to merge incrementally.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Warehouse wraps a DuckDB database holding the published summary tables.
type Warehouse struct {
	log *slog.Logger
	db  *sql.DB
}

// Open opens (creating if needed) a DuckDB database at path. An empty path
// opens an in-memory database, which is what the tests use.
func Open(ctx context.Context, log *slog.Logger, path string) (*Warehouse, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for warehouse: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
		}
		path = abs
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Warehouse{log: log, db: db}, nil
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

// QueryContext runs a read query against the published tables.
func (w *Warehouse) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return w.db.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row read query against the published tables.
func (w *Warehouse) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return w.db.QueryRowContext(ctx, query, args...)
}
