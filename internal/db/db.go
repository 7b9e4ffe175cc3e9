package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/glebarez/go-sqlite"
)

// DriverName is the database/sql name of the pure Go sqlite driver.
const DriverName = "sqlite"

const (
	createSettingsTableSQL = `
CREATE TABLE IF NOT EXISTS settings_tab (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	setting_key VARCHAR(128) NOT NULL,
	setting_value VARCHAR(4096) NOT NULL,
	create_time BIGINT NOT NULL,
	update_time BIGINT NOT NULL
);`

	createSettingsIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_settings_tab_key
ON settings_tab(setting_key);`
)

// QueryExecer is the part of *sql.DB and *sql.Tx the DAOs use.
type QueryExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Open opens (creating if needed) the sqlite file at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("open settings db: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure settings db dir %s: %w", path, err)
	}
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open settings db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema initialises required tables and indexes.
func EnsureSchema(ctx context.Context, db QueryExecer) error {
	if _, err := db.ExecContext(ctx, createSettingsTableSQL); err != nil {
		return fmt.Errorf("create settings table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSettingsIndexSQL); err != nil {
		return fmt.Errorf("create settings index: %w", err)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
