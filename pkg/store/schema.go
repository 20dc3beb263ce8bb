package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// schemaTables are created in order; each statement is idempotent. The
// statements are plain SQL accepted by both SQLite and PostgreSQL.
var schemaTables = []struct {
	name string
	ddl  string
}{
	{"schema_version", `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`},
	{"schematics", `
		CREATE TABLE IF NOT EXISTS schematics (
			id TEXT PRIMARY KEY NOT NULL,
			size BIGINT NOT NULL,
			row_count INTEGER NOT NULL
		)`},
	{"reports", `
		CREATE TABLE IF NOT EXISTS reports (
			schematic_id TEXT PRIMARY KEY NOT NULL REFERENCES schematics(id),
			row_count INTEGER NOT NULL,
			span_count INTEGER NOT NULL,
			part_number_sum TEXT NOT NULL,
			gear_ratio_sum TEXT NOT NULL,
			parts_json TEXT NOT NULL,
			gears_json TEXT NOT NULL,
			analyzed_at TEXT NOT NULL
		)`},
	{"provenance", `
		CREATE TABLE IF NOT EXISTS provenance (
			schematic_id TEXT NOT NULL REFERENCES schematics(id),
			type TEXT NOT NULL,
			path TEXT NOT NULL DEFAULT '',
			repo_path TEXT NOT NULL DEFAULT '',
			commit_hash TEXT NOT NULL DEFAULT '',
			UNIQUE(schematic_id, type, path, repo_path, commit_hash)
		)`},
	{"idx_provenance_schematic_id", `
		CREATE INDEX IF NOT EXISTS idx_provenance_schematic_id ON provenance(schematic_id)`},
}

// CreateSchema creates the SQLite schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	for _, t := range schemaTables {
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("creating %s: %w", t.name, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("reading schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("writing schema_version: %w", err)
		}
	}
	return nil
}
