package store

import (
	"database/sql"
	"fmt"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the SQLite database files to merge from.
	SourcePaths []string
	// DestPath is the destination SQLite database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	SchematicsMerged int
	ReportsMerged    int
	ProvenanceMerged int
	SourcesProcessed int
}

// mergeTables lists, in foreign-key order, the tables copied by Merge.
var mergeTables = []struct {
	name    string
	columns string
	count   func(*MergeStats) *int
}{
	{"schematics", "id, size, row_count", func(s *MergeStats) *int { return &s.SchematicsMerged }},
	{"reports", "schematic_id, row_count, span_count, part_number_sum, gear_ratio_sum, parts_json, gears_json, analyzed_at",
		func(s *MergeStats) *int { return &s.ReportsMerged }},
	{"provenance", "schematic_id, type, path, repo_path, commit_hash", func(s *MergeStats) *int { return &s.ProvenanceMerged }},
}

// Merge combines multiple SQLite stores into one.
// Deduplication is handled via INSERT OR IGNORE on primary and unique keys.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	dest, err := NewSQLite(cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer dest.Close()

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		if err := mergeFrom(dest.db, sourcePath, stats); err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesProcessed++
	}
	return stats, nil
}

// mergeFrom attaches the source database and copies every table in one
// transaction.
func mergeFrom(dest *sql.DB, sourcePath string, stats *MergeStats) error {
	if _, err := dest.Exec("ATTACH DATABASE ? AS src", sourcePath); err != nil {
		return fmt.Errorf("attaching source database: %w", err)
	}
	defer dest.Exec("DETACH DATABASE src")

	tx, err := dest.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range mergeTables {
		result, err := tx.Exec(fmt.Sprintf(
			"INSERT OR IGNORE INTO main.%[1]s (%[2]s) SELECT %[2]s FROM src.%[1]s", t.name, t.columns))
		if err != nil {
			return fmt.Errorf("merging %s: %w", t.name, err)
		}
		affected, _ := result.RowsAffected()
		*t.count(stats) += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
