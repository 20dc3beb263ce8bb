package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// sqliteDriver is the database/sql driver name registered by modernc.org/sqlite.
const sqliteDriver = "sqlite"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one connection: writers are serialized and ":memory:" stays a single database
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddSchematic records a schematic.
func (s *SQLiteStore) AddSchematic(id types.SchematicID, size int64, rows int) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO schematics (id, size, row_count) VALUES (?, ?, ?)", id.Hex(), size, rows)
	if err != nil {
		return fmt.Errorf("inserting schematic: %w", err)
	}
	return nil
}

// AddProvenance associates provenance with a schematic.
func (s *SQLiteStore) AddProvenance(id types.SchematicID, prov types.Provenance) error {
	row, err := encodeProvenance(prov)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO provenance (schematic_id, type, path, repo_path, commit_hash)
		VALUES (?, ?, ?, ?, ?)
	`, id.Hex(), row.kind, row.path, row.repoPath, row.commitHash)
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

// AddReport stores a report.
func (s *SQLiteStore) AddReport(r *types.Report) error {
	row, err := encodeReport(r)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO reports
		(schematic_id, row_count, span_count, part_number_sum, gear_ratio_sum, parts_json, gears_json, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, row.id, row.rows, row.spans, row.partNumberSum, row.gearRatioSum, row.partsJSON, row.gearsJSON, row.analyzedAt)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

const selectReports = `
	SELECT schematic_id, row_count, span_count, part_number_sum, gear_ratio_sum, parts_json, gears_json, analyzed_at
	FROM reports`

// GetReport returns the report for id.
func (s *SQLiteStore) GetReport(id types.SchematicID) (*types.Report, error) {
	var row reportRow
	err := s.db.QueryRow(selectReports+" WHERE schematic_id = ?", id.Hex()).Scan(
		&row.id, &row.rows, &row.spans, &row.partNumberSum, &row.gearRatioSum,
		&row.partsJSON, &row.gearsJSON, &row.analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}
	return row.decode()
}

// GetReports returns every report, oldest first.
func (s *SQLiteStore) GetReports() ([]*types.Report, error) {
	rows, err := s.db.Query(selectReports + " ORDER BY analyzed_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []*types.Report
	for rows.Next() {
		var row reportRow
		if err := rows.Scan(&row.id, &row.rows, &row.spans, &row.partNumberSum, &row.gearRatioSum,
			&row.partsJSON, &row.gearsJSON, &row.analyzedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r, err := row.decode()
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

// GetProvenance returns the first provenance recorded for id.
func (s *SQLiteStore) GetProvenance(id types.SchematicID) (types.Provenance, error) {
	var row provenanceRow
	err := s.db.QueryRow(`
		SELECT type, path, repo_path, commit_hash FROM provenance
		WHERE schematic_id = ? ORDER BY rowid LIMIT 1
	`, id.Hex()).Scan(&row.kind, &row.path, &row.repoPath, &row.commitHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	return row.decode()
}

// SchematicExists checks if a schematic has been recorded.
func (s *SQLiteStore) SchematicExists(id types.SchematicID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM schematics WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking schematic existence: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
