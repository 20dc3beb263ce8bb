package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// postgresTimeout bounds every statement issued by PostgresStore.
const postgresTimeout = 30 * time.Second

// PostgresStore implements Store on PostgreSQL, for sharing results between
// machines.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to url and creates the schema.
func NewPostgres(url string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	for _, t := range schemaTables {
		if _, err := s.pool.Exec(ctx, t.ddl); err != nil {
			return fmt.Errorf("creating %s: %w", t.name, err)
		}
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("reading schema_version: %w", err)
	}
	if count == 0 {
		if _, err := s.pool.Exec(ctx, "INSERT INTO schema_version (version) VALUES ($1)", SchemaVersion); err != nil {
			return fmt.Errorf("writing schema_version: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), postgresTimeout)
}

// AddSchematic records a schematic.
func (s *PostgresStore) AddSchematic(id types.SchematicID, size int64, rows int) error {
	ctx, cancel := s.context()
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO schematics (id, size, row_count) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id.Hex(), size, rows)
	if err != nil {
		return fmt.Errorf("inserting schematic: %w", err)
	}
	return nil
}

// AddProvenance associates provenance with a schematic.
func (s *PostgresStore) AddProvenance(id types.SchematicID, prov types.Provenance) error {
	row, err := encodeProvenance(prov)
	if err != nil {
		return err
	}

	ctx, cancel := s.context()
	defer cancel()

	_, err = s.pool.Exec(ctx, `
		INSERT INTO provenance (schematic_id, type, path, repo_path, commit_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, id.Hex(), row.kind, row.path, row.repoPath, row.commitHash)
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

// AddReport stores a report.
func (s *PostgresStore) AddReport(r *types.Report) error {
	row, err := encodeReport(r)
	if err != nil {
		return err
	}

	ctx, cancel := s.context()
	defer cancel()

	_, err = s.pool.Exec(ctx, `
		INSERT INTO reports
		(schematic_id, row_count, span_count, part_number_sum, gear_ratio_sum, parts_json, gears_json, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (schematic_id) DO NOTHING
	`, row.id, row.rows, row.spans, row.partNumberSum, row.gearRatioSum, row.partsJSON, row.gearsJSON, row.analyzedAt)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func scanReport(row pgx.Row) (*types.Report, error) {
	var r reportRow
	if err := row.Scan(&r.id, &r.rows, &r.spans, &r.partNumberSum, &r.gearRatioSum,
		&r.partsJSON, &r.gearsJSON, &r.analyzedAt); err != nil {
		return nil, err
	}
	return r.decode()
}

// GetReport returns the report for id.
func (s *PostgresStore) GetReport(id types.SchematicID) (*types.Report, error) {
	ctx, cancel := s.context()
	defer cancel()

	r, err := scanReport(s.pool.QueryRow(ctx, selectReports+" WHERE schematic_id = $1", id.Hex()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}
	return r, nil
}

// GetReports returns every report, oldest first.
func (s *PostgresStore) GetReports() ([]*types.Report, error) {
	ctx, cancel := s.context()
	defer cancel()

	rows, err := s.pool.Query(ctx, selectReports+" ORDER BY analyzed_at, schematic_id")
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []*types.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

// GetProvenance returns the provenance with the lowest path for id.
func (s *PostgresStore) GetProvenance(id types.SchematicID) (types.Provenance, error) {
	ctx, cancel := s.context()
	defer cancel()

	var row provenanceRow
	err := s.pool.QueryRow(ctx, `
		SELECT type, path, repo_path, commit_hash FROM provenance
		WHERE schematic_id = $1 ORDER BY path LIMIT 1
	`, id.Hex()).Scan(&row.kind, &row.path, &row.repoPath, &row.commitHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	return row.decode()
}

// SchematicExists checks if a schematic has been recorded.
func (s *PostgresStore) SchematicExists(id types.SchematicID) (bool, error) {
	ctx, cancel := s.context()
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schematics WHERE id = $1)", id.Hex()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking schematic existence: %w", err)
	}
	return exists, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
