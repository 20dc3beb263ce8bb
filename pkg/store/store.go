package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store provides persistence for analysis results.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (memory, SQLite, PostgreSQL).
type Store interface {
	// AddSchematic records a schematic by content ID (idempotent).
	AddSchematic(id types.SchematicID, size int64, rows int) error

	// AddProvenance records where a schematic was read from.
	AddProvenance(id types.SchematicID, prov types.Provenance) error

	// AddReport stores the analysis of a schematic. A second report for the
	// same schematic is ignored.
	AddReport(r *types.Report) error

	// GetReport returns the report for id, or ErrNotFound.
	GetReport(id types.SchematicID) (*types.Report, error)

	// GetReports returns every stored report, oldest first.
	GetReports() ([]*types.Report, error)

	// GetProvenance returns a recorded provenance for id, or ErrNotFound.
	// Memory and SQLite return the earliest one.
	GetProvenance(id types.SchematicID) (types.Provenance, error)

	// SchematicExists checks if a schematic has already been analysed.
	SchematicExists(id types.SchematicID) (bool, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path selects the backend:
	//   ":memory:"                     in-process MemoryStore
	//   "postgres://..." or "postgresql://..."  PostgreSQL
	//   anything else                  SQLite database file
	Path string
}

// MemoryPath is the Config.Path for an in-memory store.
const MemoryPath = ":memory:"

// New creates a Store for cfg.Path.
func New(cfg Config) (Store, error) {
	switch {
	case cfg.Path == "":
		return nil, fmt.Errorf("path is required")
	case cfg.Path == MemoryPath:
		return NewMemory(), nil
	case IsPostgresURL(cfg.Path):
		return NewPostgres(cfg.Path)
	default:
		return NewSQLite(cfg.Path)
	}
}

// IsPostgresURL reports whether path is a PostgreSQL connection URL.
func IsPostgresURL(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}
