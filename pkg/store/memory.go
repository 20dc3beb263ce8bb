package store

import (
	"sort"
	"sync"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// schematicRecord stores schematic metadata.
type schematicRecord struct {
	size int64
	rows int
}

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu         sync.RWMutex
	schematics map[types.SchematicID]schematicRecord
	reports    map[types.SchematicID]*types.Report
	order      []types.SchematicID // report insertion order
	provenance map[types.SchematicID][]types.Provenance
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		schematics: make(map[types.SchematicID]schematicRecord),
		reports:    make(map[types.SchematicID]*types.Report),
		provenance: make(map[types.SchematicID][]types.Provenance),
	}
}

// AddSchematic records a schematic.
func (m *MemoryStore) AddSchematic(id types.SchematicID, size int64, rows int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.schematics[id]; exists {
		return nil
	}
	m.schematics[id] = schematicRecord{size: size, rows: rows}
	return nil
}

// AddProvenance records a provenance, ignoring exact duplicates.
func (m *MemoryStore) AddProvenance(id types.SchematicID, prov types.Provenance) error {
	want, err := encodeProvenance(prov)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.provenance[id] {
		if have, _ := encodeProvenance(existing); have == want {
			return nil
		}
	}
	m.provenance[id] = append(m.provenance[id], prov)
	return nil
}

// AddReport stores a report unless one exists for the schematic.
func (m *MemoryStore) AddReport(r *types.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reports[r.ID]; exists {
		return nil
	}
	m.reports[r.ID] = r
	m.order = append(m.order, r.ID)
	return nil
}

// GetReport returns the report for id.
func (m *MemoryStore) GetReport(id types.SchematicID) (*types.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// GetReports returns reports ordered by analysis time, then insertion.
func (m *MemoryStore) GetReports() ([]*types.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]*types.Report, 0, len(m.order))
	for _, id := range m.order {
		reports = append(reports, m.reports[id])
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].AnalyzedAt.Before(reports[j].AnalyzedAt)
	})
	return reports, nil
}

// GetProvenance returns the first provenance recorded for id.
func (m *MemoryStore) GetProvenance(id types.SchematicID) (types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provs := m.provenance[id]
	if len(provs) == 0 {
		return nil, ErrNotFound
	}
	return provs[0], nil
}

// SchematicExists checks if a schematic has been recorded.
func (m *MemoryStore) SchematicExists(id types.SchematicID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.schematics[id]
	return ok, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
