package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/types"
)

func seedSQLite(t *testing.T, path string, reports ...*types.Report) {
	t.Helper()
	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	for _, r := range reports {
		require.NoError(t, s.AddSchematic(r.ID, 3, r.Rows))
		require.NoError(t, s.AddReport(r))
		require.NoError(t, s.AddProvenance(r.ID, types.FileProvenance{FilePath: r.ID.Short() + ".txt"}))
	}
}

func TestMerge(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	at := time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)
	shared := sampleReport("1*1", at)
	onlyA := sampleReport("2*2", at)
	onlyB := sampleReport("3*3", at.Add(time.Hour))

	a := filepath.Join(dir, "a.db")
	b := filepath.Join(dir, "b.db")
	seedSQLite(t, a, shared, onlyA)
	seedSQLite(t, b, shared, onlyB)
	dest := filepath.Join(dir, "merged.db")

	// Act
	stats, err := Merge(MergeConfig{SourcePaths: []string{a, b}, DestPath: dest})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourcesProcessed)
	assert.Equal(t, 3, stats.SchematicsMerged)
	assert.Equal(t, 3, stats.ReportsMerged)
	assert.Equal(t, 3, stats.ProvenanceMerged)

	s, err := NewSQLite(dest)
	require.NoError(t, err)
	defer s.Close()

	reports, err := s.GetReports()
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, onlyB.ID, reports[2].ID)

	prov, err := s.GetProvenance(shared.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FileProvenance{FilePath: shared.ID.Short() + ".txt"}, prov)
}

func TestMerge_Validation(t *testing.T) {
	_, err := Merge(MergeConfig{DestPath: "out.db"})
	assert.Error(t, err)

	_, err = Merge(MergeConfig{SourcePaths: []string{"a.db"}})
	assert.Error(t, err)
}
