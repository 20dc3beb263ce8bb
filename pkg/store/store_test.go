package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/types"
)

func sampleReport(content string, at time.Time) *types.Report {
	return &types.Report{
		ID:            types.ComputeSchematicID([]byte(content)),
		Rows:          3,
		Spans:         7,
		PartNumberSum: 18446744073709551615,
		GearRatioSum:  16345,
		Parts: []types.PartNumber{
			{Ref: types.SpanRef{Row: 0, Column: 0}, Value: 467, Width: 3},
			{Ref: types.SpanRef{Row: 2, Column: 2}, Value: 35, Width: 2},
		},
		Gears: []types.Gear{{
			Ref:     types.SpanRef{Row: 1, Column: 3},
			Numbers: [2]types.SpanRef{{Row: 0, Column: 0}, {Row: 2, Column: 2}},
			Values:  [2]uint64{467, 35},
			Ratio:   16345,
		}},
		AnalyzedAt: at,
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, open func(t *testing.T) Store) {
	t.Run("report round trip", func(t *testing.T) {
		s := open(t)
		want := sampleReport("467..\n...*.\n..35.", time.Date(2024, 12, 3, 10, 0, 0, 123456789, time.UTC))

		require.NoError(t, s.AddSchematic(want.ID, 16, 3))
		require.NoError(t, s.AddReport(want))

		got, err := s.GetReport(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing report", func(t *testing.T) {
		s := open(t)

		_, err := s.GetReport(types.ComputeSchematicID([]byte("absent")))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetProvenance(types.ComputeSchematicID([]byte("absent")))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("second report ignored", func(t *testing.T) {
		s := open(t)
		first := sampleReport("1*1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		second := sampleReport("1*1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
		second.PartNumberSum = 2

		require.NoError(t, s.AddSchematic(first.ID, 3, 1))
		require.NoError(t, s.AddReport(first))
		require.NoError(t, s.AddReport(second))

		got, err := s.GetReport(first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.PartNumberSum, got.PartNumberSum)
	})

	t.Run("reports oldest first", func(t *testing.T) {
		s := open(t)
		newer := sampleReport("2*2", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		older := sampleReport("3*3", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		for _, r := range []*types.Report{newer, older} {
			require.NoError(t, s.AddSchematic(r.ID, 3, 1))
			require.NoError(t, s.AddReport(r))
		}

		got, err := s.GetReports()
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, older.ID, got[0].ID)
		assert.Equal(t, newer.ID, got[1].ID)
	})

	t.Run("schematic exists", func(t *testing.T) {
		s := open(t)
		id := types.ComputeSchematicID([]byte("4*4"))

		exists, err := s.SchematicExists(id)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.AddSchematic(id, 3, 1))
		require.NoError(t, s.AddSchematic(id, 3, 1))

		exists, err = s.SchematicExists(id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("provenance", func(t *testing.T) {
		s := open(t)
		id := types.ComputeSchematicID([]byte("5*5"))
		require.NoError(t, s.AddSchematic(id, 3, 1))

		prov := types.GitProvenance{
			RepoPath: "/repo",
			BlobPath: "day3/input.txt",
			Commit:   &types.CommitMetadata{CommitID: "abc123"},
		}
		require.NoError(t, s.AddProvenance(id, prov))
		require.NoError(t, s.AddProvenance(id, prov))

		got, err := s.GetProvenance(id)
		require.NoError(t, err)
		assert.Equal(t, prov, got)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		return NewMemory()
	})
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewSQLite(filepath.Join(t.TempDir(), "schematic.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestNew_Routing(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := New(Config{Path: MemoryPath})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := New(Config{Path: filepath.Join(t.TempDir(), "out.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://localhost/schematic"))
	assert.True(t, IsPostgresURL("postgresql://user@host:5432/db"))
	assert.False(t, IsPostgresURL("schematic.db"))
	assert.False(t, IsPostgresURL(MemoryPath))
}

func TestMemoryStore_ProvenanceFirstWins(t *testing.T) {
	// Arrange
	s := NewMemory()
	id := types.ComputeSchematicID([]byte("6*6"))

	// Act
	require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "a.txt"}))
	require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "b.txt"}))

	// Assert
	got, err := s.GetProvenance(id)
	require.NoError(t, err)
	assert.Equal(t, types.FileProvenance{FilePath: "a.txt"}, got)
}
