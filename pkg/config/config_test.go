package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(OutputEnv, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// Arrange
	t.Setenv(OutputEnv, "")
	path := filepath.Join(t.TempDir(), "schematic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\nworkers: 8\ninclude_hidden: true\n"), 0644))

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.IncludeHidden)
	assert.Equal(t, "schematic.db", cfg.Output, "unset keys keep defaults")
	assert.False(t, cfg.OutputSet)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
}

func TestLoad_EnvOverridesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schematic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: file.db\n"), 0644))
	t.Setenv(OutputEnv, "postgres://localhost/schematic")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/schematic", cfg.Output)
	assert.True(t, cfg.OutputSet)
}

func TestLoad_EnvAppliesWithoutFile(t *testing.T) {
	t.Setenv(OutputEnv, "other.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.Output)
	assert.True(t, cfg.OutputSet)
}

func TestLoad_OutputSetFromFile(t *testing.T) {
	t.Setenv(OutputEnv, "")
	path := filepath.Join(t.TempDir(), "schematic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: file.db\n"), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "file.db", cfg.Output)
	assert.True(t, cfg.OutputSet)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(OutputEnv, "")
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "format: [json\n"},
		{"bad format", "format: sarif\n"},
		{"bad color", "color: sometimes\n"},
		{"zero workers", "workers: 0\n"},
		{"negative size", "max_file_size: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "schematic.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)

			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(OutputEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "schematic.yaml")
	want := DefaultConfig()
	want.Color = "never"
	want.Workers = 4

	require.NoError(t, want.Save(path))
	got, err := Load(path)

	require.NoError(t, err)
	want.OutputSet = true // the saved file names an output
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "outputset")
}
