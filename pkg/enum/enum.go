// Package enum discovers schematics to analyse.
package enum

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// Callback receives one schematic. Enumerators may invoke it from several
// goroutines at once.
type Callback func(content []byte, id types.SchematicID, prov types.Provenance) error

// Enumerator discovers schematics from a source.
type Enumerator interface {
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is a file, a directory, or a git repository.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extensions restricts enumeration to files with one of these
	// extensions, e.g. ".txt". Empty means every file.
	Extensions []string
}

// wantExtension reports whether name passes the Extensions filter.
func (c Config) wantExtension(name string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range c.Extensions {
		want = strings.ToLower(want)
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := min(len(content), 8192)
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
