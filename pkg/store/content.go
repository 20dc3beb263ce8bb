package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// ContentStore keeps schematic text on disk, addressed by SchematicID,
// so stored reports can be inspected later. Layout: <root>/ab/cdef....
type ContentStore struct {
	Root string
}

// Put writes content under its ID. Content already present is not
// rewritten.
func (c *ContentStore) Put(content []byte) (types.SchematicID, error) {
	id := types.ComputeSchematicID(content)

	path := c.path(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.SchematicID{}, fmt.Errorf("creating content directory: %w", err)
	}

	// temp file + rename so concurrent readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return types.SchematicID{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return types.SchematicID{}, fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return types.SchematicID{}, fmt.Errorf("writing content: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return types.SchematicID{}, fmt.Errorf("renaming content: %w", err)
	}
	return id, nil
}

// Get returns the content stored for id, or ErrNotFound.
func (c *ContentStore) Get(id types.SchematicID) ([]byte, error) {
	content, err := os.ReadFile(c.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("content %s: %w", id.Short(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return content, nil
}

// Exists reports whether content for id is stored.
func (c *ContentStore) Exists(id types.SchematicID) bool {
	_, err := os.Stat(c.path(id))
	return err == nil
}

func (c *ContentStore) path(id types.SchematicID) string {
	hexID := id.Hex()
	return filepath.Join(c.Root, hexID[:2], hexID[2:])
}
