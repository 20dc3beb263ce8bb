package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/schematic/pkg/types"
)

func TestContentStore_PutGet(t *testing.T) {
	// Arrange
	cs := &ContentStore{Root: t.TempDir()}
	content := []byte("467..\n...*.\n..35.\n")

	// Act
	id, err := cs.Put(content)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, types.ComputeSchematicID(content), id)
	assert.FileExists(t, filepath.Join(cs.Root, id.Hex()[:2], id.Hex()[2:]))
	assert.True(t, cs.Exists(id))

	got, err := cs.Get(id)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestContentStore_PutIdempotent(t *testing.T) {
	cs := &ContentStore{Root: t.TempDir()}

	first, err := cs.Put([]byte("1*1\n"))
	require.NoError(t, err)
	// same rows, different line endings: same ID, first copy kept
	second, err := cs.Put([]byte("1*1\r\n"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	got, err := cs.Get(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("1*1\n"), got)
}

func TestContentStore_GetMissing(t *testing.T) {
	cs := &ContentStore{Root: t.TempDir()}
	id := types.ComputeSchematicID([]byte("absent"))

	_, err := cs.Get(id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, cs.Exists(id))
}

func TestContentStore_ConcurrentPut(t *testing.T) {
	cs := &ContentStore{Root: t.TempDir()}
	content := []byte("2*3")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cs.Put(content)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	id := types.ComputeSchematicID(content)
	entries, err := os.ReadDir(filepath.Join(cs.Root, id.Hex()[:2]))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
