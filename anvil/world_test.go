package anvil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegionFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestOpenWorld(t *testing.T) {
	dir := t.TempDir()

	var origin regionBuilder
	origin.addChunk(1, 2, chunkRecord(2, zlibCompress(t, minimalDocument)))
	writeRegionFile(t, dir, "r.0.0.mca", origin.bytes())

	var west regionBuilder
	west.addChunk(0, 0, chunkRecord(2, zlibCompress(t, minimalDocument)))
	writeRegionFile(t, dir, "r.-1.0.mca", west.bytes())

	// Not a region file; must be skipped.
	writeRegionFile(t, dir, "level.dat", []byte("junk"))

	world, err := OpenWorld(dir)
	require.NoError(t, err)
	require.Empty(t, world.Errs)

	require.Len(t, world.Chunks, 2)
	assert.Contains(t, world.Chunks, ChunkCoord{X: 1, Z: 2})
	assert.Contains(t, world.Chunks, ChunkCoord{X: -32, Z: 0})
}

func TestOpenWorldCollectsErrors(t *testing.T) {
	dir := t.TempDir()

	var good regionBuilder
	good.addChunk(0, 0, chunkRecord(2, zlibCompress(t, minimalDocument)))
	writeRegionFile(t, dir, "r.0.0.mca", good.bytes())

	// Too short to hold the header.
	writeRegionFile(t, dir, "r.1.0.mca", make([]byte, 100))

	// Readable header, one corrupt chunk payload.
	var bad regionBuilder
	bad.addChunk(0, 0, chunkRecord(2, []byte{0xde, 0xad}))
	bad.addChunk(1, 0, chunkRecord(2, zlibCompress(t, minimalDocument)))
	writeRegionFile(t, dir, "r.0.1.mca", bad.bytes())

	world, err := OpenWorld(dir)
	require.NoError(t, err)

	assert.Len(t, world.Errs, 2)
	require.Len(t, world.Chunks, 2)
	assert.Contains(t, world.Chunks, ChunkCoord{X: 0, Z: 0})
	assert.Contains(t, world.Chunks, ChunkCoord{X: 1, Z: 32})

	for _, document := range world.Chunks {
		require.NotNil(t, document)
	}
}

func TestOpenWorldMissingDirectory(t *testing.T) {
	_, err := OpenWorld(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestOpenWorldEmptyDirectory(t *testing.T) {
	world, err := OpenWorld(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, world.Chunks)
	assert.Empty(t, world.Errs)
}
