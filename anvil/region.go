package anvil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/astei/mcanvil/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const maxChunks = 1024
const sectorSize = 4096
const headerSize = 2 * sectorSize

type CompressionType byte

const (
	CompressionGzip CompressionType = 1
	CompressionZlib CompressionType = 2
)

// ChunkCoord addresses one chunk. Within a single region the coordinates are
// local (0-31); World uses the same type for global chunk coordinates.
type ChunkCoord struct {
	X int
	Z int
}

// Region reads one region file. Opening parses only the header tables; the
// chunk payload area is read from the source in full on the first LoadChunk
// and cached for the life of the Region. Once the body is cached, LoadChunk
// is safe to call concurrently since each call decodes from its own slice of
// the immutable cache.
type Region struct {
	source     io.Reader
	locations  [maxChunks]uint32
	timestamps [maxChunks]int32

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
}

// Open reads the location and timestamp tables from source. The source is
// retained for the later lazy body read; ownership transfers to the Region.
// A source too short to hold the 8 KiB header is a corrupt container and the
// open fails terminally.
func Open(source io.Reader) (*Region, error) {
	region := &Region{source: source}

	table := make([]byte, sectorSize)
	if _, err := io.ReadFull(source, table); err != nil {
		return nil, fmt.Errorf("%w: error reading location table: %v", ErrCorruptRegion, err)
	}
	if err := binary.Read(bytes.NewReader(table), binary.BigEndian, region.locations[:]); err != nil {
		return nil, fmt.Errorf("%w: error reading location table: %v", ErrCorruptRegion, err)
	}

	if _, err := io.ReadFull(source, table); err != nil {
		return nil, fmt.Errorf("%w: error reading timestamp table: %v", ErrCorruptRegion, err)
	}
	if err := binary.Read(bytes.NewReader(table), binary.BigEndian, region.timestamps[:]); err != nil {
		return nil, fmt.Errorf("%w: error reading timestamp table: %v", ErrCorruptRegion, err)
	}

	return region, nil
}

// wrapCoord reduces a global chunk coordinate to [0, 32) with euclidean
// modulo, so negative coordinates address the correct slot.
func wrapCoord(v int) int {
	return ((v % 32) + 32) % 32
}

func slotIndex(x, z int) int {
	return wrapCoord(x) + wrapCoord(z)*32
}

// ChunkExists reports whether the slot for (x, z) holds a chunk. Coordinates
// outside 0-31 wrap, so global chunk coordinates work directly.
func (r *Region) ChunkExists(x, z int) bool {
	return r.locations[slotIndex(x, z)]>>8 != 0
}

// ChunkTimestamp returns the last-modified timestamp recorded for (x, z).
// For a slot with no chunk the stored word is meaningless.
func (r *Region) ChunkTimestamp(x, z int) int32 {
	return r.timestamps[slotIndex(x, z)]
}

// Chunks lists the local coordinates of every chunk present in this region.
func (r *Region) Chunks() []ChunkCoord {
	chunks := make([]ChunkCoord, 0, maxChunks)
	for x := 0; x < 32; x++ {
		for z := 0; z < 32; z++ {
			if r.locations[x+z*32]>>8 != 0 {
				chunks = append(chunks, ChunkCoord{X: x, Z: z})
			}
		}
	}
	return chunks
}

func (r *Region) bodyBytes() ([]byte, error) {
	r.bodyOnce.Do(func() {
		data, err := io.ReadAll(r.source)
		if err != nil {
			r.bodyErr = fmt.Errorf("anvil: failed to read region body: %w", err)
			return
		}
		r.body = data
	})
	return r.body, r.bodyErr
}

// LoadChunk decodes the chunk at (x, z), wrapping coordinates like
// ChunkExists. An empty slot returns (nil, nil); absence is not an error.
// Structural problems (offset or length outside the file, unknown compression
// type) fail with ErrCorruptRegion before any decompression; a payload that
// fails to decompress or parse fails with ErrCorruptChunk.
func (r *Region) LoadChunk(x, z int) (*nbt.Document, error) {
	x, z = wrapCoord(x), wrapCoord(z)
	location := r.locations[x+z*32]

	sectorOffset := int(location>>8) * sectorSize
	if sectorOffset == 0 {
		return nil, nil
	}

	body, err := r.bodyBytes()
	if err != nil {
		return nil, err
	}

	// The header tables were consumed at open time, so payload offsets are
	// rebased onto the cached body.
	offset := sectorOffset - headerSize
	if offset < 0 || offset+5 > len(body) {
		return nil, fmt.Errorf("%w: chunk %d,%d offset %d is outside the chunk data", ErrCorruptRegion, x, z, sectorOffset)
	}

	// The length includes the compression type byte.
	length := int(binary.BigEndian.Uint32(body[offset:]))
	compression := CompressionType(body[offset+4])

	switch compression {
	case CompressionGzip, CompressionZlib:
	default:
		return nil, fmt.Errorf("%w: unsupported compression type %d (should be 1 or 2)", ErrCorruptRegion, byte(compression))
	}

	if length < 1 || offset+4+length > len(body) {
		return nil, fmt.Errorf("%w: chunk %d,%d length %d is invalid", ErrCorruptRegion, x, z, length)
	}

	payload := bytes.NewReader(body[offset+5 : offset+4+length])

	var chunkStream io.Reader
	if compression == CompressionGzip {
		chunkStream, err = gzip.NewReader(payload)
	} else {
		chunkStream, err = zlib.NewReader(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %d,%d: %v", ErrCorruptChunk, x, z, err)
	}

	document, err := nbt.NewDecoder(chunkStream).ReadDocument()
	if err != nil {
		return nil, fmt.Errorf("%w %d,%d: could not parse chunk NBT: %v", ErrCorruptChunk, x, z, err)
	}
	return document, nil
}
