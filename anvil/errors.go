// Package anvil reads Minecraft region container files (.mca/.mcr): a fixed
// 8 KiB header of location and timestamp tables followed by up to 1024
// independently compressed NBT chunk documents.
package anvil

import "errors"

// ErrCorruptRegion reports structural damage to the container itself: a short
// header, a chunk length that overruns the file, or an unsupported
// compression type. A region that failed to open cannot be used at all.
var ErrCorruptRegion = errors.New("anvil: corrupt region")

// ErrCorruptChunk reports that one chunk's payload could not be decompressed
// or parsed. The rest of the region stays readable; only that slot is bad.
var ErrCorruptChunk = errors.New("anvil: corrupt chunk")
