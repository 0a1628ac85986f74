package nbt

import "errors"

// ErrCorrupt reports that the byte stream violates the NBT format. I/O
// failures from the underlying source are not ErrCorrupt; they propagate
// wrapped so the caller can tell a truncated source from a malformed one.
var ErrCorrupt = errors.New("nbt: corrupt data")
