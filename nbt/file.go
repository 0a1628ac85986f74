package nbt

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DecodeGzip decodes a loose gzip-framed NBT file, such as level.dat. The
// reader is consumed up to the end of the document.
func DecodeGzip(source io.Reader) (*Document, error) {
	stream, err := gzip.NewReader(source)
	if err != nil {
		return nil, fmt.Errorf("nbt: failed to open gzip stream: %w", err)
	}
	defer stream.Close()
	return NewDecoder(stream).ReadDocument()
}
