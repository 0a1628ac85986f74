package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// Decoder reads one NBT document from a byte stream. A Decoder keeps a scratch
// buffer that is reused across reads, so it must not be shared between
// concurrent decodes; create one Decoder per stream.
type Decoder struct {
	source io.Reader
	buf    []byte
}

func NewDecoder(source io.Reader) *Decoder {
	return &Decoder{source: source}
}

// read returns exactly n bytes from the source. The returned slice aliases the
// scratch buffer and is only valid until the next read.
func (d *Decoder) read(n int) ([]byte, error) {
	if n > len(d.buf) {
		d.buf = append(d.buf, make([]byte, n-len(d.buf))...)
	}
	if _, err := io.ReadFull(d.source, d.buf[:n]); err != nil {
		return nil, fmt.Errorf("nbt: failed to read %d bytes: %w", n, err)
	}
	return d.buf[:n], nil
}

func (d *Decoder) readTagID() (TagID, error) {
	data, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return TagID(data[0]), nil
}

func (d *Decoder) readByte() (Byte, error) {
	data, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return Byte(data[0]), nil
}

func (d *Decoder) readShort() (Short, error) {
	data, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return Short(binary.BigEndian.Uint16(data)), nil
}

func (d *Decoder) readInt() (Int, error) {
	data, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return Int(binary.BigEndian.Uint32(data)), nil
}

func (d *Decoder) readLong() (Long, error) {
	data, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return Long(binary.BigEndian.Uint64(data)), nil
}

func (d *Decoder) readFloat() (Float, error) {
	data, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return Float(math.Float32frombits(binary.BigEndian.Uint32(data))), nil
}

func (d *Decoder) readDouble() (Double, error) {
	data, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return Double(math.Float64frombits(binary.BigEndian.Uint64(data))), nil
}

func (d *Decoder) readByteArray() (ByteArray, error) {
	length, err := d.readInt()
	if err != nil {
		return nil, err
	}
	data, err := d.read(int(uint32(length)))
	if err != nil {
		return nil, err
	}
	return append(ByteArray(nil), data...), nil
}

func (d *Decoder) readIntArray() (IntArray, error) {
	length, err := d.readInt()
	if err != nil {
		return nil, err
	}
	count := int(uint32(length))
	data, err := d.read(count * 4)
	if err != nil {
		return nil, err
	}
	values := make(IntArray, count)
	for i := range values {
		values[i] = int32(binary.BigEndian.Uint32(data[i*4:]))
	}
	return values, nil
}

func (d *Decoder) readLongArray() (LongArray, error) {
	length, err := d.readInt()
	if err != nil {
		return nil, err
	}
	count := int(uint32(length))
	data, err := d.read(count * 8)
	if err != nil {
		return nil, err
	}
	values := make(LongArray, count)
	for i := range values {
		values[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
	}
	return values, nil
}

// readString reads a 2-byte length-prefixed UTF-8 string. Invalid UTF-8 is
// replaced rather than rejected; saves in the wild contain mojibake names.
func (d *Decoder) readString() (string, error) {
	data, err := d.read(2)
	if err != nil {
		return "", err
	}
	length := int(binary.BigEndian.Uint16(data))
	data, err = d.read(length)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

func (d *Decoder) readPayload(id TagID) (Tag, error) {
	var value Tag
	var err error
	switch id {
	case TagEnd:
		value = End{}
	case TagByte:
		value, err = d.readByte()
	case TagShort:
		value, err = d.readShort()
	case TagInt:
		value, err = d.readInt()
	case TagLong:
		value, err = d.readLong()
	case TagFloat:
		value, err = d.readFloat()
	case TagDouble:
		value, err = d.readDouble()
	case TagByteArray:
		value, err = d.readByteArray()
	case TagString:
		var s string
		s, err = d.readString()
		value = String(s)
	case TagList:
		value, err = d.readList()
	case TagCompound:
		value, err = d.readCompound()
	case TagIntArray:
		value, err = d.readIntArray()
	case TagLongArray:
		value, err = d.readLongArray()
	default:
		return nil, fmt.Errorf("%w: invalid tag id %d", ErrCorrupt, byte(id))
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// readList reads a list payload: element tag id, element count, then that many
// payloads of the declared type. The element id is validated up front, so an
// unknown id fails even for an empty list.
func (d *Decoder) readList() (List, error) {
	elementID, err := d.readTagID()
	if err != nil {
		return List{}, err
	}
	if elementID > TagLongArray {
		return List{}, fmt.Errorf("%w: invalid list element tag id %d", ErrCorrupt, byte(elementID))
	}

	length, err := d.readInt()
	if err != nil {
		return List{}, err
	}

	count := int(uint32(length))
	list := List{ElementID: elementID, Elems: make([]Tag, 0, count)}
	for i := 0; i < count; i++ {
		value, err := d.readPayload(elementID)
		if err != nil {
			return List{}, err
		}
		list.Elems = append(list.Elems, value)
	}
	return list, nil
}

// readCompound reads (tag id, name, payload) triples until the end sentinel.
func (d *Decoder) readCompound() (*Compound, error) {
	tags := NewCompound()
	for {
		id, err := d.readTagID()
		if err != nil {
			return nil, err
		}
		if id == TagEnd {
			return tags, nil
		}

		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		payload, err := d.readPayload(id)
		if err != nil {
			return nil, err
		}
		tags.Put(name, payload)
	}
}

// ReadDocument decodes one complete document: a compound root tag with its
// name. A root of any other type is a corruption.
//
// Decoding recurses on nested lists and compounds with no depth limit, so an
// adversarial input with very deep nesting can exhaust the stack.
func (d *Decoder) ReadDocument() (*Document, error) {
	id, err := d.readTagID()
	if err != nil {
		return nil, err
	}
	if id != TagCompound {
		return nil, fmt.Errorf("%w: expected compound root, got tag id %d", ErrCorrupt, byte(id))
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	value, err := d.readCompound()
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Value: value}, nil
}
