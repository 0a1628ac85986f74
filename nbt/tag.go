// Package nbt decodes the Named Binary Tag format used by Minecraft world
// saves into a typed in-memory tree.
package nbt

import "fmt"

// TagID identifies the type of a tag on the wire.
type TagID byte

const (
	TagEnd TagID = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = [...]string{
	"TAG_End", "TAG_Byte", "TAG_Short", "TAG_Int", "TAG_Long", "TAG_Float",
	"TAG_Double", "TAG_Byte_Array", "TAG_String", "TAG_List", "TAG_Compound",
	"TAG_Int_Array", "TAG_Long_Array",
}

func (id TagID) String() string {
	if int(id) < len(tagNames) {
		return tagNames[id]
	}
	return fmt.Sprintf("TAG_Unknown(%d)", byte(id))
}

// Tag is one typed value node in a decoded NBT document. The set of
// implementations is closed: exactly the thirteen wire types exist, so a type
// switch over them can be exhaustive.
type Tag interface {
	TagID() TagID
	isTag()
}

type (
	End       struct{}
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

// List is a homogeneous sequence of tags. ElementID is the declared element
// type and is fixed for the whole list; it is kept even for an empty list.
type List struct {
	ElementID TagID
	Elems     []Tag
}

func (End) TagID() TagID       { return TagEnd }
func (Byte) TagID() TagID      { return TagByte }
func (Short) TagID() TagID     { return TagShort }
func (Int) TagID() TagID       { return TagInt }
func (Long) TagID() TagID      { return TagLong }
func (Float) TagID() TagID     { return TagFloat }
func (Double) TagID() TagID    { return TagDouble }
func (ByteArray) TagID() TagID { return TagByteArray }
func (String) TagID() TagID    { return TagString }
func (List) TagID() TagID      { return TagList }
func (*Compound) TagID() TagID { return TagCompound }
func (IntArray) TagID() TagID  { return TagIntArray }
func (LongArray) TagID() TagID { return TagLongArray }

func (End) isTag()       {}
func (Byte) isTag()      {}
func (Short) isTag()     {}
func (Int) isTag()       {}
func (Long) isTag()      {}
func (Float) isTag()     {}
func (Double) isTag()    {}
func (ByteArray) isTag() {}
func (String) isTag()    {}
func (List) isTag()      {}
func (*Compound) isTag() {}
func (IntArray) isTag()  {}
func (LongArray) isTag() {}

// Compound is an ordered mapping from names to tags. Iteration follows
// insertion order; putting a name that already exists discards the old entry
// and appends the new one at the end.
type Compound struct {
	keys   []string
	values map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{values: make(map[string]Tag)}
}

func (c *Compound) Put(name string, value Tag) {
	if _, ok := c.values[name]; ok {
		for i, key := range c.keys {
			if key == name {
				c.keys = append(c.keys[:i], c.keys[i+1:]...)
				break
			}
		}
	}
	c.keys = append(c.keys, name)
	c.values[name] = value
}

func (c *Compound) Get(name string) (Tag, bool) {
	value, ok := c.values[name]
	return value, ok
}

func (c *Compound) Len() int {
	return len(c.keys)
}

// Keys returns the entry names in insertion order. The returned slice is
// shared with the compound and must not be modified.
func (c *Compound) Keys() []string {
	return c.keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (c *Compound) Range(fn func(name string, value Tag) bool) {
	for _, key := range c.keys {
		if !fn(key, c.values[key]) {
			return
		}
	}
}

// Document is one complete decoded NBT file: the name of the root tag and its
// compound payload.
type Document struct {
	Name  string
	Value *Compound
}
