package nbt

// Native lowers a tag into plain Go values for callers that do not want to
// walk the tag tree: compounds become map[string]any (insertion order is
// dropped), lists []any, arrays their element slices, scalars their Go
// equivalents and End nil.
func Native(tag Tag) any {
	switch t := tag.(type) {
	case End:
		return nil
	case Byte:
		return int8(t)
	case Short:
		return int16(t)
	case Int:
		return int32(t)
	case Long:
		return int64(t)
	case Float:
		return float32(t)
	case Double:
		return float64(t)
	case ByteArray:
		return []byte(t)
	case String:
		return string(t)
	case List:
		elems := make([]any, 0, len(t.Elems))
		for _, elem := range t.Elems {
			elems = append(elems, Native(elem))
		}
		return elems
	case *Compound:
		values := make(map[string]any, t.Len())
		t.Range(func(name string, value Tag) bool {
			values[name] = Native(value)
			return true
		})
		return values
	case IntArray:
		return []int32(t)
	case LongArray:
		return []int64(t)
	default:
		return nil
	}
}

// Native returns the root name and the lowered root compound.
func (d *Document) Native() (string, map[string]any) {
	return d.Name, Native(d.Value).(map[string]any)
}
