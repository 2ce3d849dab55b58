package mirror

// Field is a zero-based field index inside one variant of an ADT, or inside
// a tuple.
type Field int

// Index returns the field position.
func (f Field) Index() int {
	return int(f)
}
