// internal/field/field.go
package field

// Mask returns the bits covered by a field of length bits starting at offset.
// A field reaching bit 15 or beyond saturates: every bit from offset to the
// top of the register is covered.
func Mask(offset, length uint8) uint16 {
	one := uint16(1)
	if int(offset)+int(length) >= 16 {
		return ^(one<<offset - 1)
	}
	return one<<(offset+length) - one<<offset
}

// Merge writes v into the field of cur and leaves every other bit alone.
// Bits of v that do not fit the field are dropped.
func Merge(cur uint16, offset, length uint8, v uint16) uint16 {
	m := Mask(offset, length)
	return cur&^m | (v<<offset)&m
}

// Extract returns the field's value, right-aligned.
func Extract(cur uint16, offset, length uint8) uint16 {
	return (cur & Mask(offset, length)) >> offset
}

// ReadWriter is the register access a read-modify-write needs.
type ReadWriter interface {
	Read(dev, reg uint8) (uint16, error)
	Write(dev, reg uint8, v uint16) error
}

// Write performs a read-modify-write of one field.
// It is not atomic: callers serialize access to the bus across both halves.
func Write(rw ReadWriter, dev, reg, offset, length uint8, v uint16) error {
	cur, err := rw.Read(dev, reg)
	if err != nil {
		return err
	}
	return rw.Write(dev, reg, Merge(cur, offset, length, v))
}
