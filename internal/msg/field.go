package msg

import "fmt"

// WordBits is the width of one message word.
const WordBits = 32

// At locates a field: bits MSB..LSB (inclusive) of 32-bit word DW.
type At struct {
	DW  uint
	MSB uint
	LSB uint
}

func (a At) Validate() error {
	if a.MSB >= WordBits || a.LSB > a.MSB {
		return fmt.Errorf("%w: dw=%d msb=%d lsb=%d", ErrInvalidLocation, a.DW, a.MSB, a.LSB)
	}
	return nil
}

// Width is the number of bits covered.
func (a At) Width() uint {
	return a.MSB - a.LSB + 1
}

func (a At) mask() uint32 {
	if a.Width() >= WordBits {
		return ^uint32(0)
	}
	return uint32(1)<<a.Width() - 1
}

func (a At) overlaps(b At) bool {
	return a.DW == b.DW && a.LSB <= b.MSB && b.LSB <= a.MSB
}

// Field is a named location within a message.
type Field struct {
	Name string
	At   At
}

// NewField is shorthand for a Field at word dw, bits msb..lsb.
func NewField(name string, dw, msb, lsb uint) Field {
	return Field{Name: name, At: At{DW: dw, MSB: msb, LSB: lsb}}
}

// Extract returns the field value, or 0 when the message is too short to hold it.
func (f Field) Extract(m Message) uint32 {
	return (m.Word(int(f.At.DW)) >> f.At.LSB) & f.At.mask()
}

// Max is the largest value the field can hold.
func (f Field) Max() uint32 {
	return f.At.mask()
}

// Of assigns v to the field, for use with Definition.New.
func (f Field) Of(v uint32) Assignment {
	return Assignment{Field: f, Value: v}
}

func (f Field) String() string {
	return fmt.Sprintf("%s[dw=%d %d:%d]", f.Name, f.At.DW, f.At.MSB, f.At.LSB)
}

// Assignment is one field=value pair used to construct a message.
type Assignment struct {
	Field Field
	Value uint32
}
