package msg

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
)

// Definition describes the fields of one fixed-size message type.
type Definition struct {
	name   string
	fields []Field
	byName map[string]int
	words  int
}

// NewDefinition validates fields and sizes the message to the highest word used.
func NewDefinition(name string, fields ...Field) (*Definition, error) {
	d := &Definition{
		name:   name,
		fields: slices.Clone(fields),
		byName: make(map[string]int, len(fields)),
	}
	for i, f := range d.fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, FieldError{Message: name, Err: fmt.Errorf("%w: empty name", ErrInvalidLocation)}
		}
		if err := f.At.Validate(); err != nil {
			return nil, FieldError{Message: name, Field: f.Name, Err: err}
		}
		if _, ok := d.byName[f.Name]; ok {
			return nil, FieldError{Message: name, Field: f.Name, Err: ErrDuplicateField}
		}
		for _, prev := range d.fields[:i] {
			if f.At.overlaps(prev.At) {
				return nil, FieldError{
					Message: name,
					Field:   f.Name,
					Err:     fmt.Errorf("%w: with %s", ErrOverlappingField, prev.Name),
				}
			}
		}
		d.byName[f.Name] = i
		if w := int(f.At.DW) + 1; w > d.words {
			d.words = w
		}
	}
	return d, nil
}

// MustDefinition is NewDefinition for static tables; it panics on error.
func MustDefinition(name string, fields ...Field) *Definition {
	d, err := NewDefinition(name, fields...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition) Name() string {
	return d.name
}

// Words is the message size in 32-bit words.
func (d *Definition) Words() int {
	return d.words
}

// Size is the encoded message size in bytes.
func (d *Definition) Size() int {
	return d.words * 4
}

func (d *Definition) Fields() []Field {
	return slices.Clone(d.fields)
}

func (d *Definition) Field(name string) (Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// New builds an owning message with every unassigned field zero.
// Later assignments to the same field overwrite earlier ones.
func (d *Definition) New(assignments ...Assignment) (Message, error) {
	m := Message{def: d, words: make([]uint32, d.words)}
	for _, a := range assignments {
		f, ok := d.Field(a.Field.Name)
		if !ok || f.At != a.Field.At {
			return Message{}, FieldError{Message: d.name, Field: a.Field.Name, Err: ErrUnknownField}
		}
		if a.Value > f.Max() {
			return Message{}, FieldError{
				Message: d.name,
				Field:   f.Name,
				Err:     fmt.Errorf("%w: %d > %d", ErrValueOutOfRange, a.Value, f.Max()),
			}
		}
		w := &m.words[f.At.DW]
		*w = *w&^(f.At.mask()<<f.At.LSB) | a.Value<<f.At.LSB
	}
	return m, nil
}

// MustNew is New for static tables and tests; it panics on error.
func (d *Definition) MustNew(assignments ...Assignment) Message {
	m, err := d.New(assignments...)
	if err != nil {
		panic(err)
	}
	return m
}

// Decode copies a big-endian encoded message of exactly Size bytes.
func (d *Definition) Decode(b []byte) (Message, error) {
	if len(b) != d.Size() {
		return Message{}, fmt.Errorf("%w: message=%s got=%d want=%d", ErrInvalidLength, d.name, len(b), d.Size())
	}
	m := Message{def: d, words: make([]uint32, d.words)}
	for i := range m.words {
		m.words[i] = binary.BigEndian.Uint32(b[i*4 : i*4+4])
	}
	return m, nil
}

// Message is a fixed-size message that owns its word storage.
type Message struct {
	def   *Definition
	words []uint32
}

func (m Message) Definition() *Definition {
	return m.def
}

// Word returns word i, or 0 when i is out of range.
func (m Message) Word(i int) uint32 {
	if i < 0 || i >= len(m.words) {
		return 0
	}
	return m.words[i]
}

// Get extracts a field by name.
func (m Message) Get(name string) (uint32, bool) {
	if m.def == nil {
		return 0, false
	}
	f, ok := m.def.Field(name)
	if !ok {
		return 0, false
	}
	return f.Extract(m), true
}

// Bytes encodes the message as big-endian words.
func (m Message) Bytes() []byte {
	return m.AppendBytes(make([]byte, 0, len(m.words)*4))
}

func (m Message) AppendBytes(dst []byte) []byte {
	for _, w := range m.words {
		dst = binary.BigEndian.AppendUint32(dst, w)
	}
	return dst
}

func (m Message) String() string {
	if m.def == nil {
		return "msg{}"
	}
	var sb strings.Builder
	sb.WriteString(m.def.name)
	sb.WriteByte('{')
	for i, f := range m.def.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=0x%x", f.Name, f.Extract(m))
	}
	sb.WriteByte('}')
	return sb.String()
}
