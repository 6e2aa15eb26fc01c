package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/fieldmux/internal/msg"
)

var (
	ErrShortMessage    = errors.New("wire: short message")
	ErrMessageTooLarge = errors.New("wire: message too large")
	ErrEmptyDefinition = errors.New("wire: definition has no words")
)

// Limits constrains the message sizes a stream accepts.
type Limits struct {
	MaxWords int
}

func DefaultLimits() Limits {
	return Limits{MaxWords: 1024}
}

func (l Limits) check(def *msg.Definition) error {
	if def == nil || def.Words() == 0 {
		return ErrEmptyDefinition
	}
	if l.MaxWords > 0 && def.Words() > l.MaxWords {
		return fmt.Errorf("%w: message=%s words=%d max=%d", ErrMessageTooLarge, def.Name(), def.Words(), l.MaxWords)
	}
	return nil
}

// Reader reads consecutive messages of one definition from a stream, reusing
// one read buffer.
type Reader struct {
	r   io.Reader
	def *msg.Definition
	buf []byte
}

func NewReader(r io.Reader, def *msg.Definition, limits Limits) (*Reader, error) {
	if err := limits.check(def); err != nil {
		return nil, err
	}
	return &Reader{r: r, def: def, buf: make([]byte, def.Size())}, nil
}

// Next returns io.EOF at a clean end of stream and ErrShortMessage when the
// stream ends inside a message.
func (r *Reader) Next() (msg.Message, error) {
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		if errors.Is(err, io.EOF) {
			return msg.Message{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return msg.Message{}, ErrShortMessage
		}
		return msg.Message{}, err
	}
	return r.def.Decode(r.buf)
}

// ReadMessage reads exactly one message of def from r.
func ReadMessage(r io.Reader, def *msg.Definition, limits Limits) (msg.Message, error) {
	mr, err := NewReader(r, def, limits)
	if err != nil {
		return msg.Message{}, err
	}
	return mr.Next()
}

func WriteMessage(w io.Writer, m msg.Message, limits Limits) error {
	if err := limits.check(m.Definition()); err != nil {
		return err
	}
	_, err := w.Write(m.Bytes())
	return err
}
