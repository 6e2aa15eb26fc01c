package msg

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocation    = errors.New("msg: invalid field location")
	ErrDuplicateField     = errors.New("msg: duplicate field")
	ErrOverlappingField   = errors.New("msg: overlapping field")
	ErrUnknownField       = errors.New("msg: unknown field")
	ErrValueOutOfRange    = errors.New("msg: value out of range")
	ErrInvalidLength      = errors.New("msg: invalid message length")
	ErrNilIndex           = errors.New("msg: nil index")
	ErrNilCallback        = errors.New("msg: nil callback")
	ErrCallbackOutOfRange = errors.New("msg: index names callback out of range")
)

// FieldError ties a construction failure to one field of one message definition.
type FieldError struct {
	Message string
	Field   string
	Err     error
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: message=%s", e.Err, e.Message)
	}
	return fmt.Sprintf("%v: message=%s field=%s", e.Err, e.Message, e.Field)
}

func (e FieldError) Unwrap() error {
	return e.Err
}
