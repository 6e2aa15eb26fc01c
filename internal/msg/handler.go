package msg

import (
	"fmt"
	"slices"
)

// Handler tries every callback in order until one claims the message.
type Handler[A any] struct {
	callbacks []Callback[A]
}

// NewHandler builds a Handler directly from callbacks.
func NewHandler[A any](callbacks ...Callback[A]) (*Handler[A], error) {
	for i, cb := range callbacks {
		if cb == nil {
			return nil, fmt.Errorf("%w: callbacks[%d]", ErrNilCallback, i)
		}
	}
	return &Handler[A]{callbacks: slices.Clone(callbacks)}, nil
}

func (h *Handler[A]) Handle(m Message, arg A) bool {
	for _, cb := range h.callbacks {
		if cb(m, arg) {
			return true
		}
	}
	return false
}

func (h *Handler[A]) Len() int {
	return len(h.callbacks)
}
