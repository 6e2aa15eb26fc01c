package msg

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"
)

// inlineIndices is how many per-index sets Handle keeps on the stack.
const inlineIndices = 8

// IndexedHandler resolves candidate callbacks for a message by intersecting
// the sets of every index, then tries them in ascending slot order.
type IndexedHandler[A any] struct {
	indices   []Index
	callbacks []Callback[A]
	words     int
	tailMask  uint64
}

// NewIndexedHandler validates that every slot any index can produce names a
// callback. Bit i of a candidate set is callbacks[i].
func NewIndexedHandler[A any](indices []Index, callbacks []Callback[A]) (*IndexedHandler[A], error) {
	for i, cb := range callbacks {
		if cb == nil {
			return nil, fmt.Errorf("%w: callbacks[%d]", ErrNilCallback, i)
		}
	}
	for i, ix := range indices {
		if !ix.valid() {
			return nil, fmt.Errorf("%w: indices[%d]", ErrNilIndex, i)
		}
		for _, set := range ix.table.Values() {
			top, ok := highestSlot(set)
			if ok && top >= uint(len(callbacks)) {
				return nil, fmt.Errorf(
					"%w: indices[%d] names slot %d with %d callbacks",
					ErrCallbackOutOfRange, i, top, len(callbacks),
				)
			}
		}
	}

	n := len(callbacks)
	h := &IndexedHandler[A]{
		indices:   slices.Clone(indices),
		callbacks: slices.Clone(callbacks),
		words:     (n + 63) / 64,
		tailMask:  ^uint64(0),
	}
	if r := n % 64; r != 0 {
		h.tailMask = uint64(1)<<r - 1
	}
	log.Debug().
		Int("indices", len(indices)).
		Int("callbacks", n).
		Msg("msg.NewIndexedHandler")
	return h, nil
}

// MustIndexedHandler is NewIndexedHandler for static tables; it panics on error.
func MustIndexedHandler[A any](indices []Index, callbacks []Callback[A]) *IndexedHandler[A] {
	h, err := NewIndexedHandler(indices, callbacks)
	if err != nil {
		panic(err)
	}
	return h
}

// Handle invokes candidate callbacks in ascending slot order and stops at the
// first that returns true. It reports whether any callback claimed m.
func (h *IndexedHandler[A]) Handle(m Message, arg A) bool {
	var buf [inlineIndices]*bitset.BitSet
	sets := h.candidates(m, buf[:0])
	for w := 0; w < h.words; w++ {
		word := h.intersect(sets, w)
		for word != 0 {
			slot := w*64 + bits.TrailingZeros64(word)
			if h.callbacks[slot](m, arg) {
				return true
			}
			word &= word - 1
		}
	}
	return false
}

// IsMatch reports whether the candidate set for m is non-empty. Callbacks are
// not invoked, so IsMatch can be true for a message every candidate declines.
func (h *IndexedHandler[A]) IsMatch(m Message) bool {
	var buf [inlineIndices]*bitset.BitSet
	sets := h.candidates(m, buf[:0])
	for w := 0; w < h.words; w++ {
		if h.intersect(sets, w) != 0 {
			return true
		}
	}
	return false
}

// Candidates returns the full candidate set for m. It allocates; use it for
// inspection, not on the dispatch path.
func (h *IndexedHandler[A]) Candidates(m Message) *bitset.BitSet {
	var buf [inlineIndices]*bitset.BitSet
	sets := h.candidates(m, buf[:0])
	out := bitset.New(uint(len(h.callbacks)))
	for w := 0; w < h.words; w++ {
		word := h.intersect(sets, w)
		for word != 0 {
			out.Set(uint(w*64 + bits.TrailingZeros64(word)))
			word &= word - 1
		}
	}
	return out
}

// Len is the number of callbacks.
func (h *IndexedHandler[A]) Len() int {
	return len(h.callbacks)
}

func (h *IndexedHandler[A]) candidates(m Message, dst []*bitset.BitSet) []*bitset.BitSet {
	for _, ix := range h.indices {
		dst = append(dst, ix.Candidates(m))
	}
	return dst
}

// intersect ANDs word w of every set, starting from all callbacks.
func (h *IndexedHandler[A]) intersect(sets []*bitset.BitSet, w int) uint64 {
	word := ^uint64(0)
	if w == h.words-1 {
		word = h.tailMask
	}
	for _, s := range sets {
		word &= wordAt(s, w)
	}
	return word
}
