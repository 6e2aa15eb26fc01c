package lookup

import (
	"github.com/rs/zerolog/log"
)

// Strategy names the storage chosen for a Lookup.
type Strategy uint8

const (
	// Auto lets Make inspect the input and pick.
	Auto Strategy = iota
	LinearScan
	DenseArray
	SortedTable
)

// Selection thresholds used by Make.
const (
	// LinearScanMax is the entry count below which a plain scan is used.
	LinearScanMax = 8
	// DenseFactor bounds the dense array size relative to the entry count.
	DenseFactor = 4
	// DenseMaxSlots caps the dense array size regardless of entry count.
	DenseMaxSlots = 1 << 16
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case LinearScan:
		return "linear"
	case DenseArray:
		return "dense"
	case SortedTable:
		return "sorted"
	default:
		return "unknown"
	}
}

type table[K Key, V any] interface {
	get(k K) V
	values() []V
}

// Lookup is a built, immutable total function from key to value.
type Lookup[K Key, V any] struct {
	strategy Strategy
	def      V
	impl     table[K, V]
}

// Make builds a Lookup, choosing storage from the key distribution of in.
func Make[K Key, V any](in Input[K, V]) *Lookup[K, V] {
	return MakeWith(in, Auto)
}

// MakeWith builds a Lookup with the given strategy. Auto defers to the same
// selection as Make. DenseArray falls back to SortedTable when the key span
// exceeds DenseMaxSlots. Every strategy yields identical results for every key.
func MakeWith[K Key, V any](in Input[K, V], strategy Strategy) *Lookup[K, V] {
	entries := in.unique()
	if strategy == Auto {
		strategy = choose(entries)
	}
	if strategy == DenseArray && len(entries) > 0 {
		lo, hi := keyRange(entries)
		if uint64(hi-lo) >= DenseMaxSlots {
			strategy = SortedTable
		}
	}

	l := &Lookup[K, V]{strategy: strategy, def: in.Default}
	switch strategy {
	case DenseArray:
		l.impl = newDense(in.Default, entries)
	case SortedTable:
		l.impl = newSorted(in.Default, entries)
	default:
		l.strategy = LinearScan
		l.impl = newLinear(in.Default, entries)
	}
	log.Debug().
		Str("strategy", l.strategy.String()).
		Int("entries", len(in.Entries)).
		Int("unique", len(entries)).
		Msg("lookup.Make")
	return l
}

// Choose reports the strategy Make would select for in.
func Choose[K Key, V any](in Input[K, V]) Strategy {
	return choose(in.unique())
}

func choose[K Key, V any](entries []Entry[K, V]) Strategy {
	n := len(entries)
	if n < LinearScanMax {
		return LinearScan
	}
	lo, hi := keyRange(entries)
	span := uint64(hi - lo)
	if span < DenseMaxSlots && span+1 <= uint64(DenseFactor*n) {
		return DenseArray
	}
	return SortedTable
}

// Get returns the value for k, or the input default when k is absent.
func (l *Lookup[K, V]) Get(k K) V {
	return l.impl.get(k)
}

// Strategy reports the storage chosen at construction.
func (l *Lookup[K, V]) Strategy() Strategy {
	return l.strategy
}

// Default returns the value for absent keys.
func (l *Lookup[K, V]) Default() V {
	return l.def
}

// Values lists every value the lookup can return, default first.
func (l *Lookup[K, V]) Values() []V {
	return append([]V{l.def}, l.impl.values()...)
}

func keyRange[K Key, V any](entries []Entry[K, V]) (K, K) {
	lo, hi := entries[0].Key, entries[0].Key
	for _, e := range entries[1:] {
		if e.Key < lo {
			lo = e.Key
		}
		if e.Key > hi {
			hi = e.Key
		}
	}
	return lo, hi
}
