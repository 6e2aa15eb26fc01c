package lookup

import (
	"cmp"
	"slices"
)

type linear[K Key, V any] struct {
	def     V
	entries []Entry[K, V]
}

func newLinear[K Key, V any](def V, entries []Entry[K, V]) *linear[K, V] {
	return &linear[K, V]{def: def, entries: entries}
}

func (t *linear[K, V]) get(k K) V {
	for i := range t.entries {
		if t.entries[i].Key == k {
			return t.entries[i].Value
		}
	}
	return t.def
}

func (t *linear[K, V]) values() []V {
	out := make([]V, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Value)
	}
	return out
}

// dense stores one slot per key in [min, min+len(slots)).
type dense[K Key, V any] struct {
	def   V
	min   K
	slots []V
	keys  []K
}

func newDense[K Key, V any](def V, entries []Entry[K, V]) *dense[K, V] {
	t := &dense[K, V]{def: def}
	if len(entries) == 0 {
		return t
	}
	lo, hi := keyRange(entries)
	t.min = lo
	t.slots = make([]V, uint64(hi-lo)+1)
	for i := range t.slots {
		t.slots[i] = def
	}
	t.keys = make([]K, 0, len(entries))
	for _, e := range entries {
		t.slots[uint64(e.Key-lo)] = e.Value
		t.keys = append(t.keys, e.Key)
	}
	return t
}

func (t *dense[K, V]) get(k K) V {
	if k < t.min {
		return t.def
	}
	off := uint64(k - t.min)
	if off >= uint64(len(t.slots)) {
		return t.def
	}
	return t.slots[off]
}

func (t *dense[K, V]) values() []V {
	out := make([]V, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.slots[uint64(k-t.min)])
	}
	return out
}

type sorted[K Key, V any] struct {
	def  V
	keys []K
	vals []V
}

func newSorted[K Key, V any](def V, entries []Entry[K, V]) *sorted[K, V] {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	t := &sorted[K, V]{
		def:  def,
		keys: make([]K, len(ordered)),
		vals: make([]V, len(ordered)),
	}
	for i, e := range ordered {
		t.keys[i] = e.Key
		t.vals[i] = e.Value
	}
	return t
}

func (t *sorted[K, V]) get(k K) V {
	if i, ok := slices.BinarySearch(t.keys, k); ok {
		return t.vals[i]
	}
	return t.def
}

func (t *sorted[K, V]) values() []V {
	return slices.Clone(t.vals)
}
