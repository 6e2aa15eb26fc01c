package lookup

// Input is a sparse description of a total mapping: every key not present
// in Entries maps to Default.
//
// Duplicate keys are allowed; the first entry for a key wins.
type Input[K Key, V any] struct {
	Default V
	Entries []Entry[K, V]
}

// NewInput copies entries so the input size is fixed at construction.
func NewInput[K Key, V any](def V, entries ...Entry[K, V]) Input[K, V] {
	out := make([]Entry[K, V], len(entries))
	copy(out, entries)
	return Input[K, V]{Default: def, Entries: out}
}

// Len returns the number of entries, duplicates included.
func (in Input[K, V]) Len() int {
	return len(in.Entries)
}

// unique returns entries with later duplicates dropped, preserving order.
func (in Input[K, V]) unique() []Entry[K, V] {
	seen := make(map[K]struct{}, len(in.Entries))
	out := make([]Entry[K, V], 0, len(in.Entries))
	for _, e := range in.Entries {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		out = append(out, e)
	}
	return out
}
