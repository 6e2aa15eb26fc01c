package lookup

import "golang.org/x/exp/constraints"

// Key is the domain of a single message field.
type Key interface {
	constraints.Unsigned
}

// Entry is one immutable key/value pair.
type Entry[K Key, V any] struct {
	Key   K
	Value V
}

// E builds an Entry.
func E[K Key, V any](k K, v V) Entry[K, V] {
	return Entry[K, V]{Key: k, Value: v}
}
