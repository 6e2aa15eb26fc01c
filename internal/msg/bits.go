package msg

import "github.com/bits-and-blooms/bitset"

// Bits returns a set with exactly the given callback slots.
func Bits(slots ...uint) *bitset.BitSet {
	b := new(bitset.BitSet)
	for _, s := range slots {
		b.Set(s)
	}
	return b
}

// Slots lists the members of b in ascending order.
func Slots(b *bitset.BitSet) []uint {
	if b == nil {
		return nil
	}
	var out []uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

// highestSlot returns the largest member of b.
func highestSlot(b *bitset.BitSet) (uint, bool) {
	if b == nil {
		return 0, false
	}
	var top uint
	found := false
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		top, found = i, true
	}
	return top, found
}

// wordAt returns 64-bit word w of b; words past the end are empty.
func wordAt(b *bitset.BitSet, w int) uint64 {
	if b == nil {
		return 0
	}
	words := b.Words()
	if w >= len(words) {
		return 0
	}
	return words[w]
}
