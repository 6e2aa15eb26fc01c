package msg

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/danmuck/fieldmux/internal/lookup"
)

// Extractor reads one integral field value from a message.
type Extractor interface {
	Extract(m Message) uint32
}

// Table maps one field value to the set of callback slots interested in it.
type Table = lookup.Lookup[uint32, *bitset.BitSet]

// TableInput is the sparse description of a Table.
type TableInput = lookup.Input[uint32, *bitset.BitSet]

// Index narrows candidate callbacks by the value of one field.
type Index struct {
	field Extractor
	table *Table
}

// NewIndex binds a field to a built table. The table's sets must not be
// modified afterwards.
func NewIndex(field Extractor, table *Table) Index {
	return Index{field: field, table: table}
}

// BuildIndex builds a table from in and binds it to field. Sets are copied,
// so the caller keeps ownership of the input.
func BuildIndex(field Extractor, in TableInput) Index {
	owned := lookup.Input[uint32, *bitset.BitSet]{
		Default: cloneSet(in.Default),
		Entries: make([]lookup.Entry[uint32, *bitset.BitSet], 0, len(in.Entries)),
	}
	for _, e := range in.Entries {
		owned.Entries = append(owned.Entries, lookup.E(e.Key, cloneSet(e.Value)))
	}
	return NewIndex(field, lookup.Make(owned))
}

// Candidates returns the callback slots eligible for m by this index alone.
func (ix Index) Candidates(m Message) *bitset.BitSet {
	return ix.table.Get(ix.field.Extract(m))
}

func (ix Index) Table() *Table {
	return ix.table
}

func (ix Index) valid() bool {
	return ix.field != nil && ix.table != nil
}

func cloneSet(b *bitset.BitSet) *bitset.BitSet {
	if b == nil {
		return new(bitset.BitSet)
	}
	return b.Clone()
}
