// Package lookup owns build-once, read-many key/value tables.
//
// Ownership boundary:
// - entry and input primitives (sparse description of a total mapping)
// - storage strategy selection (dense array, sorted table, linear scan)
// - total lookup: absent keys resolve to the input default
package lookup
