// Package protocol groups the wire primitives for fixed-format messages.
//
// Ownership boundary:
// - wire: fixed-size message stream read/write
//
// Messages have no framing: the definition alone fixes the size of every
// message on a stream.
package protocol
