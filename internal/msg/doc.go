// Package msg owns fixed-format message primitives and callback dispatch.
//
// Ownership boundary:
// - field locations and value extraction over 32-bit words
// - message definitions and owning messages
// - field indices and the indexed handler (set-intersection dispatch)
// - handler builder and linear handler (configuration-fragment composition)
//
// Handlers are built once and are read-only afterwards; Handle and IsMatch are
// safe for concurrent use and do not allocate.
package msg
