// Package attrview wraps untyped nested configuration data (maps, sequences,
// scalars) in a read-only tree that remembers key order. Nested maps are
// reached by field name or dotted path instead of key lookup, and serialising
// a view reproduces the original structure and key order exactly.
package attrview
