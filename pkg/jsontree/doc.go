// Package jsontree provides an order-preserving JSON value tree.
//
// # Overview
//
// Project files are large nested JSON documents whose exact shape is only
// partly known. Decoding them into map[string]any loses key order and turns
// every number into a float64, which rewrites integers such as
// 999999999999999999 and reorders every object on save. This package keeps
// both: objects remember insertion order and numbers keep their source
// literal until arithmetic replaces them.
//
// # Values
//
// [Value] is a closed tagged union with six variants:
//
//   - [Null]
//   - [Bool]
//   - [String]
//   - [Number], a literal or a computed float64 with an integer flag
//   - [Array], an ordered slice of values
//   - [*Object], an insertion-ordered map
//
// Callers switch on the concrete type:
//
//	switch v := val.(type) {
//	case *jsontree.Object:
//	    for _, m := range v.Members() { ... }
//	case jsontree.Number:
//	    f := v.Float64()
//	}
//
// # Decoding and Encoding
//
// [Decode] and [Parse] read a single JSON document. [Encoder] writes a tree
// using the layout of the desktop editor's own files: two-space indent,
// ": " after keys, optional ASCII escaping, and shortest round-trip float
// formatting with a trailing ".0" on integral floats.
//
// Non-finite numbers cannot be encoded; pass the tree through
// [github.com/matzehuels/tscproj/pkg/sanitize] first.
package jsontree
