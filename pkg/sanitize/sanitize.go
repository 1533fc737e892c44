// Package sanitize replaces non-finite numbers in a value tree with finite
// sentinels so that the tree can be encoded as standard JSON.
//
// Scaling can overflow to infinity and upstream tools occasionally write
// NaN into project files. JSON has no spelling for either, so every save
// runs [Value] over the tree first:
//
//	+Inf -> -MinSafeFloat (the largest finite double)
//	-Inf ->  MinSafeFloat (the most negative finite double)
//	NaN  ->  0.0
//
// All other values, including integers, strings, booleans and null, are
// returned unchanged. The input tree is never modified.
package sanitize

import (
	"math"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

// MinSafeFloat is the most negative finite float64.
const MinSafeFloat = -math.MaxFloat64

// Float maps a single float64 to a finite value.
func Float(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0.0
	case math.IsInf(f, 1):
		return -MinSafeFloat
	case math.IsInf(f, -1):
		return MinSafeFloat
	}
	return f
}

// Value returns v with every non-finite number replaced. Subtrees without
// non-finite numbers are shared with the input rather than copied.
func Value(v jsontree.Value) jsontree.Value {
	out, _ := walk(v)
	return out
}

// IsClean reports whether v contains no non-finite numbers.
func IsClean(v jsontree.Value) bool {
	_, changed := walk(v)
	return !changed
}

func walk(v jsontree.Value) (jsontree.Value, bool) {
	switch t := v.(type) {
	case jsontree.Number:
		if t.IsFinite() {
			return t, false
		}
		return jsontree.Float(Float(t.Float64())), true
	case jsontree.Array:
		var out jsontree.Array
		for i, el := range t {
			nv, changed := walk(el)
			if changed && out == nil {
				out = make(jsontree.Array, len(t))
				copy(out, t[:i])
			}
			if out != nil {
				out[i] = nv
			}
		}
		if out == nil {
			return t, false
		}
		return out, true
	case *jsontree.Object:
		var out *jsontree.Object
		for i, m := range t.Members() {
			nv, changed := walk(m.Value)
			if changed && out == nil {
				out = jsontree.NewObject(t.Len())
				for _, prev := range t.Members()[:i] {
					out.Set(prev.Key, prev.Value)
				}
			}
			if out != nil {
				out.Set(m.Key, nv)
			}
		}
		if out == nil {
			return t, false
		}
		return out, true
	}
	return v, false
}
