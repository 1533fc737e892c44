package transform

import (
	"math"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

// TransformTree returns a scaled copy of node. ctx gives the region node
// sits in; factor must already be validated. The input is not modified and
// the result shares no containers with it.
func TransformTree(node jsontree.Value, ctx Context, factor float64) jsontree.Value {
	w := walker{factor: factor}
	return w.value(node, ctx)
}

// walker carries the factor and per-run counters through one walk.
type walker struct {
	factor float64
	scaled int
}

func (w *walker) value(node jsontree.Value, ctx Context) jsontree.Value {
	switch v := node.(type) {
	case *jsontree.Object:
		return w.object(v, ctx)
	case jsontree.Array:
		return w.list(v, ctx)
	}
	return node
}

// list walks the elements of a list-valued container. Elements that are
// not objects are copied unchanged.
func (w *walker) list(arr jsontree.Array, ctx Context) jsontree.Array {
	out := make(jsontree.Array, len(arr))
	for i, el := range arr {
		if obj, ok := el.(*jsontree.Object); ok {
			out[i] = w.object(obj, ctx)
			continue
		}
		out[i] = jsontree.Clone(el)
	}
	return out
}

func (w *walker) object(obj *jsontree.Object, ctx Context) *jsontree.Object {
	if ctx.Region == RegionMedia {
		typ, _ := obj.Text("_type")
		ctx.Media = MediaKindOf(typ)
	}
	out := jsontree.NewObject(obj.Len())
	for _, m := range obj.Members() {
		out.Set(m.Key, w.member(m.Key, m.Value, ctx))
	}
	return out
}

func (w *walker) member(key string, val jsontree.Value, ctx Context) jsontree.Value {
	rule := Classify(key, ctx)
	switch v := val.(type) {
	case jsontree.Number:
		return w.scale(v, rule.Action)
	case jsontree.Array:
		if rule.Action == ScaleEach {
			return w.scaleEach(v)
		}
		if rule.Descends(ShapeList) {
			return w.list(v, ctx.descend(key, rule.Into))
		}
	case *jsontree.Object:
		if rule.Descends(ShapeObject) {
			return w.object(v, ctx.descend(key, rule.Into))
		}
	}
	return jsontree.Clone(val)
}

func (w *walker) scaleEach(arr jsontree.Array) jsontree.Array {
	out := make(jsontree.Array, len(arr))
	for i, el := range arr {
		if n, ok := el.(jsontree.Number); ok {
			out[i] = w.scale(n, ScaleMatching)
			continue
		}
		out[i] = jsontree.Clone(el)
	}
	return out
}

func (w *walker) scale(n jsontree.Number, a Action) jsontree.Number {
	if a == Passthrough || a == ScaleEach || w.factor == 1 {
		return n
	}
	w.scaled++
	return Scale(n, a, w.factor)
}

// Scale applies a single action to n.
func Scale(n jsontree.Number, a Action, factor float64) jsontree.Number {
	x := n.Float64() * factor
	switch a {
	case ScaleRounded:
		r := math.Round(x)
		if n.IsInt() {
			return jsontree.Integral(r)
		}
		return jsontree.Float(r)
	case ScaleContinuous:
		return jsontree.Float(x)
	case ScaleDimension:
		// Clamped to a finite whole number so an overflowing canvas stays
		// a positive integer.
		r := math.Min(math.Max(math.Round(x), 1), math.MaxFloat64)
		return jsontree.Integral(r)
	case ScaleMatching, ScaleEach:
		if n.IsInt() {
			return jsontree.Integral(math.Round(x))
		}
		return jsontree.Float(x)
	}
	return n
}

// descend returns the context for a child container reached through key.
func (c Context) descend(key string, r Region) Context {
	next := c
	next.Region = r
	switch c.Region {
	case RegionParameters:
		next.Parameter = key
	case RegionCurve, RegionKeyframe:
	default:
		next.Parameter = ""
	}
	return next
}
