package jsontree

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

// String returns the JSON type name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is any JSON value. The concrete type is one of Null, Bool,
// Number, String, Array or *Object.
type Value interface {
	Kind() Kind
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Number) Kind() Kind { return KindNumber }

// Number is a JSON number. A decoded number keeps its source literal so that
// it is written back exactly; a computed number holds a float64 and remembers
// whether it should be rendered as an integer.
type Number struct {
	text  string
	f     float64
	isInt bool
}

// ParseNumber wraps a JSON number literal. The literal must be valid JSON
// number syntax; callers decoding with encoding/json get this for free.
func ParseNumber(lit string) Number {
	f, _ := strconv.ParseFloat(lit, 64)
	return Number{
		text:  lit,
		f:     f,
		isInt: !strings.ContainsAny(lit, ".eE"),
	}
}

// Int returns an integer number.
func Int(i int64) Number {
	return Number{text: strconv.FormatInt(i, 10), f: float64(i), isInt: true}
}

// Float returns a floating point number. It is rendered with a fractional
// part or exponent, never as a bare integer.
func Float(f float64) Number {
	return Number{f: f}
}

// Integral returns a number rendered as an integer. f must be a whole
// number; non-finite or fractional input falls back to Float.
func Integral(f float64) Number {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return Float(f)
	}
	if f == 0 {
		f = 0 // drop negative zero
	}
	return Number{text: strconv.FormatFloat(f, 'f', -1, 64), f: f, isInt: true}
}

// Float64 returns the numeric value.
func (n Number) Float64() float64 { return n.f }

// IsInt reports whether the number is an integer literal or was produced
// by Int or Integral.
func (n Number) IsInt() bool { return n.isInt }

// IsFinite reports whether the value is neither infinite nor NaN.
func (n Number) IsFinite() bool {
	return !math.IsInf(n.f, 0) && !math.IsNaN(n.f)
}

// Literal returns the source literal of a decoded number, or "" for a
// computed one.
func (n Number) Literal() string { return n.text }

// Int64 returns the value truncated to an int64.
func (n Number) Int64() int64 {
	if n.isInt && n.text != "" {
		if i, err := strconv.ParseInt(n.text, 10, 64); err == nil {
			return i
		}
	}
	return int64(n.f)
}

// String renders the number the way the encoder would.
func (n Number) String() string {
	if n.text != "" {
		return n.text
	}
	return FormatFloat(n.f)
}

// IsNull reports whether v is nil or the JSON null literal.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Clone returns a deep copy of v. Scalars are immutable and returned as is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are the same JSON value. Numbers compare by
// value, so 1 and 1.0 are equal; objects compare by key set regardless of
// order.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		if x.text != "" && x.text == y.text {
			return true
		}
		return x.f == y.f || (math.IsNaN(x.f) && math.IsNaN(y.f))
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, m := range x.members {
			other, ok := y.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
