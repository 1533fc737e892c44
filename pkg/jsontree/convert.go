package jsontree

import (
	"encoding/json"
	"fmt"
	"sort"
)

// From converts a plain Go value into a Value. Supported inputs are nil,
// bool, string, the integer and float types, json.Number, []any, []Value,
// map[string]any (keys sorted), and values that already implement Value.
// It panics on anything else; use it for literals and test fixtures.
func From(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null{}
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case json.Number:
		return ParseNumber(string(v))
	case []any:
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = From(e)
		}
		return out
	case []Value:
		return Array(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject(len(keys))
		for _, k := range keys {
			o.Set(k, From(v[k]))
		}
		return o
	}
	panic(fmt.Sprintf("jsontree: unsupported type %T", x))
}

// Interface converts v into plain Go values: nil, bool, string, float64,
// []any and map[string]any. Key order is lost. It is used to hand trees to
// libraries that walk generic decoded JSON, such as schema validators.
func Interface(v Value) any {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case String:
		return string(t)
	case Number:
		if t.text != "" {
			return json.Number(t.text)
		}
		return t.f
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Interface(e)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for _, m := range t.members {
			out[m.Key] = Interface(m.Value)
		}
		return out
	}
	return nil
}
