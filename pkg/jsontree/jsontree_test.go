package jsontree

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePreservesOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": {"b": 1, "a": 2}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	obj := v.(*Object)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	mid, _ := obj.Object("mid")
	if diff := cmp.Diff([]string{"b", "a"}, mid.Keys()); diff != "" {
		t.Errorf("nested keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		lit    string
		isInt  bool
		output string
	}{
		{"0", true, "0"},
		{"-12", true, "-12"},
		{"999999999999999999", true, "999999999999999999"},
		{"1.5", false, "1.5"},
		{"1.0", false, "1.0"},
		{"1e3", false, "1e3"},
	}
	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			v, err := Parse([]byte(tt.lit))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			n := v.(Number)
			if n.IsInt() != tt.isInt {
				t.Errorf("IsInt() = %v, want %v", n.IsInt(), tt.isInt)
			}
			out, err := Marshal(n)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(out) != tt.output {
				t.Errorf("Marshal() = %s, want %s", out, tt.output)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"truncated object", `{"a": 1`},
		{"truncated array", `[1, 2`},
		{"bad syntax", `{"a" 1}`},
		{"binary", "\x00\x01\x02\xff"},
		{"trailing data", `{} {}`},
		{"nan token", `{"a": NaN}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestParseEmptyAndTruncated(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse(nil) error = %v, want ErrEmpty", err)
	}
	if _, err := Parse([]byte(`{"a": [1,`)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestMarshalLayout(t *testing.T) {
	v := ObjectOf(
		"version", "9.0",
		"width", 1920,
		"empty", Array{},
		"obj", NewObject(0),
		"list", []any{1, 2.5, nil, true},
	)
	got, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{
  "version": "9.0",
  "width": 1920,
  "empty": [],
  "obj": {},
  "list": [
    1,
    2.5,
    null,
    true
  ]
}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	compact, err := MarshalCompact(v)
	if err != nil {
		t.Fatalf("MarshalCompact: %v", err)
	}
	wantCompact := `{"version": "9.0", "width": 1920, "empty": [], "obj": {}, "list": [1, 2.5, null, true]}`
	if string(compact) != wantCompact {
		t.Errorf("MarshalCompact() = %s, want %s", compact, wantCompact)
	}
}

func TestMarshalStrings(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		ascii bool
		want  string
	}{
		{"plain", "hello", false, `"hello"`},
		{"quotes", `say "hi"`, false, `"say \"hi\""`},
		{"controls", "a\nb\tc\x01", false, `"a\nb\tc\u0001"`},
		{"unicode raw", "café 🎬", false, `"café 🎬"`},
		{"unicode ascii", "café", true, `"caf\u00e9"`},
		{"astral ascii", "🎬", true, `"\ud83c\udfac"`},
		{"html untouched", "<a>&", false, `"<a>&"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			enc := NewEncoder(&sb)
			enc.SetEnsureASCII(tt.ascii)
			if err := enc.Encode(String(tt.in)); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if sb.String() != tt.want {
				t.Errorf("Encode(%q) = %s, want %s", tt.in, sb.String(), tt.want)
			}
		})
	}
}

func TestMarshalNonFinite(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := Marshal(Array{Float(f)})
		var nf *NonFiniteError
		if !errors.As(err, &nf) {
			t.Errorf("Marshal(%v) error = %v, want NonFiniteError", f, err)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{2880, "2880.0"},
		{0.1, "0.1"},
		{-2.5, "-2.5"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1.5e-7, "1.5e-07"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
		{-math.MaxFloat64, "-1.7976931348623157e+308"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIntegral(t *testing.T) {
	tests := []struct {
		in    float64
		want  string
		isInt bool
	}{
		{2880, "2880", true},
		{-0.0, "0", true},
		{1e20, "100000000000000000000", true},
		{2.5, "2.5", false},
		{math.Inf(1), "Infinity", false},
	}
	for _, tt := range tests {
		n := Integral(tt.in)
		if n.String() != tt.want || n.IsInt() != tt.isInt {
			t.Errorf("Integral(%v) = %s (int=%v), want %s (int=%v)", tt.in, n, n.IsInt(), tt.want, tt.isInt)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	input := `{
  "title": "Demo",
  "editRate": 705600000,
  "big": 999999999999999999,
  "ratio": 0.5,
  "nested": {
    "list": [
      {
        "id": 1,
        "flag": false,
        "note": null
      }
    ]
  }
}`
	v, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if diff := cmp.Diff(input, string(out)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectOperations(t *testing.T) {
	o := NewObject(0)
	o.Set("a", Int(1))
	o.Set("b", Int(2))
	o.Set("c", Int(3))
	o.Set("a", Int(10))

	if diff := cmp.Diff([]string{"a", "b", "c"}, o.Keys()); diff != "" {
		t.Errorf("keys after overwrite (-want +got):\n%s", diff)
	}
	if n, _ := o.Number("a"); n.Int64() != 10 {
		t.Errorf("a = %v, want 10", n)
	}

	if !o.Delete("b") {
		t.Fatal("Delete(b) = false")
	}
	if o.Delete("missing") {
		t.Error("Delete(missing) = true")
	}
	if diff := cmp.Diff([]string{"a", "c"}, o.Keys()); diff != "" {
		t.Errorf("keys after delete (-want +got):\n%s", diff)
	}
	if n, _ := o.Number("c"); n.Int64() != 3 {
		t.Errorf("c = %v after delete, want 3", n)
	}

	var zero Object
	zero.Set("x", nil)
	if v, ok := zero.Get("x"); !ok || !IsNull(v) {
		t.Errorf("zero-value Object Set/Get = %v, %v", v, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := ObjectOf("inner", ObjectOf("w", 1), "list", []any{1, 2})
	cp := Clone(orig).(*Object)

	inner, _ := cp.Object("inner")
	inner.Set("w", Int(99))
	list, _ := cp.Array("list")
	list[0] = Int(42)

	origInner, _ := orig.Object("inner")
	if n, _ := origInner.Number("w"); n.Int64() != 1 {
		t.Errorf("original mutated through clone: w = %v", n)
	}
	origList, _ := orig.Array("list")
	if n := origList[0].(Number); n.Int64() != 1 {
		t.Errorf("original list mutated through clone: %v", n)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int vs float", Int(1), Float(1), true},
		{"literal", ParseNumber("1.50"), ParseNumber("1.5"), true},
		{"key order ignored", ObjectOf("a", 1, "b", 2), ObjectOf("b", 2, "a", 1), true},
		{"different value", ObjectOf("a", 1), ObjectOf("a", 2), false},
		{"null vs nil", Null{}, nil, true},
		{"string vs number", String("1"), Int(1), false},
		{"array length", Array{Int(1)}, Array{Int(1), Int(2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
