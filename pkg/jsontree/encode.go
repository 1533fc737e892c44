package jsontree

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NonFiniteError is returned when the encoder meets an infinite or NaN number.
type NonFiniteError struct {
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("jsontree: unsupported value %v", e.Value)
}

// Encoder writes JSON values to an output stream.
type Encoder struct {
	w           *bufio.Writer
	indent      string
	ensureASCII bool
}

// NewEncoder returns an encoder writing to w with a two-space indent.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), indent: "  "}
}

// SetIndent sets the per-level indent. An empty indent produces compact
// output with ", " and ": " separators.
func (e *Encoder) SetIndent(indent string) {
	e.indent = indent
}

// SetEnsureASCII makes the encoder escape every non-ASCII character as \uXXXX.
func (e *Encoder) SetEnsureASCII(on bool) {
	e.ensureASCII = on
}

// Encode writes v followed by nothing else. It fails on non-finite numbers.
func (e *Encoder) Encode(v Value) error {
	if err := e.value(v, 0); err != nil {
		return err
	}
	return e.w.Flush()
}

// Marshal encodes v with a two-space indent.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCompact encodes v on a single line.
func MarshalCompact(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetIndent("")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) value(v Value, depth int) error {
	switch t := v.(type) {
	case nil, Null:
		e.w.WriteString("null")
	case Bool:
		if t {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}
	case String:
		e.str(string(t))
	case Number:
		if t.text != "" {
			e.w.WriteString(t.text)
			return nil
		}
		if !t.IsFinite() {
			return &NonFiniteError{Value: t.f}
		}
		if t.isInt {
			e.w.WriteString(strconv.FormatFloat(t.f, 'f', -1, 64))
		} else {
			e.w.WriteString(FormatFloat(t.f))
		}
	case Array:
		if len(t) == 0 {
			e.w.WriteString("[]")
			return nil
		}
		e.w.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				e.separator()
			}
			e.newline(depth + 1)
			if err := e.value(el, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.w.WriteByte(']')
	case *Object:
		if t.Len() == 0 {
			e.w.WriteString("{}")
			return nil
		}
		e.w.WriteByte('{')
		for i, m := range t.members {
			if i > 0 {
				e.separator()
			}
			e.newline(depth + 1)
			e.str(m.Key)
			e.w.WriteString(": ")
			if err := e.value(m.Value, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.w.WriteByte('}')
	default:
		return fmt.Errorf("jsontree: unsupported value type %T", v)
	}
	return nil
}

func (e *Encoder) separator() {
	if e.indent == "" {
		e.w.WriteString(", ")
		return
	}
	e.w.WriteByte(',')
}

func (e *Encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.w.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.w.WriteString(e.indent)
	}
}

const hex = "0123456789abcdef"

func (e *Encoder) str(s string) {
	e.w.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				e.w.WriteString(`\"`)
			case '\\':
				e.w.WriteString(`\\`)
			case '\n':
				e.w.WriteString(`\n`)
			case '\r':
				e.w.WriteString(`\r`)
			case '\t':
				e.w.WriteString(`\t`)
			case '\b':
				e.w.WriteString(`\b`)
			case '\f':
				e.w.WriteString(`\f`)
			default:
				if c < 0x20 || c == 0x7f && e.ensureASCII {
					e.escape(rune(c))
				} else {
					e.w.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case !e.ensureASCII && r != utf8.RuneError:
			e.w.WriteString(s[i : i+size])
		case r > 0xFFFF:
			r -= 0x10000
			e.escape(0xD800 + (r>>10)&0x3FF)
			e.escape(0xDC00 + r&0x3FF)
		default:
			e.escape(r)
		}
		i += size
	}
	e.w.WriteByte('"')
}

func (e *Encoder) escape(r rune) {
	e.w.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		e.w.WriteByte(hex[(r>>uint(shift))&0xF])
	}
}

// FormatFloat renders f as the shortest decimal that round-trips. Values
// with a decimal exponent below -4 or at least 16 use exponent notation;
// integral values keep a trailing ".0".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
