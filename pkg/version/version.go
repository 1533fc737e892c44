// Package version classifies project documents by schema version and
// describes the features each version carries.
//
// Detection is a priority-ordered signature check over the raw document:
//
//  1. A "version" string whose major number is 9 or above is V9.
//  2. An "editRate" at or above [HighPrecisionEditRate] is V9 even when the
//     stated version is stale, absent or unrecognised.
//  3. Versions "4.x" and "1.x" map to V4 and V1.
//  4. Anything else is Unknown.
//
// [Detect] and [FeaturesFor] are pure and safe for concurrent use.
package version

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

// Tag identifies a project schema version.
type Tag int

const (
	Unknown Tag = iota
	V1_0
	V4_0
	V9_0
)

// String returns the canonical version string, or "unknown".
func (t Tag) String() string {
	switch t {
	case V1_0:
		return "1.0"
	case V4_0:
		return "4.0"
	case V9_0:
		return "9.0"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler for reports.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	*t = Parse(string(b))
	return nil
}

// Parse maps a version string to its Tag by major version.
func Parse(s string) Tag {
	return fromMajor(Major(s))
}

// HighPrecisionEditRate is the tick rate used by projects with high-precision
// timing. Any edit rate at or above it implies a V9-class project.
const HighPrecisionEditRate = 705600000

// Supported lists the version strings a strict loader accepts.
var Supported = []string{"4.0", "9.0"}

// Features describes capabilities gated on the schema version.
type Features struct {
	HighPrecisionTiming   bool `json:"has_high_precision_timing" yaml:"has_high_precision_timing"`
	LoudnessNormalization bool `json:"has_loudness_normalization" yaml:"has_loudness_normalization"`
	AuthoringClient       bool `json:"has_authoring_client" yaml:"has_authoring_client"`
}

var featureTable = map[Tag]Features{
	V1_0:    {},
	V4_0:    {AuthoringClient: true},
	V9_0:    {HighPrecisionTiming: true, LoudnessNormalization: true, AuthoringClient: true},
	Unknown: {},
}

// FeaturesFor returns the feature row for t.
func FeaturesFor(t Tag) Features {
	return featureTable[t]
}

// Detect classifies a raw project document. Non-object input is Unknown.
func Detect(raw jsontree.Value) Tag {
	obj, ok := raw.(*jsontree.Object)
	if !ok {
		return Unknown
	}
	stated := Unknown
	major := -1
	if s, ok := obj.Text("version"); ok {
		major = Major(s)
		stated = fromMajor(major)
	}
	if major >= 9 {
		return V9_0
	}
	if rate, ok := obj.Float("editRate"); ok && rate >= HighPrecisionEditRate {
		return V9_0
	}
	return stated
}

func fromMajor(major int) Tag {
	switch {
	case major >= 9:
		return V9_0
	case major == 4:
		return V4_0
	case major == 1:
		return V1_0
	}
	return Unknown
}

// Major returns the leading integer of a dotted version string, or -1.
func Major(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// IsSupported reports whether a strict loader accepts the version string.
func IsSupported(s string) bool {
	for _, v := range Supported {
		if s == v {
			return true
		}
	}
	return false
}
