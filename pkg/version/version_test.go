package version

import (
	"testing"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		raw  jsontree.Value
		want Tag
	}{
		{"empty", jsontree.NewObject(0), Unknown},
		{"v4", jsontree.ObjectOf("version", "4.0", "editRate", 60), V4_0},
		{"v4 minor", jsontree.ObjectOf("version", "4.2"), V4_0},
		{"v1", jsontree.ObjectOf("version", "1.0", "editRate", 30), V1_0},
		{"v9", jsontree.ObjectOf("version", "9.0", "editRate", 705600000), V9_0},
		{"newer major", jsontree.ObjectOf("version", "15.0"), V9_0},
		{"stale version high rate", jsontree.ObjectOf("version", "4.0", "editRate", 705600000), V9_0},
		{"absent version high rate", jsontree.ObjectOf("editRate", 705600000), V9_0},
		{"absent version low rate", jsontree.ObjectOf("editRate", 30), Unknown},
		{"garbage version", jsontree.ObjectOf("version", "abc"), Unknown},
		{"numeric version field", jsontree.ObjectOf("version", 4), Unknown},
		{"string edit rate", jsontree.ObjectOf("editRate", "705600000"), Unknown},
		{"not an object", jsontree.Array{}, Unknown},
		{"nil", nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.raw); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectDeterministic(t *testing.T) {
	raw := jsontree.ObjectOf("version", "4.0", "editRate", 60)
	first := Detect(raw)
	for i := 0; i < 10; i++ {
		if got := Detect(raw); got != first {
			t.Fatalf("Detect() changed between calls: %v then %v", first, got)
		}
	}
}

func TestFeaturesFor(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Features
	}{
		{V9_0, Features{HighPrecisionTiming: true, LoudnessNormalization: true, AuthoringClient: true}},
		{V4_0, Features{AuthoringClient: true}},
		{V1_0, Features{}},
		{Unknown, Features{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := FeaturesFor(tt.tag); got != tt.want {
				t.Errorf("FeaturesFor(%v) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestMajor(t *testing.T) {
	tests := map[string]int{
		"9.0":  9,
		"4.2":  4,
		"15":   15,
		" 1.0": 1,
		"":     -1,
		"x.1":  -1,
		"-1.0": -1,
	}
	for in, want := range tests {
		if got := Major(in); got != want {
			t.Errorf("Major(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	for _, s := range []string{"4.0", "9.0"} {
		if !IsSupported(s) {
			t.Errorf("IsSupported(%q) = false", s)
		}
	}
	for _, s := range []string{"1.0", "15.0", "", "4"} {
		if IsSupported(s) {
			t.Errorf("IsSupported(%q) = true", s)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, tag := range []Tag{V1_0, V4_0, V9_0, Unknown} {
		text, _ := tag.MarshalText()
		var got Tag
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != tag {
			t.Errorf("round trip %v = %v", tag, got)
		}
	}
	if Parse("15.2") != V9_0 || Parse("4.1") != V4_0 || Parse("x") != Unknown {
		t.Error("Parse mapped a version wrongly")
	}
}
