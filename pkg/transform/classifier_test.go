package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSpatialParameter(t *testing.T) {
	tests := []struct {
		name   string
		want   Action
		wantOK bool
	}{
		{"translation0", ScaleRounded, true},
		{"translation2", ScaleRounded, true},
		{"translation3", Passthrough, false},
		{"scale0", ScaleContinuous, true},
		{"scale2", ScaleContinuous, true},
		{"scale10", Passthrough, false},
		{"scale", Passthrough, false},
		{"geometryCrop0", ScaleRounded, true},
		{"geometryCrop3", ScaleRounded, true},
		{"geometryCrop4", Passthrough, false},
		{"translationX", Passthrough, false},
		{"Scale0", Passthrough, false},
		{"opacity", Passthrough, false},
		{"", Passthrough, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SpatialParameter(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SpatialParameter(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassifyUnknownKeys(t *testing.T) {
	for _, kind := range []Kind{Spatial, Temporal} {
		for r := RegionNone; r <= RegionCalloutDef; r++ {
			for _, m := range []MediaKind{MediaUnknown, MediaVideo, MediaAudio} {
				ctx := Context{Kind: kind, Region: r, Media: m, PreserveAudio: true}
				got := Classify("mysteryField", ctx)
				if got.Action != Passthrough {
					t.Errorf("%v region %d media %v: action = %v, want passthrough", kind, r, m, got.Action)
				}
				// Parameter names and animation track names are open sets:
				// any key there names a container.
				switch r {
				case RegionParameters:
					if diff := cmp.Diff(object(RegionCurve), got); diff != "" {
						t.Errorf("%v parameters (-want +got):\n%s", kind, diff)
					}
				case RegionAnimationTracks:
					if diff := cmp.Diff(list(RegionAnimation), got); diff != "" {
						t.Errorf("%v animation tracks (-want +got):\n%s", kind, diff)
					}
				default:
					if got != pass {
						t.Errorf("%v region %d media %v: rule = %+v, want pass", kind, r, m, got)
					}
				}
			}
		}
	}
}

func TestClassify(t *testing.T) {
	media := func(kind Kind, m MediaKind, preserve bool) Context {
		return Context{Kind: kind, Region: RegionMedia, Media: m, PreserveAudio: preserve}
	}
	region := func(kind Kind, r Region) Context {
		return Context{Kind: kind, Region: r}
	}

	tests := []struct {
		name string
		key  string
		ctx  Context
		want Rule
	}{
		// Structure is the same under both kinds.
		{"sourceBin", "sourceBin", region(Spatial, RegionRoot), list(RegionSourceItem)},
		{"timeline", "timeline", region(Temporal, RegionRoot), object(RegionTimeline)},
		{"scenes", "scenes", region(Temporal, RegionSceneTrack), list(RegionScene)},
		{"csml", "csml", region(Spatial, RegionScene), object(RegionCSML)},
		{"medias", "medias", region(Spatial, RegionTrack), list(RegionMedia)},
		{"keyframes", "keyframes", region(Temporal, RegionCurve), list(RegionKeyframe)},
		{"markers", "markers", region(Temporal, RegionTimeline), list(RegionKeyframe)},
		{"callout def", "def", media(Spatial, MediaCallout, false), object(RegionCalloutDef)},
		{"group tracks", "tracks", media(Temporal, MediaGroup, false), list(RegionTrack)},
		{"unified video", "video", media(Spatial, MediaUnified, false), object(RegionMedia)},
		{"stitched medias", "medias", media(Temporal, MediaStitched, false), list(RegionMedia)},
		{"video effects", "effects", media(Temporal, MediaVideo, false), list(RegionEffect)},

		// Canvas and geometry.
		{"canvas width", "width", region(Spatial, RegionRoot), dimension},
		{"canvas width temporal", "width", region(Temporal, RegionRoot), pass},
		{"source rect", "rect", region(Spatial, RegionSourceItem), each},
		{"track rect", "trackRect", region(Spatial, RegionSourceTrack), each},
		{"clip translation", "translation1", media(Spatial, MediaVideo, false), Rule{Action: ScaleRounded}},
		{"clip scale", "scale0", media(Spatial, MediaImage, false), Rule{Action: ScaleContinuous}},
		{"clip crop", "geometryCrop3", media(Spatial, MediaVideo, false), Rule{Action: ScaleRounded}},
		{"clip crop out of range", "geometryCrop4", media(Spatial, MediaVideo, false), pass},
		{"callout corner radius", "corner-radius", region(Spatial, RegionCalloutDef), matching},
		{"geometry parameter", "scale1", region(Spatial, RegionParameters),
			Rule{Action: ScaleContinuous, Into: RegionCurve, Shape: ShapeObject}},
		{"keyframe value", "value", Context{Kind: Spatial, Region: RegionKeyframe, Parameter: "translation0"}, rounded},
		{"keyframe value other parameter", "value", Context{Kind: Spatial, Region: RegionKeyframe, Parameter: "opacity"}, pass},

		// Source track ranges are media-relative and never scale.
		{"source range spatial", "range", region(Spatial, RegionSourceTrack), pass},
		{"source range temporal", "range", region(Temporal, RegionSourceTrack), pass},
		{"animation range temporal", "range", region(Temporal, RegionAnimation), each},
		{"animation range spatial", "range", region(Spatial, RegionAnimation), pass},

		// Timing.
		{"clip start", "start", media(Temporal, MediaVideo, false), rounded},
		{"clip trimStartSum", "trimStartSum", media(Temporal, MediaImage, false), rounded},
		{"keyframe time", "time", region(Temporal, RegionKeyframe), rounded},
		{"transition duration", "duration", region(Temporal, RegionTransition), rounded},
		{"editRate", "editRate", region(Temporal, RegionRoot), pass},

		// Audio: no geometry, and preserved durations only move in time.
		{"audio translation", "translation0", media(Spatial, MediaAudio, false), pass},
		{"audio parameters spatial", "parameters", media(Spatial, MediaAudio, false), pass},
		{"audio start preserved", "start", media(Temporal, MediaAudio, true), rounded},
		{"audio duration preserved", "duration", media(Temporal, MediaAudio, true), pass},
		{"audio mediaDuration preserved", "mediaDuration", media(Temporal, MediaAudio, true), pass},
		{"audio parameters preserved", "parameters", media(Temporal, MediaAudio, true), pass},
		{"audio effects preserved", "effects", media(Temporal, MediaAudio, true), pass},
		{"audio duration scaled", "duration", media(Temporal, MediaAudio, false), rounded},
		{"audio parameters scaled", "parameters", media(Temporal, MediaAudio, false), object(RegionParameters)},
		{"video duration with preserve", "duration", media(Temporal, MediaVideo, true), rounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Classify(tt.key, tt.ctx)); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}
}

func TestRuleDescends(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		shape Shape
		want  bool
	}{
		{"list into list", list(RegionMedia), ShapeList, true},
		{"list into object", list(RegionMedia), ShapeObject, false},
		{"object into object", object(RegionCSML), ShapeObject, true},
		{"object into list", object(RegionCSML), ShapeList, false},
		{"leaf", rounded, ShapeObject, false},
	}
	for _, tt := range tests {
		if got := tt.rule.Descends(tt.shape); got != tt.want {
			t.Errorf("%s: Descends = %v, want %v", tt.name, got, tt.want)
		}
	}
}
