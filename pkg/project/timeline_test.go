package project

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

const timelineDoc = `{
  "trackAttributes": [{"ident": "Voice"}, {"ident": "Screen"}],
  "parameters": {"toc": {"type": "string", "keyframes": [
    {"time": 300, "value": "Outro"},
    {"time": 0, "value": "Intro"}
  ]}},
  "markers": [{"name": "Legacy", "time": 150}],
  "sceneTrack": {"scenes": [{"csml": {"tracks": [
    {"trackIndex": 0, "medias": [{"id": 1, "_type": "AMFile", "src": 2, "start": 0, "duration": 100}]},
    {"trackIndex": 1, "transitions": [{"duration": 10}], "medias": [
      {"id": 2, "_type": "VMFile", "src": 1, "start": 100, "duration": 200, "effects": [{"effectName": "DropShadow"}]},
      {"id": 3, "_type": "Group", "start": 300, "duration": 50, "tracks": [
        {"medias": [{"id": 4, "_type": "IMFile", "src": 3}]}
      ]},
      {"id": 5, "_type": "UnifiedMedia", "video": {"id": 6, "_type": "ScreenVMFile", "src": 4}, "audio": {"id": 7, "_type": "AMFile", "src": 4}},
      "not a media"
    ]}
  ]}}]}
}`

func parseTimeline(t *testing.T) *jsontree.Object {
	t.Helper()
	v, err := jsontree.Parse([]byte(timelineDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return v.(*jsontree.Object)
}

func TestTracks(t *testing.T) {
	tracks := Tracks(parseTimeline(t))
	if len(tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", len(tracks))
	}
	if tracks[0].Name != "Voice" || tracks[1].Name != "Screen" {
		t.Errorf("names = %q, %q", tracks[0].Name, tracks[1].Name)
	}
	if len(tracks[1].Medias) != 3 {
		t.Errorf("track 1 medias = %d, want 3 (non-objects skipped)", len(tracks[1].Medias))
	}
	if tracks[1].Transitions != 1 {
		t.Errorf("transitions = %d, want 1", tracks[1].Transitions)
	}
}

func TestWalkMedia(t *testing.T) {
	var ids []int64
	var depths []int
	WalkMedia(parseTimeline(t), func(m *jsontree.Object, depth int) {
		n, _ := m.Number("id")
		ids = append(ids, n.Int64())
		depths = append(depths, depth)
	})
	if diff := cmp.Diff([]int64{1, 2, 3, 4, 5, 6, 7}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 0, 1, 0, 1, 1}, depths); diff != "" {
		t.Errorf("depths (-want +got):\n%s", diff)
	}
}

func TestMarkers(t *testing.T) {
	want := []Marker{{"Intro", 0}, {"Legacy", 150}, {"Outro", 300}}
	if diff := cmp.Diff(want, Markers(parseTimeline(t))); diff != "" {
		t.Errorf("Markers (-want +got):\n%s", diff)
	}
}

func TestTimelineHelpersOnMalformed(t *testing.T) {
	bad := jsontree.ObjectOf("sceneTrack", jsontree.ObjectOf("scenes", "nope"))
	if got := Tracks(bad); len(got) != 0 {
		t.Errorf("Tracks(malformed) = %v", got)
	}
	if got := Markers(jsontree.NewObject(0)); len(got) != 0 {
		t.Errorf("Markers(empty) = %v", got)
	}
	WalkMedia(nil, func(*jsontree.Object, int) { t.Error("callback on nil timeline") })
}

func TestMediaHelpers(t *testing.T) {
	m := jsontree.ObjectOf("start", 100, "duration", 50, "effects", []any{1, 2})
	if MediaEnd(m) != 150 {
		t.Errorf("MediaEnd = %v", MediaEnd(m))
	}
	if EffectCount(m) != 2 {
		t.Errorf("EffectCount = %d", EffectCount(m))
	}
}
