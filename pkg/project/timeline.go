package project

import (
	"sort"

	"github.com/matzehuels/tscproj/pkg/jsontree"
)

// Track is a read-only view of one top-level timeline track.
type Track struct {
	Scene       int
	Index       int
	Name        string
	Medias      []*jsontree.Object
	Transitions int
}

// Tracks lists the tracks of every scene in order. Malformed scenes or
// tracks are skipped.
func Tracks(timeline *jsontree.Object) []Track {
	names := trackNames(timeline)
	var out []Track
	for si, scene := range scenes(timeline) {
		csml, ok := scene.Object("csml")
		if !ok {
			continue
		}
		tracks, _ := csml.Array("tracks")
		for ti, el := range tracks {
			tr, ok := el.(*jsontree.Object)
			if !ok {
				continue
			}
			t := Track{Scene: si, Index: ti}
			if n, ok := tr.Number("trackIndex"); ok {
				t.Index = int(n.Int64())
			}
			if t.Index >= 0 && t.Index < len(names) {
				t.Name = names[t.Index]
			}
			t.Medias = objects(tr, "medias")
			if trans, ok := tr.Array("transitions"); ok {
				t.Transitions = len(trans)
			}
			out = append(out, t)
		}
	}
	return out
}

func scenes(timeline *jsontree.Object) []*jsontree.Object {
	st, ok := timeline.Object("sceneTrack")
	if !ok {
		return nil
	}
	return objects(st, "scenes")
}

func trackNames(timeline *jsontree.Object) []string {
	attrs, _ := timeline.Array("trackAttributes")
	names := make([]string, len(attrs))
	for i, a := range attrs {
		if obj, ok := a.(*jsontree.Object); ok {
			names[i], _ = obj.Text("ident")
		}
	}
	return names
}

// objects returns the object elements of o[key].
func objects(o *jsontree.Object, key string) []*jsontree.Object {
	arr, _ := o.Array(key)
	out := make([]*jsontree.Object, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(*jsontree.Object); ok {
			out = append(out, obj)
		}
	}
	return out
}

// WalkMedia calls fn for every media object on the timeline, descending
// into groups, unified media and stitched media. depth is 0 for media
// placed directly on a track.
func WalkMedia(timeline *jsontree.Object, fn func(media *jsontree.Object, depth int)) {
	for _, t := range Tracks(timeline) {
		for _, m := range t.Medias {
			walkMedia(m, 0, fn)
		}
	}
}

func walkMedia(m *jsontree.Object, depth int, fn func(*jsontree.Object, int)) {
	fn(m, depth)
	typ, _ := m.Text("_type")
	switch typ {
	case "Group":
		for _, tr := range objects(m, "tracks") {
			for _, child := range objects(tr, "medias") {
				walkMedia(child, depth+1, fn)
			}
		}
	case "UnifiedMedia":
		for _, key := range []string{"video", "audio"} {
			if child, ok := m.Object(key); ok {
				walkMedia(child, depth+1, fn)
			}
		}
	case "StitchedMedia":
		for _, child := range objects(m, "medias") {
			walkMedia(child, depth+1, fn)
		}
	}
}

// Marker is a named point on the timeline.
type Marker struct {
	Name string `json:"name" yaml:"name"`
	Time int64  `json:"time" yaml:"time"`
}

// Markers returns timeline markers sorted by time. They are read from the
// "toc" parameter keyframes and from a legacy "markers" list.
func Markers(timeline *jsontree.Object) []Marker {
	var out []Marker
	if params, ok := timeline.Object("parameters"); ok {
		if toc, ok := params.Object("toc"); ok {
			for _, kf := range objects(toc, "keyframes") {
				m := Marker{}
				m.Name, _ = kf.Text("value")
				if n, ok := kf.Number("time"); ok {
					m.Time = n.Int64()
				}
				out = append(out, m)
			}
		}
	}
	for _, mk := range objects(timeline, "markers") {
		m := Marker{}
		m.Name, _ = mk.Text("name")
		if n, ok := mk.Number("time"); ok {
			m.Time = n.Int64()
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// MediaEnd returns start+duration of a media object in edit-rate ticks.
func MediaEnd(m *jsontree.Object) float64 {
	start, _ := m.Float("start")
	dur, _ := m.Float("duration")
	return start + dur
}

// EffectCount returns the number of effects on a media object.
func EffectCount(m *jsontree.Object) int {
	effects, _ := m.Array("effects")
	return len(effects)
}
