package media

import "github.com/matzehuels/tscproj/pkg/jsontree"

// walk visits clip and the clips nested inside it.
func walk(clip *jsontree.Object, depth int, fn func(*jsontree.Object, int)) {
	fn(clip, depth)
	for _, child := range children(clip) {
		walk(child, depth+1, fn)
	}
}

// children returns the clips directly nested in a container clip.
func children(clip *jsontree.Object) []*jsontree.Object {
	var out []*jsontree.Object
	typ, _ := clip.Text("_type")
	switch typ {
	case "Group":
		tracks, _ := clip.Array("tracks")
		for _, el := range tracks {
			if tr, ok := el.(*jsontree.Object); ok {
				out = append(out, objects(tr, "medias")...)
			}
		}
	case "UnifiedMedia":
		for _, key := range []string{"video", "audio"} {
			if child, ok := clip.Object(key); ok {
				out = append(out, child)
			}
		}
	case "StitchedMedia":
		out = objects(clip, "medias")
	}
	return out
}

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

// dropClips removes every clip whose src is id from all medias lists on
// the timeline, at any nesting depth. A unified media losing a part loses
// that key. It returns the number of clips removed.
func dropClips(timeline *jsontree.Object, id int64) int {
	return dropIn(timeline, id)
}

func dropIn(v jsontree.Value, id int64) int {
	n := 0
	switch t := v.(type) {
	case *jsontree.Object:
		var gone []string
		for _, m := range t.Members() {
			switch val := m.Value.(type) {
			case jsontree.Array:
				if m.Key == "medias" {
					kept, removed := filterClips(val, id)
					n += removed
					t.Set(m.Key, kept)
					for _, el := range kept {
						n += dropIn(el, id)
					}
					continue
				}
				n += dropIn(val, id)
			case *jsontree.Object:
				if (m.Key == "video" || m.Key == "audio") && references(val, id) {
					gone = append(gone, m.Key)
					continue
				}
				n += dropIn(val, id)
			}
		}
		for _, key := range gone {
			t.Delete(key)
		}
		n += len(gone)
	case jsontree.Array:
		for _, el := range t {
			n += dropIn(el, id)
		}
	}
	return n
}

func filterClips(arr jsontree.Array, id int64) (jsontree.Array, int) {
	kept := make(jsontree.Array, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(*jsontree.Object); ok && references(obj, id) {
			continue
		}
		kept = append(kept, el)
	}
	return kept, len(arr) - len(kept)
}

func references(clip *jsontree.Object, id int64) bool {
	src, ok := clip.Number("src")
	return ok && src.Int64() == id
}
