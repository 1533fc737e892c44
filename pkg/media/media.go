package media

import (
	"fmt"
	"sort"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/project"
)

// Reference is one timeline clip using a source bin entry.
type Reference struct {
	Scene   int    `json:"scene" yaml:"scene"`
	Track   int    `json:"track" yaml:"track"`
	ClipID  int64  `json:"clip_id" yaml:"clip_id"`
	Type    string `json:"type" yaml:"type"`
	Depth   int    `json:"depth" yaml:"depth"`
	StartAt int64  `json:"start" yaml:"start"`
}

// Find returns the index of the bin entry with id, or -1.
func Find(p *project.Project, id int64) int {
	for i, item := range p.SourceBin {
		if item.ID() == id {
			return i
		}
	}
	return -1
}

// References lists every clip whose src is id.
func References(p *project.Project, id int64) ([]Reference, error) {
	if Find(p, id) < 0 {
		return nil, errors.New(errors.ErrCodeMediaNotFound, "media %d not found in source bin", id)
	}
	var refs []Reference
	for _, t := range project.Tracks(p.Timeline) {
		for _, m := range t.Medias {
			walk(m, 0, func(clip *jsontree.Object, depth int) {
				if src, ok := clip.Number("src"); !ok || src.Int64() != id {
					return
				}
				ref := Reference{Scene: t.Scene, Track: t.Index, ClipID: -1, Depth: depth}
				if n, ok := clip.Number("id"); ok {
					ref.ClipID = n.Int64()
				}
				if n, ok := clip.Number("start"); ok {
					ref.StartAt = n.Int64()
				}
				ref.Type, _ = clip.Text("_type")
				refs = append(refs, ref)
			})
		}
	}
	return refs, nil
}

// Used returns the set of bin ids referenced anywhere on the timeline.
func Used(p *project.Project) map[int64]bool {
	used := make(map[int64]bool)
	project.WalkMedia(p.Timeline, func(clip *jsontree.Object, _ int) {
		if src, ok := clip.Number("src"); ok {
			used[src.Int64()] = true
		}
	})
	return used
}

// Unused returns bin entries that no clip references, in bin order.
func Unused(p *project.Project) []project.SourceItem {
	used := Used(p)
	var out []project.SourceItem
	for _, item := range p.SourceBin {
		if !used[item.ID()] {
			out = append(out, item)
		}
	}
	return out
}

// Remove deletes the bin entry id. When clips still use it, Remove fails
// with CONFLICT unless clearTracks is set, in which case those clips are
// removed too. It returns the number of clips removed.
func Remove(p *project.Project, id int64, clearTracks bool) (int, error) {
	refs, err := References(p, id)
	if err != nil {
		return 0, err
	}
	if len(refs) > 0 && !clearTracks {
		return 0, errors.New(errors.ErrCodeConflict,
			"cannot remove media %d: found %d track references", id, len(refs))
	}
	removed := 0
	if len(refs) > 0 {
		removed = dropClips(p.Timeline, id)
	}
	i := Find(p, id)
	p.SourceBin = append(p.SourceBin[:i], p.SourceBin[i+1:]...)
	return removed, nil
}

// RemoveUnused deletes every unreferenced bin entry and returns them.
func RemoveUnused(p *project.Project) []project.SourceItem {
	unused := Unused(p)
	if len(unused) == 0 {
		return nil
	}
	drop := make(map[int64]bool, len(unused))
	for _, item := range unused {
		drop[item.ID()] = true
	}
	kept := p.SourceBin[:0]
	for _, item := range p.SourceBin {
		if !drop[item.ID()] {
			kept = append(kept, item)
		}
	}
	p.SourceBin = kept
	return unused
}

// ReplaceSource rewrites every "src" string equal to oldPath, in the
// source bin and on the timeline, and returns how many were changed.
func ReplaceSource(p *project.Project, oldPath, newPath string) int {
	n := 0
	for _, item := range p.SourceBin {
		n += replaceSrc(item.Raw(), oldPath, newPath)
	}
	return n + replaceSrc(p.Timeline, oldPath, newPath)
}

func replaceSrc(v jsontree.Value, oldPath, newPath string) int {
	n := 0
	switch t := v.(type) {
	case *jsontree.Object:
		for _, m := range t.Members() {
			if s, ok := m.Value.(jsontree.String); ok && m.Key == "src" && string(s) == oldPath {
				t.Set("src", jsontree.String(newPath))
				n++
				continue
			}
			n += replaceSrc(m.Value, oldPath, newPath)
		}
	case jsontree.Array:
		for _, el := range t {
			n += replaceSrc(el, oldPath, newPath)
		}
	}
	return n
}

// Duplicate appends a deep copy of bin entry id. A newID of 0 picks one
// above the current maximum. The copy's name gets a "_copy_<n>" suffix
// with the first n not already taken. It returns the new id.
func Duplicate(p *project.Project, id, newID int64) (int64, error) {
	i := Find(p, id)
	if i < 0 {
		return 0, errors.New(errors.ErrCodeMediaNotFound, "source media %d not found", id)
	}
	if newID != 0 && Find(p, newID) >= 0 {
		return 0, errors.New(errors.ErrCodeConflict, "media id %d already exists", newID)
	}
	if newID == 0 {
		newID = nextID(p)
	}

	copied := p.SourceBin[i].Raw().Clone()
	copied.Set("id", jsontree.Int(newID))
	copied.Set("name", jsontree.String(copyName(p, displayName(p.SourceBin[i]))))
	p.SourceBin = append(p.SourceBin, project.NewSourceItem(copied))
	return newID, nil
}

func nextID(p *project.Project) int64 {
	var max int64
	for _, item := range p.SourceBin {
		if item.ID() > max {
			max = item.ID()
		}
	}
	return max + 1
}

func copyName(p *project.Project, base string) string {
	taken := make(map[string]bool, len(p.SourceBin))
	for _, item := range p.SourceBin {
		name, _ := item.Raw().Text("name")
		taken[name] = true
	}
	for n := 1; ; n++ {
		if name := fmt.Sprintf("%s_copy_%d", base, n); !taken[name] {
			return name
		}
	}
}

// displayName is the entry's name, falling back to its id.
func displayName(item project.SourceItem) string {
	if name, ok := item.Raw().Text("name"); ok && name != "" {
		return name
	}
	return fmt.Sprint(item.ID())
}

// Summary counts bin entries per media type.
func Summary(p *project.Project) map[string]int {
	out := make(map[string]int)
	for _, item := range p.SourceBin {
		out[item.MediaType()]++
	}
	return out
}

// Types returns the keys of a Summary in sorted order.
func Types(summary map[string]int) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
