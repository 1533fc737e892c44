package structure

import (
	"fmt"
	"path"

	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/timing"
)

// Kind classifies graph nodes.
type Kind string

const (
	KindProject Kind = "project"
	KindTrack   Kind = "track"
	KindClip    Kind = "clip"
	KindSource  Kind = "source"
)

// Node is one box in the diagram.
type Node struct {
	ID    string
	Label string
	Kind  Kind
}

// Edge connects two nodes. Ref edges point from a clip to its source.
type Edge struct {
	From, To string
	Ref      bool
}

// Graph is a project structure diagram.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Options configures Build.
type Options struct {
	// Sources adds source-bin nodes and clip → source edges.
	Sources bool
	// MaxDepth limits container nesting. Zero means unlimited.
	MaxDepth int
}

type builder struct {
	g        Graph
	opts     Options
	editRate int64
	sources  map[int64]string
	clips    int
}

// Build returns the structure graph of p.
func Build(p *project.Project, opts Options) *Graph {
	b := &builder{opts: opts, editRate: p.Metadata.EditRate, sources: make(map[int64]string)}

	root := "project"
	b.node(root, fmt.Sprintf("project %s\n%gx%g", p.Metadata.Version, p.Canvas.Width, p.Canvas.Height), KindProject)

	if opts.Sources {
		for _, item := range p.SourceBin {
			id := fmt.Sprintf("src%d", item.ID())
			if _, dup := b.sources[item.ID()]; dup {
				continue
			}
			b.sources[item.ID()] = id
			b.node(id, sourceLabel(item), KindSource)
		}
	}

	for i, t := range project.Tracks(p.Timeline) {
		id := fmt.Sprintf("track%d", i)
		label := fmt.Sprintf("track %d", t.Index)
		if t.Name != "" {
			label += "\n" + t.Name
		}
		b.node(id, label, KindTrack)
		b.edge(root, id, false)
		for _, m := range t.Medias {
			b.clip(id, m, 0)
		}
	}
	return &b.g
}

func (b *builder) clip(parent string, m *jsontree.Object, depth int) {
	b.clips++
	id := fmt.Sprintf("clip%d", b.clips)
	b.node(id, b.clipLabel(m), KindClip)
	b.edge(parent, id, false)

	if b.opts.Sources {
		if src, ok := m.Number("src"); ok {
			if target, ok := b.sources[src.Int64()]; ok {
				b.edge(id, target, true)
			}
		}
	}

	if b.opts.MaxDepth > 0 && depth+1 >= b.opts.MaxDepth {
		return
	}
	for _, child := range children(m) {
		b.clip(id, child, depth+1)
	}
}

func (b *builder) clipLabel(m *jsontree.Object) string {
	typ, _ := m.Text("_type")
	if typ == "" {
		typ = "media"
	}
	label := typ
	if id, ok := m.Number("id"); ok {
		label += " " + id.String()
	}
	start, _ := m.Float("start")
	label += "\n@" + timing.FormatTicks(start, b.editRate)
	if d, ok := m.Float("duration"); ok {
		label += " +" + timing.FormatTicks(d, b.editRate)
	}
	return label
}

func (b *builder) node(id, label string, kind Kind) {
	b.g.Nodes = append(b.g.Nodes, Node{ID: id, Label: label, Kind: kind})
}

func (b *builder) edge(from, to string, ref bool) {
	b.g.Edges = append(b.g.Edges, Edge{From: from, To: to, Ref: ref})
}

func sourceLabel(item project.SourceItem) string {
	label := fmt.Sprintf("#%d %s", item.ID(), item.MediaType())
	if src := item.Src(); src != "" {
		label += "\n" + path.Base(src)
	}
	return label
}

// children returns the clips nested in a container clip.
func children(m *jsontree.Object) []*jsontree.Object {
	typ, _ := m.Text("_type")
	var out []*jsontree.Object
	switch typ {
	case "Group":
		tracks, _ := m.Array("tracks")
		for _, t := range tracks {
			if tr, ok := t.(*jsontree.Object); ok {
				out = append(out, objects(tr, "medias")...)
			}
		}
	case "UnifiedMedia":
		for _, key := range []string{"video", "audio"} {
			if c, ok := m.Object(key); ok {
				out = append(out, c)
			}
		}
	case "StitchedMedia":
		out = objects(m, "medias")
	}
	return out
}

func objects(o *jsontree.Object, key string) []*jsontree.Object {
	arr, _ := o.Array(key)
	var out []*jsontree.Object
	for _, el := range arr {
		if obj, ok := el.(*jsontree.Object); ok {
			out = append(out, obj)
		}
	}
	return out
}
