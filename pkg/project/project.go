package project

import (
	"fmt"

	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/version"
)

// Defaults used for fields missing from a document.
const (
	DefaultWidth     = 1920
	DefaultHeight    = 1080
	DefaultFramerate = 30
	DefaultVersion   = "9.0"
)

// DefaultEditRate returns the edit rate assumed for a project of the given
// version when the document does not state one.
func DefaultEditRate(tag version.Tag) int64 {
	switch tag {
	case version.V1_0:
		return 30
	case version.V4_0:
		return 60
	}
	return version.HighPrecisionEditRate
}

// Metadata holds descriptive top-level fields.
type Metadata struct {
	Version                 string      `json:"version" yaml:"version"`
	EditRate                int64       `json:"edit_rate" yaml:"edit_rate"`
	AuthoringClientName     string      `json:"authoring_client_name,omitempty" yaml:"authoring_client_name,omitempty"`
	AuthoringClientVersion  string      `json:"authoring_client_version,omitempty" yaml:"authoring_client_version,omitempty"`
	AuthoringClientPlatform string      `json:"authoring_client_platform,omitempty" yaml:"authoring_client_platform,omitempty"`
	Title                   string      `json:"title,omitempty" yaml:"title,omitempty"`
	Author                  string      `json:"author,omitempty" yaml:"author,omitempty"`
	Detected                version.Tag `json:"detected_version" yaml:"detected_version"`
}

// Canvas is the output frame.
type Canvas struct {
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	Framerate float64 `json:"framerate" yaml:"framerate"`
}

// Project is a loaded project document.
type Project struct {
	Metadata  Metadata
	Canvas    Canvas
	SourceBin []SourceItem
	Timeline  *jsontree.Object

	// Warnings lists fields the loader replaced with defaults.
	Warnings []string

	// doc holds every top-level member in its original order.
	doc *jsontree.Object
}

// Empty returns a new project with default settings and an empty timeline.
func Empty() *Project {
	return &Project{
		Metadata: Metadata{
			Version:  DefaultVersion,
			EditRate: version.HighPrecisionEditRate,
			Detected: version.V9_0,
		},
		Canvas:   Canvas{Width: DefaultWidth, Height: DefaultHeight, Framerate: DefaultFramerate},
		Timeline: emptyTimeline(),
		doc:      jsontree.NewObject(0),
	}
}

func emptyTimeline() *jsontree.Object {
	return jsontree.ObjectOf(
		"id", 1,
		"sceneTrack", jsontree.ObjectOf("scenes", jsontree.Array{
			jsontree.ObjectOf("csml", jsontree.ObjectOf("tracks", jsontree.Array{})),
		}),
	)
}

// SourceItem is one entry of the source bin. It wraps the raw object so
// fields the tools do not model survive a round trip.
type SourceItem struct {
	raw *jsontree.Object
}

// NewSourceItem wraps obj.
func NewSourceItem(obj *jsontree.Object) SourceItem {
	return SourceItem{raw: obj}
}

// Raw returns the underlying object.
func (s SourceItem) Raw() *jsontree.Object { return s.raw }

// ID returns the bin id, or -1 when absent.
func (s SourceItem) ID() int64 {
	if n, ok := s.raw.Number("id"); ok {
		return n.Int64()
	}
	return -1
}

// Src returns the media file path.
func (s SourceItem) Src() string {
	src, _ := s.raw.Text("src")
	return src
}

// Rect returns the [x, y, w, h] geometry, or nil.
func (s SourceItem) Rect() []float64 {
	arr, ok := s.raw.Array("rect")
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(arr))
	for _, v := range arr {
		if n, ok := v.(jsontree.Number); ok {
			out = append(out, n.Float64())
		}
	}
	return out
}

// Source track types as stored in sourceTracks[*].type.
const (
	TrackTypeVideo = 0
	TrackTypeImage = 1
	TrackTypeAudio = 2
)

// MediaType classifies the item by its first source track.
func (s SourceItem) MediaType() string {
	tracks, ok := s.raw.Array("sourceTracks")
	if !ok || len(tracks) == 0 {
		return "unknown"
	}
	first, ok := tracks[0].(*jsontree.Object)
	if !ok {
		return "unknown"
	}
	n, ok := first.Number("type")
	if !ok {
		return "unknown"
	}
	switch n.Int64() {
	case TrackTypeVideo:
		return "video"
	case TrackTypeImage:
		return "image"
	case TrackTypeAudio:
		return "audio"
	}
	return "unknown"
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	out := *p
	out.SourceBin = make([]SourceItem, len(p.SourceBin))
	for i, item := range p.SourceBin {
		out.SourceBin[i] = SourceItem{raw: item.raw.Clone()}
	}
	out.Timeline = p.Timeline.Clone()
	out.Warnings = append([]string(nil), p.Warnings...)
	out.doc = p.doc.Clone()
	return &out
}

// ToTree renders p as a document. Keys from the loaded document keep their
// order; modelled fields are overwritten with the current typed values.
func (p *Project) ToTree() *jsontree.Object {
	out := p.doc.Clone()
	if out == nil {
		out = jsontree.NewObject(12)
	}
	if p.Metadata.Version != "" {
		out.Set("version", jsontree.String(p.Metadata.Version))
	}
	setNumber(out, "editRate", float64(p.Metadata.EditRate))
	setString(out, "authoringClientName", p.Metadata.AuthoringClientName)
	setString(out, "authoringClientVersion", p.Metadata.AuthoringClientVersion)
	setString(out, "authoringClientPlatform", p.Metadata.AuthoringClientPlatform)
	setString(out, "title", p.Metadata.Title)
	setString(out, "author", p.Metadata.Author)
	setNumber(out, "width", p.Canvas.Width)
	setNumber(out, "height", p.Canvas.Height)
	setNumber(out, "videoFormatFrameRate", p.Canvas.Framerate)

	bin := make(jsontree.Array, len(p.SourceBin))
	for i, item := range p.SourceBin {
		bin[i] = item.raw.Clone()
	}
	out.Set("sourceBin", bin)

	timeline := p.Timeline
	if timeline == nil {
		timeline = emptyTimeline()
	}
	out.Set("timeline", timeline.Clone())
	return out
}

// setString writes s under key unless s is empty. A structured
// authoringClientName object in the source document is left alone.
func setString(o *jsontree.Object, key, s string) {
	if s == "" {
		return
	}
	if _, isObj := o.Object(key); isObj {
		return
	}
	o.Set(key, jsontree.String(s))
}

// setNumber writes f under key. An existing number with the same value is
// kept so its literal spelling survives.
func setNumber(o *jsontree.Object, key string, f float64) {
	if n, ok := o.Number(key); ok && n.Float64() == f {
		return
	}
	if n := jsontree.Integral(f); n.IsInt() {
		o.Set(key, n)
		return
	}
	o.Set(key, jsontree.Float(f))
}

// FromTree builds a Project from a decoded document, filling defaults for
// missing or mistyped fields. Each substitution is recorded in Warnings.
func FromTree(doc *jsontree.Object) *Project {
	p := &Project{doc: doc.Clone()}
	if p.doc == nil {
		p.doc = jsontree.NewObject(0)
	}
	p.Metadata.Detected = version.Detect(p.doc)

	warn := func(msg string) {
		p.Warnings = append(p.Warnings, msg)
	}

	if v, ok := p.doc.Get("version"); ok {
		if s, isStr := v.(jsontree.String); isStr {
			p.Metadata.Version = string(s)
		} else {
			warn("version is not a string; keeping original value")
		}
	}

	p.Metadata.EditRate = DefaultEditRate(p.Metadata.Detected)
	if n, ok := numberField(p.doc, "editRate", &p.Warnings); ok && n.Float64() > 0 {
		p.Metadata.EditRate = n.Int64()
	}

	p.Canvas = Canvas{Width: DefaultWidth, Height: DefaultHeight, Framerate: DefaultFramerate}
	if n, ok := numberField(p.doc, "width", &p.Warnings); ok {
		p.Canvas.Width = n.Float64()
	}
	if n, ok := numberField(p.doc, "height", &p.Warnings); ok {
		p.Canvas.Height = n.Float64()
	}
	if n, ok := numberField(p.doc, "videoFormatFrameRate", &p.Warnings); ok {
		p.Canvas.Framerate = n.Float64()
	}

	readAuthoringClient(p.doc, &p.Metadata)
	p.Metadata.Title, _ = p.doc.Text("title")
	p.Metadata.Author, _ = p.doc.Text("author")

	if v, ok := p.doc.Get("sourceBin"); ok {
		bin, isArr := v.(jsontree.Array)
		if !isArr {
			warn("sourceBin is not a list; using an empty source bin")
		}
		for i, el := range bin {
			obj, isObj := el.(*jsontree.Object)
			if !isObj {
				warn(fmt.Sprintf("sourceBin[%d] is not a dictionary; dropped", i))
				continue
			}
			p.SourceBin = append(p.SourceBin, SourceItem{raw: obj})
		}
	}

	if v, ok := p.doc.Get("timeline"); ok {
		if obj, isObj := v.(*jsontree.Object); isObj {
			p.Timeline = obj
		} else {
			warn("timeline is not a dictionary; using an empty timeline")
		}
	}
	if p.Timeline == nil {
		p.Timeline = emptyTimeline()
	}
	return p
}

// numberField returns doc[key] when it is a number. A present value of
// another type adds a warning.
func numberField(doc *jsontree.Object, key string, warnings *[]string) (jsontree.Number, bool) {
	v, ok := doc.Get(key)
	if !ok {
		return jsontree.Number{}, false
	}
	n, isNum := v.(jsontree.Number)
	if !isNum {
		*warnings = append(*warnings, key+" must be a number; using default")
		return jsontree.Number{}, false
	}
	return n, true
}

// readAuthoringClient accepts both the flat string fields and the object
// form {"name", "platform", "version"}.
func readAuthoringClient(doc *jsontree.Object, m *Metadata) {
	if obj, ok := doc.Object("authoringClientName"); ok {
		m.AuthoringClientName, _ = obj.Text("name")
		m.AuthoringClientPlatform, _ = obj.Text("platform")
		m.AuthoringClientVersion, _ = obj.Text("version")
		return
	}
	m.AuthoringClientName, _ = doc.Text("authoringClientName")
	m.AuthoringClientVersion, _ = doc.Text("authoringClientVersion")
	m.AuthoringClientPlatform, _ = doc.Text("authoringClientPlatform")
}
