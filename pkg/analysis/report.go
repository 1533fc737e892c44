package analysis

import (
	"time"

	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/version"
)

// Mode selects the complexity formula and recommendation thresholds.
type Mode int

const (
	ModeInfo Mode = iota
	ModeAnalyze
)

func (m Mode) String() string {
	if m == ModeAnalyze {
		return "analyze"
	}
	return "info"
}

// Level is a coarse complexity rating.
type Level string

const (
	Simple   Level = "Simple"
	Moderate Level = "Moderate"
	Complex  Level = "Complex"
)

// Report is the result of analyzing one project.
type Report struct {
	ID        string    `json:"id" yaml:"id" bson:"_id"`
	Path      string    `json:"path" yaml:"path" bson:"path"`
	Mode      string    `json:"mode" yaml:"mode" bson:"mode"`
	Generated time.Time `json:"generated" yaml:"generated" bson:"generated"`

	Version  string           `json:"version" yaml:"version" bson:"version"`
	Detected version.Tag      `json:"detected_version" yaml:"detected_version" bson:"detected_version"`
	Features version.Features `json:"features" yaml:"features" bson:"features"`
	EditRate int64            `json:"edit_rate" yaml:"edit_rate" bson:"edit_rate"`
	Canvas   project.Canvas   `json:"canvas" yaml:"canvas" bson:"canvas"`

	Media    MediaSummary    `json:"media" yaml:"media" bson:"media"`
	Timeline TimelineSummary `json:"timeline" yaml:"timeline" bson:"timeline"`

	Complexity      Complexity `json:"complexity" yaml:"complexity" bson:"complexity"`
	Recommendations []string   `json:"recommendations" yaml:"recommendations" bson:"recommendations"`
	Warnings        []string   `json:"warnings,omitempty" yaml:"warnings,omitempty" bson:"warnings,omitempty"`
}

// MediaSummary describes the source bin.
type MediaSummary struct {
	Total     int            `json:"total" yaml:"total" bson:"total"`
	ByType    map[string]int `json:"by_type" yaml:"by_type" bson:"by_type"`
	Missing   []string       `json:"missing,omitempty" yaml:"missing,omitempty" bson:"missing,omitempty"`
	Unused    int            `json:"unused" yaml:"unused" bson:"unused"`
	TotalSize int64          `json:"total_size" yaml:"total_size" bson:"total_size"`
}

// TimelineSummary counts timeline content. Clips counts media placed
// directly on tracks; NestedClips counts media inside containers.
type TimelineSummary struct {
	Tracks      int     `json:"tracks" yaml:"tracks" bson:"tracks"`
	Clips       int     `json:"clips" yaml:"clips" bson:"clips"`
	NestedClips int     `json:"nested_clips" yaml:"nested_clips" bson:"nested_clips"`
	Effects     int     `json:"effects" yaml:"effects" bson:"effects"`
	Transitions int     `json:"transitions" yaml:"transitions" bson:"transitions"`
	Markers     int     `json:"markers" yaml:"markers" bson:"markers"`
	Duration    float64 `json:"duration_seconds" yaml:"duration_seconds" bson:"duration_seconds"`
}

// Complexity is a score and its rating.
type Complexity struct {
	Score float64 `json:"score" yaml:"score" bson:"score"`
	Level Level   `json:"level" yaml:"level" bson:"level"`
}

// Score computes the complexity score for mode.
func Score(mode Mode, tl TimelineSummary, media int) float64 {
	if mode == ModeAnalyze {
		return 2*float64(tl.Tracks) + float64(tl.Clips) + 0.5*float64(media)
	}
	return float64(tl.Tracks) + 2*float64(tl.Clips) + 3*float64(tl.Effects) + 0.5*float64(media)
}

// Rate maps a score to a Level using the thresholds of mode.
func Rate(mode Mode, score float64) Level {
	simple, moderate := 50.0, 150.0
	if mode == ModeAnalyze {
		simple, moderate = 30, 100
	}
	switch {
	case score < simple:
		return Simple
	case score < moderate:
		return Moderate
	}
	return Complex
}

const gib = 1 << 30

// Recommend returns advice for a report.
func Recommend(mode Mode, r *Report) []string {
	var out []string
	if n := len(r.Media.Missing); n > 0 {
		if mode == ModeAnalyze {
			out = append(out, pluralize(n, "Fix %d missing media file", "Fix %d missing media files"))
		} else {
			out = append(out, "Fix missing media files for best performance")
		}
	}
	binLimit := 100
	if mode == ModeAnalyze {
		binLimit = 50
	}
	if r.Media.Total > binLimit {
		out = append(out, "Large media bin - consider organizing media")
	}
	if r.Media.TotalSize > gib {
		out = append(out, "Large project size - consider optimizing media files")
	}
	if r.Timeline.Tracks > 20 {
		out = append(out, "Many tracks - consider consolidating similar content")
	}
	if r.Media.Unused > 0 {
		out = append(out, pluralize(r.Media.Unused,
			"%d unused media item - run media-rm to clean up",
			"%d unused media items - run media-rm to clean up"))
	}
	return out
}
