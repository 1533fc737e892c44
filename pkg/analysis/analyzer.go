package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/media"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/timing"
	"github.com/matzehuels/tscproj/pkg/version"
)

// Analyzer produces Reports.
type Analyzer struct {
	Mode Mode

	// BaseDir resolves relative media paths. Empty means the working
	// directory.
	BaseDir string

	// Workers bounds concurrent file checks. Zero uses GOMAXPROCS.
	Workers int

	// SkipFiles leaves Missing and TotalSize empty, for documents whose
	// media does not live on this machine.
	SkipFiles bool

	Logger *log.Logger

	now func() time.Time
}

// New returns an Analyzer for mode.
func New(mode Mode, logger *log.Logger) *Analyzer {
	return &Analyzer{Mode: mode, Logger: logger}
}

// ForProject returns an Analyzer resolving media next to the project file
// at path.
func ForProject(mode Mode, path string, logger *log.Logger) *Analyzer {
	a := New(mode, logger)
	if resolved, err := project.ResolvePath(path); err == nil {
		a.BaseDir = filepath.Dir(resolved)
	}
	return a
}

// Analyze builds a report for p. path is recorded as given.
func (a *Analyzer) Analyze(ctx context.Context, p *project.Project, path string) (*Report, error) {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	r := &Report{
		ID:        uuid.NewString(),
		Path:      path,
		Mode:      a.Mode.String(),
		Generated: now().UTC(),
		Version:   p.Metadata.Version,
		Detected:  p.Metadata.Detected,
		Features:  version.FeaturesFor(p.Metadata.Detected),
		EditRate:  p.Metadata.EditRate,
		Canvas:    p.Canvas,
		Warnings:  p.Warnings,
	}

	r.Media = MediaSummary{
		Total:  len(p.SourceBin),
		ByType: media.Summary(p),
		Unused: len(media.Unused(p)),
	}
	if !a.SkipFiles {
		missing, size, err := a.checkFiles(ctx, p.SourceBin)
		if err != nil {
			return nil, err
		}
		r.Media.Missing, r.Media.TotalSize = missing, size
	}

	r.Timeline = summarizeTimeline(p)

	score := Score(a.Mode, r.Timeline, r.Media.Total)
	r.Complexity = Complexity{Score: score, Level: Rate(a.Mode, score)}
	r.Recommendations = Recommend(a.Mode, r)

	a.logger().Debug("analyzed project",
		"path", path,
		"media", r.Media.Total,
		"missing", len(r.Media.Missing),
		"tracks", r.Timeline.Tracks,
		"score", score)
	return r, nil
}

func summarizeTimeline(p *project.Project) TimelineSummary {
	var s TimelineSummary
	var end float64
	for _, t := range project.Tracks(p.Timeline) {
		s.Tracks++
		s.Clips += len(t.Medias)
		s.Transitions += t.Transitions
		for _, m := range t.Medias {
			if e := project.MediaEnd(m); e > end {
				end = e
			}
		}
	}
	project.WalkMedia(p.Timeline, func(m *jsontree.Object, depth int) {
		if depth > 0 {
			s.NestedClips++
		}
		s.Effects += project.EffectCount(m)
	})
	s.Markers = len(project.Markers(p.Timeline))
	s.Duration = timing.TicksToSeconds(end, p.Metadata.EditRate)
	return s
}

// checkFiles stats every bin entry's src and returns the missing paths in
// bin order and the total size of the files found.
func (a *Analyzer) checkFiles(ctx context.Context, bin []project.SourceItem) ([]string, int64, error) {
	type result struct {
		missing bool
		size    int64
	}
	results := make([]result, len(bin))

	g, ctx := errgroup.WithContext(ctx)
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, item := range bin {
		src := item.Src()
		if src == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(a.resolve(src))
			switch {
			case err != nil:
				results[i].missing = true
			case info.Mode().IsRegular():
				results[i].size = info.Size()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("check media files: %w", err)
	}

	var missing []string
	var size int64
	for i, res := range results {
		if res.missing {
			missing = append(missing, bin[i].Src())
		}
		size += res.size
	}
	return missing, size, nil
}

func (a *Analyzer) resolve(src string) string {
	if filepath.IsAbs(src) || a.BaseDir == "" {
		return src
	}
	return filepath.Join(a.BaseDir, src)
}

func (a *Analyzer) logger() *log.Logger {
	if a.Logger == nil {
		return log.New(io.Discard)
	}
	return a.Logger
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf(one, n)
	}
	return fmt.Sprintf(many, n)
}

// SortedTypes returns the media type counts as "type: n" lines, sorted by
// type.
func (s MediaSummary) SortedTypes() []string {
	keys := media.Types(s.ByType)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s: %d", k, s.ByType[k])
	}
	return out
}
