package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/project"
)

// ProjectExt is the extension batch globs select.
const ProjectExt = ".tscproj"

// FileResult is the outcome for one file of a batch.
type FileResult struct {
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`

	Err error `json:"-"`
}

// OK reports whether the file succeeded.
func (f FileResult) OK() bool { return f.Err == nil }

// BatchResult summarizes a batch run.
type BatchResult struct {
	RunID     string       `json:"run_id"`
	Operation string       `json:"operation"`
	Files     []FileResult `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Total     int          `json:"total"`
	Canceled  bool         `json:"canceled,omitempty"`
}

// Step processes a single batch input.
type Step func(ctx context.Context, input string) (FileResult, error)

// Progress is called after each file.
type Progress func(done, total int, fr FileResult)

// Glob expands pattern to regular project files, sorted. A "**" segment
// matches any number of directories.
func Glob(pattern string) ([]string, error) {
	var matches []string
	var err error
	if strings.Contains(pattern, "**") {
		matches, err = globRecursive(pattern)
	} else {
		matches, err = filepath.Glob(pattern)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad pattern %q", pattern)
	}

	seen := make(map[string]bool, len(matches))
	files := matches[:0]
	for _, m := range matches {
		if seen[m] || filepath.Ext(m) != ProjectExt {
			continue
		}
		if info, err := os.Stat(m); err != nil || !info.Mode().IsRegular() {
			continue
		}
		seen[m] = true
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// globRecursive walks the directory before the first "**" and matches the
// remainder of the pattern against the trailing path components.
func globRecursive(pattern string) ([]string, error) {
	idx := strings.Index(pattern, "**")
	root := filepath.Clean(pattern[:idx])
	if pattern[:idx] == "" {
		root = "."
	}
	rest := strings.TrimLeft(pattern[idx+2:], `/\`)
	if rest == "" {
		rest = "*"
	}
	if _, err := filepath.Match(rest, ""); err != nil {
		return nil, err
	}
	depth := strings.Count(filepath.ToSlash(rest), "/") + 1

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(rest, tail(path, depth)); ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

// tail returns the last n components of path.
func tail(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	return filepath.Join(parts...)
}

// RunBatch applies step to each file in order. A failing file is recorded
// and the batch continues; cancellation stops it before the next file.
func RunBatch(ctx context.Context, op string, files []string, step Step, progress Progress) *BatchResult {
	res := &BatchResult{
		RunID:     uuid.NewString(),
		Operation: op,
		Total:     len(files),
		Files:     make([]FileResult, 0, len(files)),
	}
	for i, f := range files {
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}
		start := time.Now()
		fr, err := runStep(ctx, step, f)
		fr.Input = f
		fr.Duration = time.Since(start)
		if err != nil {
			fr.Err = err
			fr.Error = errors.UserMessage(err)
			res.Failed++
		} else {
			res.Succeeded++
		}
		res.Files = append(res.Files, fr)
		if progress != nil {
			progress(i+1, len(files), fr)
		}
	}
	return res
}

func runStep(ctx context.Context, step Step, input string) (fr FileResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New(errors.ErrCodeInternal, "%v", p)
		}
	}()
	return step(ctx, input)
}

// Step returns the batch step for base.Operation. Transform steps write
// each input to BatchOutputPath and never overwrite it.
func (r *Runner) Step(base Options) (Step, error) {
	if err := ValidateOperation(base.Operation); err != nil {
		return nil, err
	}
	switch base.Operation {
	case OpInfo:
		return r.infoStep(base), nil
	case OpValidate:
		return r.validateStep(base), nil
	}
	if err := base.ValidateForTransform(); err != nil {
		return nil, err
	}
	return func(ctx context.Context, input string) (FileResult, error) {
		opts := base
		opts.Input = input
		opts.Output = BatchOutputPath(input, base.Operation)
		opts.validated = false
		res, err := r.Execute(ctx, opts)
		if err != nil {
			return FileResult{}, err
		}
		detail := fmt.Sprintf("%s by %g", base.Operation, base.Factor)
		if res.CacheInfo.TransformHit {
			detail += " (cached)"
		}
		return FileResult{Output: res.Output, Detail: detail}, nil
	}, nil
}

func (r *Runner) loader(base Options) *project.Loader {
	l := project.NewLoader(r.Logger)
	if base.Logger != nil {
		l.Logger = base.Logger
	}
	l.StrictVersion = base.StrictVersion
	return l
}

func (r *Runner) infoStep(base Options) Step {
	return func(ctx context.Context, input string) (FileResult, error) {
		p, err := r.loader(base).LoadFile(input)
		if err != nil {
			return FileResult{}, err
		}
		rep, err := analysis.ForProject(analysis.ModeInfo, input, r.Logger).Analyze(ctx, p, input)
		if err != nil {
			return FileResult{}, err
		}
		return FileResult{Detail: fmt.Sprintf("%s, %gx%g, %d media, %d tracks, %s",
			rep.Version, rep.Canvas.Width, rep.Canvas.Height,
			rep.Media.Total, rep.Timeline.Tracks, rep.Complexity.Level)}, nil
	}
}

func (r *Runner) validateStep(base Options) Step {
	return func(ctx context.Context, input string) (FileResult, error) {
		l := r.loader(base)
		l.StrictStructure = true
		if _, err := l.LoadFile(input); err != nil {
			return FileResult{}, err
		}
		return FileResult{Detail: "valid"}, nil
	}
}
