package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/observability"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/transform"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so transform output and cache keys agree.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → transform → save for one project file.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Input)
	data, err := readProject(opts.Input)
	loadTime := time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.Input, loadTime, err)
	if err != nil {
		return nil, err
	}

	// Stage 2: Transform
	result, err := r.Transform(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Input, err)
	}
	result.Input = opts.Input
	result.Stats.LoadTime = loadTime

	// Stage 3: Save
	saveStart := time.Now()
	saver := project.NewSaver(opts.Logger)
	saver.Backup = opts.Backup && opts.InPlace()
	observability.Pipeline().OnSaveStart(ctx, opts.Output)
	written, err := saver.SaveBytes(result.Data, opts.Output)
	result.Stats.SaveTime = time.Since(saveStart)
	observability.Pipeline().OnSaveComplete(ctx, opts.Output, len(result.Data), result.Stats.SaveTime, err)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	result.Output = written
	if saver.Backup {
		result.Backup = written + project.BackupSuffix
	}

	r.Logger.Info("saved project",
		"operation", opts.Operation,
		"factor", opts.Factor,
		"output", written,
		"bytes", result.Stats.Bytes,
		"cached", result.CacheInfo.TransformHit)

	return result, nil
}

// Transform scales an encoded document in memory and returns the encoded
// result. Results are cached by document hash and output-affecting options.
func (r *Runner) Transform(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateForTransform(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	cfg := opts.TransformConfig()

	result := &Result{DocHash: cache.Hash(data)}
	start := time.Now()
	defer func() { result.Stats.TransformTime = time.Since(start) }()

	var tree jsontree.Value
	if opts.StrictVersion {
		// Version rejection must not be masked by a cached result.
		t, err := r.parse(data, opts)
		if err != nil {
			return nil, err
		}
		tree = t
	}

	cacheKey := r.Keyer.TransformKey(result.DocHash, opts.keyOpts(cfg))
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "transform")
			result.Data = cached
			result.Stats.Bytes = len(cached)
			result.CacheInfo.TransformHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "transform")
	}

	if tree == nil {
		t, err := r.parse(data, opts)
		if err != nil {
			return nil, err
		}
		tree = t
	}

	observability.Pipeline().OnTransformStart(ctx, cfg.Kind.String(), cfg.Factor)
	out, err := r.transform(tree, cfg, opts.Logger)
	observability.Pipeline().OnTransformComplete(ctx, cfg.Kind.String(), cfg.Factor, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	encoded, err := opts.saver().Encode(out)
	if err != nil {
		return nil, err
	}
	result.Data = encoded
	result.Stats.Bytes = len(encoded)

	if err := r.Cache.Set(ctx, cacheKey, encoded, cache.TTLTransform); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "transform", len(encoded))
	}
	return result, nil
}

func (r *Runner) parse(data []byte, opts Options) (jsontree.Value, error) {
	tree, err := project.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if doc, ok := tree.(*jsontree.Object); ok && opts.StrictVersion {
		if err := project.CheckVersion(doc); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (r *Runner) transform(tree jsontree.Value, cfg transform.Config, logger *log.Logger) (*jsontree.Object, error) {
	t, err := transform.NewTransformer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return t.TransformDict(tree)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (o *Options) keyOpts(cfg transform.Config) cache.TransformKeyOpts {
	return cache.TransformKeyOpts{
		Kind:          cfg.Kind.String(),
		Factor:        cfg.Factor,
		PreserveAudio: cfg.PreserveAudioDuration,
		Indent:        o.Indent,
		EnsureASCII:   o.EnsureASCII,
	}
}

func (o *Options) saver() *project.Saver {
	s := project.NewSaver(o.Logger)
	s.Indent = o.indent()
	s.Compact = o.Indent < 0
	s.EnsureASCII = o.EnsureASCII
	return s
}

func readProject(path string) ([]byte, error) {
	doc, err := project.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(doc)
}
