package transform

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/project"
)

// Transformer applies one Config to whole project documents.
type Transformer struct {
	cfg    Config
	logger *log.Logger
}

// NewTransformer validates cfg and returns a Transformer. A nil logger
// discards output.
func NewTransformer(cfg Config, logger *log.Logger) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Transformer{cfg: cfg, logger: logger}, nil
}

// Config returns the transform configuration.
func (t *Transformer) Config() Config { return t.cfg }

// TransformDict returns a scaled copy of a raw project document. The input
// is never modified. The root must be an object.
func (t *Transformer) TransformDict(raw jsontree.Value) (*jsontree.Object, error) {
	if err := t.cfg.Validate(); err != nil {
		return nil, err
	}
	doc, ok := raw.(*jsontree.Object)
	if !ok {
		kind := "null"
		if raw != nil {
			kind = raw.Kind().String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "project document must be an object, got %s", kind)
	}

	w := walker{factor: t.cfg.Factor}
	out := w.object(doc, t.cfg.rootContext())

	logf := t.logger.Debug
	if t.cfg.Verbose {
		logf = t.logger.Info
	}
	logf("transformed project",
		"kind", t.cfg.Kind,
		"factor", t.cfg.Factor,
		"preserve_audio", t.cfg.PreserveAudioDuration,
		"scaled", w.scaled)
	return out, nil
}

// TransformProject returns a scaled copy of p. Typed fields are rebuilt
// from the scaled document so they always agree with it.
func (t *Transformer) TransformProject(p *project.Project) (*project.Project, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project is nil")
	}
	out, err := t.TransformDict(p.ToTree())
	if err != nil {
		return nil, err
	}
	return project.FromTree(out), nil
}

// TransformDict is a convenience wrapper for a single document.
func TransformDict(raw jsontree.Value, cfg Config) (*jsontree.Object, error) {
	t, err := NewTransformer(cfg, nil)
	if err != nil {
		return nil, err
	}
	return t.TransformDict(raw)
}

// TransformProject is a convenience wrapper for a single project.
func TransformProject(p *project.Project, cfg Config) (*project.Project, error) {
	t, err := NewTransformer(cfg, nil)
	if err != nil {
		return nil, err
	}
	return t.TransformProject(p)
}
