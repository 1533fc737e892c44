// Package pipeline runs the load → transform → save pipeline for project
// files and batches of them.
//
// The CLI and the HTTP API share this package so both apply the same
// defaults, cache keys and backup rules.
//
// # Stages
//
//  1. Load: resolve a .tscproj file or .cmproj container and decode it
//  2. Transform: scale the document spatially or temporally
//  3. Save: sanitize, encode and atomically write the result
//
// Encoded results are cached by document hash and options, so re-running
// the same transform over an unchanged file skips stage 2.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Operation: pipeline.OpXYScale,
//	    Factor:    1.5,
//	    Input:     "demo.tscproj",
//	    Backup:    true,
//	})
//
// Batches process files sequentially; one file failing is recorded and the
// batch moves on:
//
//	files, _ := pipeline.Glob("projects/**/*.tscproj")
//	res := pipeline.RunBatch(ctx, files, runner.TransformStep(base), nil)
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/transform"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultIndent is the number of spaces per nesting level.
	DefaultIndent = 2

	// DefaultConfirmThreshold is the batch size above which the CLI asks
	// for confirmation.
	DefaultConfirmThreshold = 10
)

// Operations.
const (
	OpXYScale   = "xyscale"
	OpTimeScale = "timescale"
	OpInfo      = "info"
	OpValidate  = "validate"
)

// ValidOperations lists operations a batch accepts.
var ValidOperations = map[string]bool{
	OpXYScale:   true,
	OpTimeScale: true,
	OpInfo:      true,
	OpValidate:  true,
}

// outputSuffixes name batch outputs per transform operation.
var outputSuffixes = map[string]string{
	OpXYScale:   ".scaled.tscproj",
	OpTimeScale: ".timescaled.tscproj",
}

// =============================================================================
// Options
// =============================================================================

// Options configures a single transform run. It supports JSON for API
// requests.
type Options struct {
	Operation     string  `json:"operation"`
	Factor        float64 `json:"factor"`
	PreserveAudio bool    `json:"preserve_audio,omitempty"`

	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`

	// Backup copies the input aside when it is overwritten.
	Backup        bool `json:"backup,omitempty"`
	Indent        int  `json:"indent,omitempty"`
	EnsureASCII   bool `json:"ensure_ascii,omitempty"`
	StrictVersion bool `json:"strict_version,omitempty"`
	Refresh       bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result describes one completed run.
type Result struct {
	Input   string
	Output  string
	Backup  string
	DocHash string
	Data    []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Bytes         int
	LoadTime      time.Duration
	TransformTime time.Duration
	SaveTime      time.Duration
}

// CacheInfo tracks whether the transform came from the cache.
type CacheInfo struct {
	TransformHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateOperation checks that op is a known batch operation.
func ValidateOperation(op string) error {
	if !ValidOperations[op] {
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown operation: %q (must be one of: xyscale, timescale, info, validate)", op)
	}
	return nil
}

// IsTransform reports whether op writes a transformed project.
func IsTransform(op string) bool {
	_, ok := outputSuffixes[op]
	return ok
}

// BatchOutputPath names the batch output for input: "a.tscproj" becomes
// "a.scaled.tscproj" for xyscale and "a.timescaled.tscproj" for timescale.
func BatchOutputPath(input, op string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + outputSuffixes[op]
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks a transform run and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTransform(); err != nil {
		return err
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidPath, "input path is required")
	}
	if err := errors.ValidateProjectPath(o.Input); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = o.Input
	}
	o.validated = true
	return nil
}

// ValidateForTransform checks the fields needed to transform a document
// in memory.
func (o *Options) ValidateForTransform() error {
	if !IsTransform(o.Operation) {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid operation: %q (must be one of: xyscale, timescale)", o.Operation)
	}
	if err := errors.ValidateScaleFactor(o.Factor); err != nil {
		return err
	}
	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}
	return nil
}

// TransformConfig returns the transform configuration for the run.
func (o *Options) TransformConfig() transform.Config {
	if o.Operation == OpTimeScale {
		return transform.TemporalConfig(o.Factor, o.PreserveAudio)
	}
	return transform.SpatialConfig(o.Factor)
}

// InPlace reports whether the run overwrites its input.
func (o *Options) InPlace() bool {
	if o.Output == "" {
		return true
	}
	a, errA := filepath.Abs(o.Input)
	b, errB := filepath.Abs(o.Output)
	if errA != nil || errB != nil {
		return o.Input == o.Output
	}
	return a == b
}

func (o *Options) indent() string {
	if o.Indent < 0 {
		return ""
	}
	return strings.Repeat(" ", o.Indent)
}
