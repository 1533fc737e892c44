package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tscproj/pkg/errors"
)

// Kind selects the dimension a transform scales.
type Kind int

const (
	Spatial Kind = iota + 1
	Temporal
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Spatial:
		return "spatial"
	case Temporal:
		return "temporal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "spatial"/"xy" and "temporal"/"time".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spatial", "xy", "xyscale":
		return Spatial, nil
	case "temporal", "time", "timescale":
		return Temporal, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown transform kind: %q", s)
}

// Config is the immutable description of a transform run.
type Config struct {
	Kind   Kind    `json:"kind"`
	Factor float64 `json:"factor"`

	// PreserveAudioDuration keeps audio clip lengths under temporal
	// transforms; only their start moves.
	PreserveAudioDuration bool `json:"preserve_audio_duration,omitempty"`

	// Verbose raises the run summary from debug to info level.
	Verbose bool `json:"verbose,omitempty"`
}

// SpatialConfig returns a spatial transform configuration.
func SpatialConfig(factor float64) Config {
	return Config{Kind: Spatial, Factor: factor}
}

// TemporalConfig returns a temporal transform configuration.
func TemporalConfig(factor float64, preserveAudio bool) Config {
	return Config{Kind: Temporal, Factor: factor, PreserveAudioDuration: preserveAudio}
}

// Validate checks the kind and that the factor is finite and positive.
func (c Config) Validate() error {
	if c.Kind != Spatial && c.Kind != Temporal {
		return errors.New(errors.ErrCodeInvalidInput, "invalid transform kind: %v", c.Kind)
	}
	return errors.ValidateScaleFactor(c.Factor)
}

// rootContext is the walker context for a whole project document.
func (c Config) rootContext() Context {
	return Context{
		Kind:          c.Kind,
		Region:        RegionRoot,
		PreserveAudio: c.PreserveAudioDuration,
	}
}
