package errors

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidateScaleFactor checks that f can be used as a scale factor.
// The factor must be finite and strictly positive.
func ValidateScaleFactor(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return New(ErrCodeInvalidFactor, "Scale factor must be positive and finite, got %v", f)
	}
	if f <= 0 {
		return New(ErrCodeInvalidFactor, "Scale factor must be positive, got %v", f)
	}
	return nil
}

// ValidateProjectPath checks that path names a project file or container.
// Accepted forms are "*.tscproj" files and "*.cmproj" directories.
func ValidateProjectPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "project path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' {
			return New(ErrCodeInvalidPath, "project path contains invalid characters")
		}
	}
	switch strings.ToLower(filepath.Ext(strings.TrimRight(path, `/\`))) {
	case ".tscproj", ".cmproj":
		return nil
	}
	return New(ErrCodeInvalidPath, "not a project file: %s (want .tscproj or .cmproj)", path)
}

// ValidateMediaID checks a source-bin media identifier given on the command line.
func ValidateMediaID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "media id cannot be empty")
	}
	if len(id) > 20 {
		return New(ErrCodeInvalidInput, "media id too long (max 20 characters)")
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return New(ErrCodeInvalidInput, "media id must be an integer: %q", id)
	}
	return nil
}
