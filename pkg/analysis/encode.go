package analysis

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tscproj/pkg/errors"
)

// Output formats for Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat normalizes a format name. Empty means text.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported report format: %q (want text, json or yaml)", s)
}

// Encode writes r as JSON or YAML. Text output is rendered by the CLI.
func Encode(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "cannot encode report as %q", format)
}
