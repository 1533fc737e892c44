package project

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/version"
)

// ContainerFile is the canonical document inside a .cmproj directory.
const ContainerFile = "project.tscproj"

// Loader reads project documents.
type Loader struct {
	// StrictVersion rejects versions outside version.Supported.
	StrictVersion bool
	// StrictStructure returns structural problems as an error instead of
	// falling back to defaults.
	StrictStructure bool
	// Logger receives default-substitution warnings. Nil discards them.
	Logger *log.Logger
}

// NewLoader returns a lenient loader.
func NewLoader(logger *log.Logger) *Loader {
	return &Loader{Logger: logger}
}

// ResolvePath maps a project path to the document file. A directory is
// treated as a container and must hold ContainerFile.
func ResolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "project not found: %s", path)
		}
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	doc := filepath.Join(path, ContainerFile)
	if _, err := os.Stat(doc); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "container %s has no %s", path, ContainerFile)
		}
		return "", err
	}
	return doc, nil
}

// LoadFile loads a .tscproj file or .cmproj container. Permission errors
// from the filesystem are returned unwrapped.
func (l *Loader) LoadFile(path string) (*Project, error) {
	doc, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(doc)
	if err != nil {
		return nil, err
	}
	l.logger().Debug("read project", "path", doc, "bytes", len(data))
	return l.Load(data)
}

// LoadReader loads a document from r.
func (l *Loader) LoadReader(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return l.Load(data)
}

// Load decodes and loads a document.
func (l *Loader) Load(data []byte) (*Project, error) {
	tree, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return l.LoadTree(tree)
}

// ParseDocument decodes raw bytes into a document tree. A leading UTF-8
// byte order mark is ignored. Empty, truncated or non-JSON input is a
// PARSE_FAILED error.
func ParseDocument(data []byte) (jsontree.Value, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	tree, err := jsontree.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid project JSON")
	}
	return tree, nil
}

// LoadTree builds a Project from an already decoded document.
func (l *Loader) LoadTree(tree jsontree.Value) (*Project, error) {
	doc, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "project must be a dictionary, got %s", kindOf(tree))
	}

	if l.StrictVersion {
		if err := CheckVersion(doc); err != nil {
			return nil, err
		}
	}

	if problems := ValidateStructure(doc); len(problems) > 0 {
		if l.StrictStructure {
			return nil, errors.Wrap(errors.ErrCodeInvalidStructure,
				&errors.ValidationError{Errors: problems}, "invalid project structure")
		}
		for _, msg := range problems {
			l.logger().Warn("structure", "problem", msg)
		}
	}

	p := FromTree(doc)
	for _, w := range p.Warnings {
		l.logger().Warn("defaulted field", "detail", w)
	}
	l.logger().Debug("loaded project",
		"version", p.Metadata.Version,
		"detected", p.Metadata.Detected,
		"canvas", canvasString(p.Canvas),
		"sources", len(p.SourceBin))
	return p, nil
}

// CheckVersion returns UNSUPPORTED_VERSION when the document's version
// string is missing or not in version.Supported.
func CheckVersion(doc *jsontree.Object) error {
	v, _ := doc.Text("version")
	if !version.IsSupported(v) {
		if v == "" {
			v = "<missing>"
		}
		return errors.New(errors.ErrCodeUnsupportedVersion,
			"Unsupported project version: %s (supported: %s)", v, strings.Join(version.Supported, ", "))
	}
	return nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return discard
	}
	return l.Logger
}

var discard = log.New(io.Discard)

func kindOf(v jsontree.Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind().String()
}

func canvasString(c Canvas) string {
	return jsontree.Integral(c.Width).String() + "x" + jsontree.Integral(c.Height).String()
}
