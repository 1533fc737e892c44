package project

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/sanitize"
)

// BackupSuffix is appended to a project path to name its backup copy.
const BackupSuffix = ".backup"

// Saver writes project documents.
type Saver struct {
	// Indent is the per-level indent. Empty means two spaces; use
	// Compact for single-line output.
	Indent  string
	Compact bool
	// EnsureASCII escapes every non-ASCII character.
	EnsureASCII bool
	// Backup copies an existing destination to "<path>.backup" first.
	Backup bool
	Logger *log.Logger
}

// NewSaver returns a saver with the default layout and no backups.
func NewSaver(logger *log.Logger) *Saver {
	return &Saver{Logger: logger}
}

// Encode sanitizes tree and renders it.
func (s *Saver) Encode(tree jsontree.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Write(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write sanitizes tree and encodes it to w.
func (s *Saver) Write(w io.Writer, tree jsontree.Value) error {
	enc := jsontree.NewEncoder(w)
	switch {
	case s.Compact:
		enc.SetIndent("")
	case s.Indent != "":
		enc.SetIndent(s.Indent)
	}
	enc.SetEnsureASCII(s.EnsureASCII)
	if err := enc.Encode(sanitize.Value(tree)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// SaveFile writes p to path. A .cmproj directory path writes its
// ContainerFile.
func (s *Saver) SaveFile(p *Project, path string) error {
	return s.SaveTree(p.ToTree(), path)
}

// SaveTree writes a raw document to path atomically.
func (s *Saver) SaveTree(tree jsontree.Value, path string) error {
	data, err := s.Encode(tree)
	if err != nil {
		return err
	}
	_, err = s.SaveBytes(data, path)
	return err
}

// SaveBytes writes an already encoded document to path atomically, taking
// a backup first when configured. A .cmproj directory path writes its
// ContainerFile. It returns the path actually written.
func (s *Saver) SaveBytes(data []byte, path string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ContainerFile)
	}
	if s.Backup {
		if backup, err := CreateBackup(path); err != nil {
			return "", err
		} else if backup != "" {
			s.logger().Debug("wrote backup", "path", backup)
		}
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	s.logger().Debug("saved project", "path", path, "bytes", len(data))
	return path, nil
}

func (s *Saver) logger() *log.Logger {
	if s.Logger == nil {
		return discard
	}
	return s.Logger
}

// CreateBackup copies path to path+BackupSuffix, replacing an older backup.
// It returns "" without error when path does not exist yet.
func CreateBackup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	backup := path + BackupSuffix
	if err := writeAtomic(backup, data); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return backup, nil
}

// writeAtomic writes data to a temp file beside dest and renames it over dest.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0o644)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
