package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".tscproj.toml"

// Loaded is a configuration with the source of every field.
type Loaded struct {
	*Config
	Sources map[string]Source
	Files   []string
}

// Load reads defaults, the user file, the project file in the working
// directory and the environment.
func Load() (*Loaded, error) {
	return LoadFiles(UserFile(), ProjectFile)
}

// LoadFiles is Load with explicit user and project file paths. Missing
// files are skipped; an empty path disables that layer.
func LoadFiles(userFile, projectFile string) (*Loaded, error) {
	l := &Loaded{Config: Default(), Sources: make(map[string]Source)}
	for _, f := range Fields() {
		l.Sources[f] = SourceDefault
	}

	if err := l.loadFile(userFile, SourceUserFile); err != nil {
		return nil, err
	}
	if err := l.loadFile(projectFile, SourceProjFile); err != nil {
		return nil, err
	}
	if err := l.loadEnv(); err != nil {
		return nil, err
	}

	l.CacheDir = expandPath(l.CacheDir)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loaded) loadFile(path string, source Source) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	md, err := toml.DecodeFile(path, l.Config)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("loading config file %s: unknown key %q", path, undecoded[0].String())
	}
	for _, key := range md.Keys() {
		l.Sources[key.String()] = source
	}
	l.Files = append(l.Files, path)
	return nil
}

// env maps environment variables to their TOML keys.
var env = []struct {
	name, key string
}{
	{"TSCPROJ_BACKUP", "backup"},
	{"TSCPROJ_STRICT_VERSION", "strict_version"},
	{"TSCPROJ_CACHE", "cache"},
	{"TSCPROJ_CACHE_DIR", "cache_dir"},
	{"TSCPROJ_REDIS_URL", "redis_url"},
	{"TSCPROJ_MONGO_URI", "mongo_uri"},
	{"TSCPROJ_MONGO_DATABASE", "mongo_database"},
	{"TSCPROJ_LISTEN", "listen"},
}

func (l *Loaded) loadEnv() error {
	for _, e := range env {
		v, ok := os.LookupEnv(e.name)
		if !ok || v == "" {
			continue
		}
		if err := l.set(e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		l.Sources[e.key] = SourceEnv
	}
	return nil
}

func (l *Loaded) set(key, v string) error {
	switch key {
	case "backup", "strict_version":
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		if key == "backup" {
			l.Backup = b
		} else {
			l.StrictVersion = b
		}
	case "cache":
		l.Cache = strings.ToLower(v)
	case "cache_dir":
		l.CacheDir = v
	case "redis_url":
		l.RedisURL = v
	case "mongo_uri":
		l.MongoURI = v
	case "mongo_database":
		l.MongoDatabase = v
	case "listen":
		l.Listen = v
	}
	return nil
}

// MarkFlag records that a flag overrode key.
func (l *Loaded) MarkFlag(key string) {
	l.Sources[key] = SourceFlag
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// UserFile returns the user config path, or "" when no config directory
// can be determined.
func UserFile() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tscproj", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tscproj", "config.toml")
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
