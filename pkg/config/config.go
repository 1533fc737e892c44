// Package config loads tscproj settings from TOML files and the
// environment.
//
// Sources are applied in priority order, later ones winning:
//
//  1. Defaults
//  2. User file ($XDG_CONFIG_HOME/tscproj/config.toml)
//  3. Project file (.tscproj.toml in the working directory)
//  4. Environment variables (TSCPROJ_*)
//  5. Command-line flags, applied by the CLI
//
// Example file:
//
//	backup = true
//	indent = 2
//	cache = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"github.com/matzehuels/tscproj/pkg/errors"
)

// Default values.
const (
	DefaultIndent           = 2
	DefaultConfirmThreshold = 10
	DefaultCache            = CacheFile
	DefaultMongoDatabase    = "tscproj"
	DefaultListen           = ":8080"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds every tunable setting.
type Config struct {
	Backup        bool `toml:"backup"`
	Indent        int  `toml:"indent"`
	EnsureASCII   bool `toml:"ensure_ascii"`
	StrictVersion bool `toml:"strict_version"`
	PreserveAudio bool `toml:"preserve_audio"`

	// ConfirmThreshold is the batch size above which the CLI asks before
	// writing. Zero never asks.
	ConfirmThreshold int `toml:"confirm_threshold"`

	Cache    string `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
	RedisURL string `toml:"redis_url"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	Listen string `toml:"listen"`
}

// Source records where a setting came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceEnv      Source = "env"
	SourceFlag     Source = "flag"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backup:           true,
		Indent:           DefaultIndent,
		PreserveAudio:    true,
		ConfirmThreshold: DefaultConfirmThreshold,
		Cache:            DefaultCache,
		MongoDatabase:    DefaultMongoDatabase,
		Listen:           DefaultListen,
	}
}

// Validate checks enumerated and ranged settings.
func (c *Config) Validate() error {
	switch c.Cache {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"cache must be one of: file, redis, none (got %q)", c.Cache)
	}
	if c.Cache == CacheRedis && c.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache = \"redis\" requires redis_url")
	}
	if c.Indent < -1 || c.Indent > 16 {
		return errors.New(errors.ErrCodeInvalidInput, "indent must be between -1 and 16, got %d", c.Indent)
	}
	if c.ConfirmThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "confirm_threshold cannot be negative")
	}
	return nil
}

// Fields lists the TOML keys in display order.
func Fields() []string {
	return []string{
		"backup", "indent", "ensure_ascii", "strict_version", "preserve_audio",
		"confirm_threshold", "cache", "cache_dir", "redis_url",
		"mongo_uri", "mongo_database", "listen",
	}
}
