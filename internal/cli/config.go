package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/config"
	"github.com/matzehuels/tscproj/pkg/errors"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and initialize configuration",
		Long: `tscproj reads settings from, in increasing priority:

  built-in defaults
  $XDG_CONFIG_HOME/tscproj/config.toml (or ~/.config/tscproj/config.toml)
  ./.tscproj.toml
  TSCPROJ_* environment variables
  command-line flags`,
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if asTOML {
				return cfg.Encode(stdout)
			}
			for _, key := range config.Fields() {
				source := config.SourceDefault
				if c.Config != nil {
					source = c.Config.Sources[key]
				}
				printKeyValueWidth(key, fieldValue(cfg, key)+"  "+StyleDim.Render(string(source)), 18)
			}
			if c.Config != nil && len(c.Config.Files) > 0 {
				printNewline()
				for _, f := range c.Config.Files {
					printFile(f)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML")

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range []string{config.UserFile(), config.ProjectFile} {
				if f == "" {
					continue
				}
				_, err := os.Stat(f)
				fmt.Fprintf(stdout, "%s %s\n", yesNo(err == nil), f)
			}
			return nil
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		local bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.UserFile()
			if local {
				path = config.ProjectFile
			}
			if path == "" {
				return errors.New(errors.ErrCodeInvalidPath, "cannot determine the user config directory")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeConflict, "%s already exists (use --force to overwrite)", path)
			}

			var buf bytes.Buffer
			if err := config.Default().Encode(&buf); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "write ./"+config.ProjectFile+" instead of the user file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// fieldValue renders the value of a config key.
func fieldValue(cfg *config.Config, key string) string {
	var v any
	switch key {
	case "backup":
		v = cfg.Backup
	case "indent":
		v = cfg.Indent
	case "ensure_ascii":
		v = cfg.EnsureASCII
	case "strict_version":
		v = cfg.StrictVersion
	case "preserve_audio":
		v = cfg.PreserveAudio
	case "confirm_threshold":
		v = cfg.ConfirmThreshold
	case "cache":
		v = cfg.Cache
	case "cache_dir":
		v = cfg.CacheDir
	case "redis_url":
		v = cfg.RedisURL
	case "mongo_uri":
		v = cfg.MongoURI
	case "mongo_database":
		v = cfg.MongoDatabase
	case "listen":
		v = cfg.Listen
	}
	if s, ok := v.(string); ok && s == "" {
		return "-"
	}
	return fmt.Sprint(v)
}
