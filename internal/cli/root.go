package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/buildinfo"
	"github.com/matzehuels/tscproj/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Configuration is loaded once, before the first command runs, unless the
// CLI was constructed with Config already set. --verbose (-v) switches the
// logger to debug level and the logger is attached to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "tscproj rescales and inspects Camtasia projects",
		Long: `tscproj rescales Camtasia project files in space (canvas, positions, sizes)
and time (starts, durations, keyframes), and inspects their media, tracks and markers.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			if c.Config == nil {
				loaded, err := config.Load()
				if err != nil {
					return err
				}
				c.Config = loaded
				c.Logger.Debug("loaded config", "files", loaded.Files)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddGroup(
		&cobra.Group{ID: groupProject, Title: "Project Commands:"},
		&cobra.Group{ID: groupMedia, Title: "Media & Timeline Commands:"},
		&cobra.Group{ID: groupTools, Title: "Tools:"},
	)

	for _, cmd := range []*cobra.Command{
		c.infoCommand(),
		c.validateCommand(),
		c.transformCommand(opXYScale),
		c.transformCommand(opTimeScale),
		c.batchCommand(),
		c.analyzeCommand(),
		c.reportsCommand(),
		c.graphCommand(),
	} {
		cmd.GroupID = groupProject
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.mediaListCommand(),
		c.mediaRemoveCommand(),
		c.mediaReplaceCommand(),
		c.mediaDuplicateCommand(),
		c.trackListCommand(),
		c.markerListCommand(),
	} {
		cmd.GroupID = groupMedia
		root.AddCommand(cmd)
	}
	for _, cmd := range root.Commands() {
		if strings.HasPrefix(strings.TrimPrefix(cmd.Use, cmd.Name()), " <project>") {
			cmd.ValidArgsFunction = projectArgs
		}
	}
	for _, cmd := range []*cobra.Command{
		c.serveCommand(),
		c.configCommand(),
		c.cacheCommand(),
		c.versionCommand(),
		c.completionCommand(),
	} {
		cmd.GroupID = groupTools
		root.AddCommand(cmd)
	}

	return root
}

// Command groups for help output.
const (
	groupProject = "project"
	groupMedia   = "media"
	groupTools   = "tools"
)
