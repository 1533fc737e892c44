package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/timing"
	"github.com/matzehuels/tscproj/pkg/transform"
)

// trackListCommand creates the track-ls command.
func (c *CLI) trackListCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "track-ls <project>",
		Short: "List timeline tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(args[0], false)
			if err != nil {
				return err
			}
			printTracks(p, detailed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "list the first clips of each track")

	return cmd
}

// markerListCommand creates the marker-ls command.
func (c *CLI) markerListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "marker-ls <project>",
		Short: "List timeline markers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(args[0], false)
			if err != nil {
				return err
			}
			markers := project.Markers(p.Timeline)
			if len(markers) == 0 {
				printInfo("No markers")
				return nil
			}
			rows := make([][]string, 0, len(markers))
			for _, m := range markers {
				rows = append(rows, []string{
					timing.FormatTicks(float64(m.Time), p.Metadata.EditRate),
					markerName(m),
				})
			}
			printTable([]string{"Time", "Name"}, rows)
			printDetail("%d %s", len(markers), plural(len(markers), "marker", "markers"))
			return nil
		},
	}
}

func markerName(m project.Marker) string {
	if m.Name == "" {
		return "(unnamed)"
	}
	return m.Name
}

// mediaKindLabel groups a media "_type" into the category shown in track
// listings.
func mediaKindLabel(typ string) string {
	switch transform.MediaKindOf(typ) {
	case transform.MediaVideo, transform.MediaScreenVideo, transform.MediaUnified, transform.MediaStitched:
		return "video"
	case transform.MediaAudio:
		return "audio"
	case transform.MediaImage:
		return "image"
	case transform.MediaCallout:
		return "annotation"
	case transform.MediaGroup:
		return "group"
	}
	return "other"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
