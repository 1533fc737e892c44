package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/media"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/timing"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		detailed bool
		format   string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "info <project>",
		Short: "Show project information",
		Long: `Show a project's version, canvas, media and timeline summary.

With --detailed the source bin and timeline tracks are listed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := analysis.ParseFormat(format)
			if err != nil {
				return err
			}
			path := args[0]
			p, err := c.loadProject(path, strict)
			if err != nil {
				return err
			}
			rep, err := analysis.ForProject(analysis.ModeInfo, path, c.Logger).Analyze(cmd.Context(), p, path)
			if err != nil {
				return err
			}
			if f != analysis.FormatText {
				return analysis.Encode(stdout, rep, f)
			}

			printReport(rep)
			if detailed {
				printSourceBin(p)
				printTracks(p, false)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "list media and tracks")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unsupported project versions")

	return cmd
}

// printReport renders the text form of an analysis report.
func printReport(r *analysis.Report) {
	fmt.Fprintln(stdout, StyleTitle.Render(r.Path))
	printKeyValue("Version", versionLabel(r))
	printKeyValue("Edit rate", fmt.Sprint(r.EditRate))
	printKeyValue("Canvas", fmt.Sprintf("%gx%g @ %g fps", r.Canvas.Width, r.Canvas.Height, r.Canvas.Framerate))
	printKeyValue("Duration", timing.FormatSeconds(r.Timeline.Duration))

	printSection("Media")
	printKeyValue("Total", fmt.Sprint(r.Media.Total))
	for _, line := range r.Media.SortedTypes() {
		printDetail("%s", line)
	}
	printKeyValue("Unused", fmt.Sprint(r.Media.Unused))
	if len(r.Media.Missing) > 0 {
		printKeyValue("Missing", fmt.Sprint(len(r.Media.Missing)))
	}
	if r.Media.TotalSize > 0 {
		printKeyValue("Size", formatBytes(r.Media.TotalSize))
	}

	printSection("Timeline")
	printKeyValue("Tracks", fmt.Sprint(r.Timeline.Tracks))
	printKeyValue("Clips", fmt.Sprint(r.Timeline.Clips))
	if r.Timeline.NestedClips > 0 {
		printKeyValue("Nested clips", fmt.Sprint(r.Timeline.NestedClips))
	}
	printKeyValue("Effects", fmt.Sprint(r.Timeline.Effects))
	printKeyValue("Transitions", fmt.Sprint(r.Timeline.Transitions))
	printKeyValue("Markers", fmt.Sprint(r.Timeline.Markers))

	printSection("Complexity")
	printKeyValue("Score", fmt.Sprintf("%.1f", r.Complexity.Score))
	printKeyValue("Level", string(r.Complexity.Level))

	if len(r.Recommendations) > 0 || len(r.Media.Missing) > 0 || len(r.Warnings) > 0 {
		printNewline()
	}
	for _, rec := range r.Recommendations {
		printInfo("%s", rec)
	}
	for _, m := range r.Media.Missing {
		printWarning("missing media: %s", m)
	}
	for _, w := range r.Warnings {
		printWarning("%s", w)
	}
}

func versionLabel(r *analysis.Report) string {
	detected := r.Detected.String()
	if detected == r.Version {
		return r.Version
	}
	return fmt.Sprintf("%s (detected %s)", r.Version, detected)
}

// printSourceBin lists every source bin entry with its usage.
func printSourceBin(p *project.Project) {
	printSection("Source bin")
	if len(p.SourceBin) == 0 {
		printDetail("empty")
		return
	}
	used := media.Used(p)
	rows := make([][]string, 0, len(p.SourceBin))
	for _, item := range p.SourceBin {
		rows = append(rows, []string{
			fmt.Sprint(item.ID()),
			item.MediaType(),
			yesNo(used[item.ID()]),
			item.Src(),
		})
	}
	printTable([]string{"ID", "Type", "Used", "Source"}, rows)
}

// printTracks lists timeline tracks. With clips set, the first clips of
// each track are listed underneath.
func printTracks(p *project.Project, clips bool) {
	printSection("Tracks")
	tracks := project.Tracks(p.Timeline)
	if len(tracks) == 0 {
		printDetail("no tracks")
		return
	}
	rate := p.Metadata.EditRate
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			fmt.Sprint(t.Index),
			trackName(t),
			trackType(t),
			fmt.Sprint(len(t.Medias)),
			timing.FormatTicks(trackEnd(t), rate),
		})
	}
	printTable([]string{"#", "Name", "Type", "Clips", "End"}, rows)

	if !clips {
		return
	}
	for _, t := range tracks {
		if len(t.Medias) == 0 {
			continue
		}
		printInfo("track %d", t.Index)
		for i, m := range t.Medias {
			if i == maxListedClips {
				printDetail("... and %d more", len(t.Medias)-maxListedClips)
				break
			}
			typ, _ := m.Text("_type")
			start, _ := m.Float("start")
			dur, _ := m.Float("duration")
			printDetail("%s @ %s for %s", typ, timing.FormatTicks(start, rate), timing.FormatTicks(dur, rate))
		}
	}
}

// maxListedClips bounds the clips shown per track in detailed listings.
const maxListedClips = 5

func trackName(t project.Track) string {
	if t.Name == "" {
		return "-"
	}
	return t.Name
}

// trackType names the media kinds placed on t, or "empty".
func trackType(t project.Track) string {
	seen := make(map[string]bool)
	var kinds []string
	for _, m := range t.Medias {
		typ, _ := m.Text("_type")
		kind := mediaKindLabel(typ)
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return "empty"
	}
	return strings.Join(kinds, ", ")
}

func trackEnd(t project.Track) float64 {
	var end float64
	for _, m := range t.Medias {
		end = max(end, project.MediaEnd(m))
	}
	return end
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
