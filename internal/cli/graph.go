package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/structure"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format  string
		output  string
		sources bool
		depth   int
	)

	cmd := &cobra.Command{
		Use:   "graph <project>",
		Short: "Render the project structure",
		Long: `Render the project's tracks, clips and nested containers as a Graphviz diagram.

With --sources, source bin entries are drawn and linked to the clips using them.`,
		Example: `  tscproj graph demo.tscproj
  tscproj graph demo.tscproj --format png --sources -o demo.png
  tscproj graph demo.tscproj --format dot | dot -Tpdf > demo.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := structure.ParseFormat(format)
			if err != nil {
				return err
			}
			path := args[0]
			p, err := c.loadProject(path, false)
			if err != nil {
				return err
			}

			g := structure.Build(p, structure.Options{Sources: sources, MaxDepth: depth})
			c.Logger.Debug("built structure graph", "nodes", len(g.Nodes), "edges", len(g.Edges))

			data, err := structure.Render(cmd.Context(), structure.ToDOT(g), f)
			if err != nil {
				return err
			}

			if output == "" && f == structure.FormatDOT {
				_, err := stdout.Write(data)
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + f
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %d nodes", len(g.Nodes))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", structure.FormatSVG, "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <project>.<format>; dot prints to stdout)")
	cmd.Flags().BoolVar(&sources, "sources", false, "draw source bin entries")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum container nesting (0: unlimited)")

	return cmd
}
