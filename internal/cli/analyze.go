package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/store"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		format  string
		output  string
		persist bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "analyze <project>",
		Short: "Analyze project complexity",
		Long: `Analyze a project's media, timeline and complexity, checking that every
media file exists, and print recommendations.

With --store the report is saved to MongoDB (mongo_uri in the config or
TSCPROJ_MONGO_URI).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := analysis.ParseFormat(format)
			if err != nil {
				return err
			}
			if output != "" && f == analysis.FormatText {
				f = analysis.FormatJSON
			}

			path := args[0]
			p, err := c.loadProject(path, false)
			if err != nil {
				return err
			}
			a := analysis.ForProject(analysis.ModeAnalyze, path, c.Logger)
			a.Workers = workers

			spinner := startSpinner(ctx, analyzeLabel(path))
			rep, err := a.Analyze(ctx, p, path)
			spinner.Stop()
			if err != nil {
				return err
			}

			if persist {
				if err := c.storeReport(ctx, rep); err != nil {
					return err
				}
			}

			switch {
			case output != "":
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := analysis.Encode(file, rep, f); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return err
				}
				printSuccess("Wrote %s report", f)
				printFile(output)
			case f != analysis.FormatText:
				return analysis.Encode(stdout, rep, f)
			default:
				printReport(rep)
			}
			if persist {
				printDetail("stored report %s", rep.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file (json unless --format yaml)")
	cmd.Flags().BoolVar(&persist, "store", false, "save the report to MongoDB")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent media file checks (default: number of CPUs)")

	return cmd
}

// openStore returns the preset Store or connects to the configured
// MongoDB database. The returned func releases the connection.
func (c *CLI) openStore(ctx context.Context) (store.Store, func(), error) {
	if c.Store != nil {
		return c.Store, func() {}, nil
	}
	cfg := c.settings()
	if cfg.MongoURI == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "no report store: set mongo_uri in the config or TSCPROJ_MONGO_URI")
	}
	s, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close(context.WithoutCancel(ctx)) }, nil
}

// storeReport saves rep to the report store.
func (c *CLI) storeReport(ctx context.Context, rep *analysis.Report) error {
	s, release, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer release()
	if err := s.SaveReport(ctx, rep); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("stored report", "id", rep.ID, "path", rep.Path)
	return nil
}

// reportsCommand creates the reports command.
func (c *CLI) reportsCommand() *cobra.Command {
	var (
		mode  string
		limit int64
	)

	cmd := &cobra.Command{
		Use:   "reports [project]",
		Short: "List stored analysis reports",
		Long: `List reports saved with analyze --store, newest first. With a project path
only that project's reports are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, release, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer release()

			q := store.Query{Mode: mode, Limit: limit}
			if len(args) == 1 {
				q.Path = args[0]
			}
			reports, err := s.ListReports(ctx, q)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("No reports")
				return nil
			}
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				rows = append(rows, []string{
					r.Generated.Local().Format("2006-01-02 15:04"),
					r.Path,
					r.Mode,
					string(r.Complexity.Level),
					r.ID,
				})
			}
			printTable([]string{"Generated", "Project", "Mode", "Level", "ID"}, rows)
			printNextStep("Show a report", "tscproj reports show <id>")
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "only reports of this mode (info or analyze)")
	cmd.Flags().Int64Var(&limit, "limit", store.DefaultLimit, "maximum number of reports")
	cmd.AddCommand(c.reportShowCommand())

	return cmd
}

// reportShowCommand creates the "reports show" subcommand.
func (c *CLI) reportShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := analysis.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, release, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer release()

			rep, err := s.GetReport(ctx, args[0])
			if err != nil {
				return err
			}
			if f != analysis.FormatText {
				return analysis.Encode(stdout, rep, f)
			}
			printReport(rep)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")

	return cmd
}
