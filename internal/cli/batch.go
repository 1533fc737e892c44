package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/pipeline"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		yes           bool
		noCache       bool
		strict        bool
		preserveAudio bool
	)

	cmd := &cobra.Command{
		Use:   "batch <pattern> <operation> [factor]",
		Short: "Apply one operation to many projects",
		Long: `Apply info, validate, xyscale or timescale to every .tscproj file matching pattern.

A "**" segment in the pattern matches any number of directories. Scaled
projects are written next to their input as <name>.scaled.tscproj or
<name>.timescaled.tscproj; inputs are never overwritten. A failing file is
reported and the batch continues.`,
		Example: `  tscproj batch "projects/*.tscproj" info
  tscproj batch "projects/**/*.tscproj" xyscale 1.5`,
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: batchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, op := args[0], strings.ToLower(args[1])
			if err := pipeline.ValidateOperation(op); err != nil {
				return err
			}

			cfg := c.settings()
			base := pipeline.Options{
				Operation:     op,
				Indent:        cfg.Indent,
				EnsureASCII:   cfg.EnsureASCII,
				StrictVersion: cfg.StrictVersion,
				PreserveAudio: cfg.PreserveAudio,
				Logger:        c.Logger,
			}
			if cmd.Flags().Changed("strict") {
				base.StrictVersion = strict
			}
			if cmd.Flags().Changed("preserve-audio") {
				base.PreserveAudio = preserveAudio
			}
			if pipeline.IsTransform(op) {
				if len(args) < 3 {
					return errors.New(errors.ErrCodeInvalidFactor, "%s requires a scale factor", op)
				}
				factor, err := parseFactor(args[2])
				if err != nil {
					return err
				}
				base.Factor = factor
			}

			files, err := pipeline.Glob(pattern)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New(errors.ErrCodeFileNotFound, "no project files match %q", pattern)
			}

			if threshold := cfg.ConfirmThreshold; !yes && threshold > 0 && len(files) > threshold {
				ok, err := c.confirm(fmt.Sprintf("Process %d files with %s?", len(files), op))
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Cancelled")
					return nil
				}
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			step, err := runner.Step(base)
			if err != nil {
				return err
			}

			printInfo("%s %d %s", op, len(files), plural(len(files), "project", "projects"))
			res := pipeline.RunBatch(cmd.Context(), op, files, step, printBatchProgress)
			printBatchSummary(res)

			if res.Canceled {
				return cmd.Context().Err()
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", res.Failed, res.Total)
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(factorFlagError)

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unsupported project versions")
	cmd.Flags().BoolVar(&preserveAudio, "preserve-audio", true, "keep audio clip durations (timescale)")

	return cmd
}

// printBatchProgress prints one line per finished file.
func printBatchProgress(done, total int, fr pipeline.FileResult) {
	counter := StyleDim.Render(fmt.Sprintf("[%d/%d]", done, total))
	if !fr.OK() {
		printError("%s %s: %s", counter, fr.Input, fr.Error)
		return
	}
	line := fmt.Sprintf("%s %s", counter, fr.Input)
	if fr.Detail != "" {
		line += StyleDim.Render(" · " + fr.Detail)
	}
	printSuccess("%s", line)
	if fr.Output != "" {
		printFile(fr.Output)
	}
}

// printBatchSummary prints the totals of a batch run.
func printBatchSummary(res *pipeline.BatchResult) {
	var elapsed time.Duration
	for _, f := range res.Files {
		elapsed += f.Duration
	}

	printSection("Summary")
	printKeyValue("Run", res.RunID)
	printKeyValue("Successful", StyleSuccess.Render(fmt.Sprint(res.Succeeded)))
	errs := fmt.Sprint(res.Failed)
	if res.Failed > 0 {
		errs = StyleError.Render(errs)
	}
	printKeyValue("Errors", errs)
	printKeyValue("Total", fmt.Sprint(res.Total))
	printKeyValue("Elapsed", elapsed.Round(time.Millisecond).String())
	if res.Canceled {
		printWarning("Cancelled after %d of %d files", len(res.Files), res.Total)
	}
}
