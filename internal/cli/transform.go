package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/pipeline"
)

const (
	opXYScale   = pipeline.OpXYScale
	opTimeScale = pipeline.OpTimeScale
)

// transformFlags holds the flags shared by xyscale and timescale.
type transformFlags struct {
	output        string
	noBackup      bool
	indent        int
	ensureASCII   bool
	strict        bool
	noCache       bool
	refresh       bool
	preserveAudio bool
}

// transformCommand creates the xyscale or timescale command.
func (c *CLI) transformCommand(op string) *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:  op + " <project> <factor>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := parseFactor(args[1])
			if err != nil {
				return err
			}
			opts := c.transformOptions(cmd, op, factor, flags)
			opts.Input = args[0]
			opts.Output = flags.output
			return c.runTransform(cmd, opts, flags.noCache)
		},
	}
	cmd.SetFlagErrorFunc(factorFlagError)

	switch op {
	case opXYScale:
		cmd.Short = "Scale a project's canvas and spatial properties"
		cmd.Long = `Scale the canvas, positions, sizes and other spatial properties by factor.

The project is rewritten in place with a .backup copy unless -o is given.`
		cmd.Example = "  tscproj xyscale demo.tscproj 1.5\n  tscproj xyscale demo.tscproj 0.5 -o small.tscproj"
	case opTimeScale:
		cmd.Short = "Scale a project's timing"
		cmd.Long = `Scale starts, durations, keyframe times and other temporal properties by factor.

Audio clip durations are kept unless --preserve-audio=false, so speech and
music keep their natural speed. The edit rate never changes.`
		cmd.Example = "  tscproj timescale demo.tscproj 2\n  tscproj timescale demo.tscproj 0.5 --preserve-audio=false"
	}

	cfg := c.settings()
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (default: overwrite input)")
	f.BoolVar(&flags.noBackup, "no-backup", false, "do not keep a .backup copy when overwriting")
	f.IntVar(&flags.indent, "indent", cfg.Indent, "spaces per indent level; -1 writes compact JSON")
	f.BoolVar(&flags.ensureASCII, "ensure-ascii", cfg.EnsureASCII, "escape non-ASCII characters")
	f.BoolVar(&flags.strict, "strict", cfg.StrictVersion, "reject unsupported project versions")
	f.BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")
	f.BoolVar(&flags.refresh, "refresh", false, "recompute and overwrite cached results")
	if op == opTimeScale {
		f.BoolVar(&flags.preserveAudio, "preserve-audio", cfg.PreserveAudio, "keep audio clip durations")
	}

	return cmd
}

// transformOptions merges flags with configuration. A flag the user did
// not set falls back to the loaded configuration, which is only known once
// the root pre-run has loaded it.
func (c *CLI) transformOptions(cmd *cobra.Command, op string, factor float64, flags transformFlags) pipeline.Options {
	cfg := c.settings()
	opts := pipeline.Options{
		Operation:     op,
		Factor:        factor,
		Backup:        cfg.Backup && !flags.noBackup,
		Indent:        cfg.Indent,
		EnsureASCII:   cfg.EnsureASCII,
		StrictVersion: cfg.StrictVersion,
		PreserveAudio: cfg.PreserveAudio,
		Refresh:       flags.refresh,
		Logger:        c.Logger,
	}
	f := cmd.Flags()
	if f.Changed("indent") {
		opts.Indent = flags.indent
		c.markFlag("indent")
	}
	if opts.Indent < 0 {
		opts.Indent = -1
	}
	if f.Changed("ensure-ascii") {
		opts.EnsureASCII = flags.ensureASCII
		c.markFlag("ensure_ascii")
	}
	if f.Changed("strict") {
		opts.StrictVersion = flags.strict
		c.markFlag("strict_version")
	}
	if f.Changed("preserve-audio") {
		opts.PreserveAudio = flags.preserveAudio
		c.markFlag("preserve_audio")
	}
	if f.Changed("no-backup") {
		c.markFlag("backup")
	}
	return opts
}

func (c *CLI) markFlag(key string) {
	if c.Config != nil {
		c.Config.MarkFlag(key)
	}
}

// runTransform executes one transform and prints the outcome.
func (c *CLI) runTransform(cmd *cobra.Command, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := startSpinner(ctx, transformLabel(opts.Operation, opts.Factor, opts.Input))
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("%s %s", opts.Operation, opts.Input))

	printSuccess("Applied %s %s to %s", opts.Operation, StyleNumber.Render(strconv.FormatFloat(opts.Factor, 'g', -1, 64)), res.Input)
	printFile(res.Output)
	if res.Backup != "" {
		printDetail("backup: %s", res.Backup)
	}
	printStats([]string{
		formatBytes(int64(res.Stats.Bytes)),
		"transform " + res.Stats.TransformTime.Round(time.Millisecond).String(),
	}, res.CacheInfo.TransformHit)
	return nil
}

// parseFactor parses a scale factor argument.
// factorFlagError turns a negative factor, which the flag parser sees as
// an unknown shorthand such as -1, into an invalid factor error.
func factorFlagError(_ *cobra.Command, err error) error {
	var unknown *pflag.NotExistError
	if !stderrors.As(err, &unknown) || unknown.GetSpecifiedShortnames() == "" {
		return err
	}
	token := "-" + unknown.GetSpecifiedShortnames()
	if _, perr := strconv.ParseFloat(token, 64); perr != nil {
		return err
	}
	_, ferr := parseFactor(token)
	return ferr
}

func parseFactor(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFactor, "invalid scale factor: %q", s)
	}
	if err := errors.ValidateScaleFactor(f); err != nil {
		return 0, err
	}
	return f, nil
}
