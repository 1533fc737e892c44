package cli

import (
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/version"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <project>",
		Short: "Check a project's structure",
		Long: `Check that a project parses and that its known fields have the expected types.

Every problem is listed. With --strict, versions other than the supported
ones are rejected as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := project.ResolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree, err := project.ParseDocument(data)
			if err != nil {
				return err
			}
			doc, ok := tree.(*jsontree.Object)
			if !ok {
				return errors.New(errors.ErrCodeInvalidStructure, "project must be a dictionary")
			}
			if strict {
				if err := project.CheckVersion(doc); err != nil {
					return err
				}
			}

			stated, _ := doc.Text("version")
			c.Logger.Debug("validating", "path", path, "version", stated, "detected", version.Detect(doc))

			if problems := project.ValidateStructure(doc); len(problems) > 0 {
				return errors.Wrap(errors.ErrCodeInvalidStructure,
					&errors.ValidationError{Errors: problems},
					"%s has %d structural %s", args[0], len(problems), plural(len(problems), "problem", "problems"))
			}

			printSuccess("%s is valid", args[0])
			printDetail("version %s, detected %s", orDash(stated), version.Detect(doc))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject unsupported project versions")

	return cmd
}

// validationErrors extracts the problem list from err, if any.
func validationErrors(err error) *errors.ValidationError {
	var ve *errors.ValidationError
	if stderrors.As(err, &ve) {
		return ve
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
