package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/media"
	"github.com/matzehuels/tscproj/pkg/project"
)

// mediaListCommand creates the media-ls command.
func (c *CLI) mediaListCommand() *cobra.Command {
	var unusedOnly bool

	cmd := &cobra.Command{
		Use:   "media-ls <project>",
		Short: "List source bin media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(args[0], false)
			if err != nil {
				return err
			}
			items := p.SourceBin
			if unusedOnly {
				items = media.Unused(p)
			}
			if len(items) == 0 {
				printInfo("No media")
				return nil
			}

			base := projectDir(args[0])
			used := media.Used(p)
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				exists, size := statMedia(base, item.Src())
				sizeText := "-"
				if exists {
					sizeText = formatBytes(size)
				}
				rows = append(rows, []string{
					fmt.Sprint(item.ID()),
					mediaName(item),
					item.MediaType(),
					yesNo(used[item.ID()]),
					yesNo(exists),
					sizeText,
					item.Src(),
				})
			}
			printTable([]string{"ID", "Name", "Type", "Used", "Exists", "Size", "Source"}, rows)
			printDetail("%d %s", len(items), plural(len(items), "item", "items"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unusedOnly, "unused", false, "list only media no clip references")

	return cmd
}

// mediaRemoveCommand creates the media-rm command.
func (c *CLI) mediaRemoveCommand() *cobra.Command {
	var (
		id          string
		unused      bool
		interactive bool
		clearTracks bool
		yes         bool
		noBackup    bool
	)

	cmd := &cobra.Command{
		Use:   "media-rm <project>",
		Short: "Remove media from the source bin",
		Long: `Remove one source bin entry (--id), every unreferenced entry (--unused), or
pick one interactively (-i).

Media still used by clips is only removed with --clear-tracks, which deletes
those clips as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			modes := 0
			for _, set := range []bool{id != "", unused, interactive} {
				if set {
					modes++
				}
			}
			if modes != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "specify exactly one of --id, --unused or --interactive")
			}

			p, err := c.loadProject(path, false)
			if err != nil {
				return err
			}

			if unused {
				candidates := media.Unused(p)
				if len(candidates) == 0 {
					printInfo("No unused media")
					return nil
				}
				for _, item := range candidates {
					printDetail("%d %s", item.ID(), mediaName(item))
				}
				if ok, err := c.confirmUnless(yes, fmt.Sprintf("Remove %d unused media?", len(candidates))); err != nil || !ok {
					return err
				}
				removed := media.RemoveUnused(p)
				if err := c.saveMediaChange(p, path, noBackup); err != nil {
					return err
				}
				printSuccess("Removed %d unused media", len(removed))
				return nil
			}

			var mediaID int64
			if interactive {
				item, err := runMediaPicker(p, media.Used(p))
				if err != nil {
					return err
				}
				if item == nil {
					printInfo("Cancelled")
					return nil
				}
				mediaID = item.ID()
			} else {
				if mediaID, err = parseMediaID(id); err != nil {
					return err
				}
			}

			refs, err := media.References(p, mediaID)
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("Remove media %d (%s)?", mediaID, mediaName(p.SourceBin[media.Find(p, mediaID)]))
			if len(refs) > 0 && clearTracks {
				prompt = fmt.Sprintf("Remove media %d and %d %s using it?", mediaID, len(refs), plural(len(refs), "clip", "clips"))
			}
			if len(refs) == 0 || clearTracks {
				if ok, err := c.confirmUnless(yes, prompt); err != nil || !ok {
					return err
				}
			}

			clips, err := media.Remove(p, mediaID, clearTracks)
			if err != nil {
				return err
			}
			if err := c.saveMediaChange(p, path, noBackup); err != nil {
				return err
			}
			printSuccess("Removed media %d", mediaID)
			if clips > 0 {
				printDetail("removed %d %s from the timeline", clips, plural(clips, "clip", "clips"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "source bin id to remove")
	cmd.Flags().BoolVar(&unused, "unused", false, "remove every unreferenced media")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the media to remove")
	cmd.Flags().BoolVar(&clearTracks, "clear-tracks", false, "also remove clips using the media")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "do not keep a .backup copy")

	return cmd
}

// mediaReplaceCommand creates the media-replace command.
func (c *CLI) mediaReplaceCommand() *cobra.Command {
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "media-replace <project> <old-path> <new-path>",
		Short: "Point media at a different file",
		Long: `Rewrite every source path equal to old-path, in the source bin and on the
timeline, to new-path.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, oldPath, newPath := args[0], args[1], args[2]
			if newPath == "" {
				return errors.New(errors.ErrCodeInvalidInput, "new path cannot be empty")
			}
			p, err := c.loadProject(path, false)
			if err != nil {
				return err
			}
			n := media.ReplaceSource(p, oldPath, newPath)
			if n == 0 {
				printWarning("No media uses %s", oldPath)
				return nil
			}
			if exists, _ := statMedia(projectDir(path), newPath); !exists {
				printWarning("%s does not exist", newPath)
			}
			if err := c.saveMediaChange(p, path, noBackup); err != nil {
				return err
			}
			printSuccess("Replaced %d %s", n, plural(n, "reference", "references"))
			printDetail("%s %s %s", oldPath, iconArrow, newPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "do not keep a .backup copy")

	return cmd
}

// mediaDuplicateCommand creates the media-dup command.
func (c *CLI) mediaDuplicateCommand() *cobra.Command {
	var (
		id       string
		newID    int64
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:   "media-dup <project>",
		Short: "Duplicate a source bin entry",
		Long: `Copy a source bin entry under a new id. The copy's name gets a _copy_<n>
suffix. Without --new-id the next free id is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaID, err := parseMediaID(id)
			if err != nil {
				return err
			}
			if newID < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "new id cannot be negative")
			}
			p, err := c.loadProject(args[0], false)
			if err != nil {
				return err
			}
			created, err := media.Duplicate(p, mediaID, newID)
			if err != nil {
				return err
			}
			if err := c.saveMediaChange(p, args[0], noBackup); err != nil {
				return err
			}
			item := p.SourceBin[media.Find(p, created)]
			printSuccess("Duplicated media %d as %d", mediaID, created)
			printDetail("name: %s", mediaName(item))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "source bin id to copy")
	cmd.Flags().Int64Var(&newID, "new-id", 0, "id for the copy (default: next free id)")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "do not keep a .backup copy")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

// confirmUnless asks prompt unless yes is set. A declined prompt prints
// "Cancelled" and returns false.
func (c *CLI) confirmUnless(yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := c.confirm(prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		printInfo("Cancelled")
	}
	return ok, nil
}

// saveMediaChange writes p back to path, keeping a backup unless disabled.
func (c *CLI) saveMediaChange(p *project.Project, path string, noBackup bool) error {
	written, err := c.saveProject(p, path, c.settings().Backup && !noBackup)
	if err != nil {
		return err
	}
	c.Logger.Debug("saved project", "path", written)
	return nil
}

func parseMediaID(s string) (int64, error) {
	if err := errors.ValidateMediaID(s); err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

// mediaName is the entry's name, falling back to its file name.
func mediaName(item project.SourceItem) string {
	if name, ok := item.Raw().Text("name"); ok && name != "" {
		return name
	}
	if src := item.Src(); src != "" {
		return filepath.Base(src)
	}
	return "-"
}

// projectDir is the directory media paths of the project at path are
// relative to.
func projectDir(path string) string {
	if resolved, err := project.ResolvePath(path); err == nil {
		path = resolved
	}
	return filepath.Dir(path)
}

// statMedia reports whether src exists relative to base, and its size.
func statMedia(base, src string) (bool, int64) {
	if src == "" {
		return false, 0
	}
	if !filepath.IsAbs(src) {
		src = filepath.Join(base, src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return false, 0
	}
	return true, info.Size()
}
