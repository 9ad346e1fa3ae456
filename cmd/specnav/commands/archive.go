package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/archive"
)

var archiveRestore bool

// NewArchiveCmd creates the archive command.
func NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <folder>",
		Short: "Pack a retired spec folder, or restore one",
		Long: `Pack a spec folder into a compressed archive and rename it out of
the scoring catalog. --restore unpacks a previously archived folder
back into the spec root.

Examples:
  specnav archive tab-menu-fix
  specnav archive tab-menu-fix --restore`,
		Args: cobra.ExactArgs(1),
		RunE: runArchive,
	}

	cmd.Flags().BoolVar(&archiveRestore, "restore", false, "Restore the folder from its archive")

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	id := args[0]

	if archiveRestore {
		if err := archive.Restore(cfg.SpecRoot, cfg.ArchiveDir(), id); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s into %s\n", id, cfg.SpecRoot)
		}
		return nil
	}

	dest, err := archive.Archive(cfg.SpecRoot, cfg.ArchiveDir(), id)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s to %s\n", id, dest)
	}
	return nil
}
