package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/folder"
)

var foldersAll bool

// NewFoldersCmd creates the folders command.
func NewFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders [folder]",
		Short: "List the spec folders in the catalog, or show one",
		Long: `List the spec folders under the configured spec root with their
workflow stage and known files. With a folder name, show that folder's
full catalog entry.

Excluded folders (archived, "old" leftovers) are hidden unless --all
is given.

Examples:
  specnav folders
  specnav folders tab-menu-fix
  specnav folders --all
  specnav folders --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFolders,
	}

	cmd.Flags().BoolVar(&foldersAll, "all", false, "Include excluded folders")

	return cmd
}

func runFolders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog := folder.NewDirStore(cfg.SpecRoot, "")
	if len(args) == 1 {
		return showFolder(cmd, catalog, args[0])
	}

	cands, err := catalog.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading spec root: %w", err)
	}

	var shown []folder.Candidate
	hidden := 0
	for _, c := range cands {
		if c.Excluded && !foldersAll {
			hidden++
			continue
		}
		shown = append(shown, c)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if shown == nil {
			shown = []folder.Candidate{}
		}
		return printJSON(out, shown)
	}

	if len(shown) == 0 {
		fmt.Fprintf(out, "No spec folders found under %s\n", catalog.Root())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FOLDER\tSTAGE\tFILES\tMODIFIED\n")
	for _, c := range shown {
		name := c.ID
		if c.Excluded {
			name += " (excluded)"
		}
		stage := string(c.Stage)
		if stage == "" {
			stage = "-"
		}
		modified := "-"
		if !c.LastModified.IsZero() {
			modified = c.LastModified.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, stage, len(c.KnownFiles), modified)
	}
	w.Flush()

	if hidden > 0 && !quiet {
		fmt.Fprintf(out, "\n%d excluded folder(s) hidden (use --all to show)\n", hidden)
	}
	return nil
}

// showFolder prints one folder's full catalog entry.
func showFolder(cmd *cobra.Command, catalog folder.Store, id string) error {
	cand, err := catalog.Load(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, cand)
	}

	name := cand.ID
	if cand.Excluded {
		name += " (excluded)"
	}
	fmt.Fprintf(out, "Folder:   %s\n", name)
	fmt.Fprintf(out, "Stage:    %s\n", cand.Stage)
	if !cand.LastModified.IsZero() {
		fmt.Fprintf(out, "Modified: %s\n", cand.LastModified.Local().Format("2006-01-02 15:04:05"))
	}
	if len(cand.KnownFiles) > 0 {
		fmt.Fprintln(out, "Files:")
		for _, f := range cand.KnownFiles {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	return nil
}
