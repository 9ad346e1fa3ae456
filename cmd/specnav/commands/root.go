// Package commands implements the specnav CLI, one cobra command per
// file. Commands resolve config, open the journal when enabled, and
// drive the same engine the MCP server exposes.
package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// Global flags shared by all commands.
var (
	outputFormat string
	quiet        bool
)

// ErrBlocking is returned when a conflict verdict demands a distinct
// exit code rather than a plain failure. main maps it to exit 2.
var ErrBlocking = errors.New("blocking conflict detected")

// NewRootCmd assembles the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specnav",
		Short: "Route conversations to spec folders and catch agent conflicts",
		Long: `specnav keeps a spec workspace tidy. It scores a conversation
against the existing spec folders to decide where its artifacts belong,
and classifies overlapping parallel-agent edits before they collide.

Examples:
  specnav align --text "fix the tab menu collapse" --files src/ui/tabs.css
  specnav conflicts --window 30m
  specnav folders --all
  specnav decisions --limit 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table or json")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(
		NewAlignCmd(),
		NewConflictsCmd(),
		NewFoldersCmd(),
		NewDecisionsCmd(),
		NewActivityCmd(),
		NewWatchCmd(),
		NewArchiveCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
