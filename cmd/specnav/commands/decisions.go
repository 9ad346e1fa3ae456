package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/journal"
)

var decisionsLimit int

// NewDecisionsCmd creates the decisions command.
func NewDecisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Show recent alignment decisions from the journal",
		Long: `Show recent alignment decisions from the journal, newest first.

Examples:
  specnav decisions
  specnav decisions --limit 5
  specnav decisions --format json`,
		RunE: runDecisions,
	}

	cmd.Flags().IntVar(&decisionsLimit, "limit", 10, "Maximum number of decisions to show")

	return cmd
}

func runDecisions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	if j == nil {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Journal is disabled; no history to show.")
		}
		return nil
	}
	defer j.Close()

	decs, err := j.RecentDecisions(decisionsLimit)
	if err != nil {
		return fmt.Errorf("reading decisions: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if decs == nil {
			decs = []journal.Decision{}
		}
		return printJSON(out, decs)
	}

	if len(decs) == 0 {
		fmt.Fprintln(out, "No decisions recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tOUTCOME\tCHOSEN\tTOTAL\tSESSION\n")
	for _, d := range decs {
		chosen := "-"
		if d.Chosen != nil {
			chosen = *d.Chosen
		}
		session := d.Session
		if session == "" {
			session = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%s\n",
			displayTime(d.CreatedAt), d.Outcome, chosen, d.Total, session)
	}
	w.Flush()
	return nil
}
