package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/conflict"
)

var (
	activityAgent  string
	activityPath   string
	activityOp     string
	activityStart  int
	activityEnd    int
	activityWindow time.Duration
)

// NewActivityCmd creates the activity command group.
func NewActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Record and inspect agent edit activity",
		Long: `Record and inspect the edit activity that feeds conflict
classification. Agents report edits with "record"; "list" shows the
recent window.

Examples:
  specnav activity record --agent alpha --path src/api.go --start 10 --end 20
  specnav activity list --window 30m`,
	}

	cmd.AddCommand(newActivityRecordCmd(), newActivityListCmd())

	return cmd
}

func newActivityRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one edit event",
		RunE:  runActivityRecord,
	}

	cmd.Flags().StringVar(&activityAgent, "agent", "", "Agent name (required)")
	cmd.Flags().StringVar(&activityPath, "path", "", "Workspace-relative file path (required)")
	cmd.Flags().StringVar(&activityOp, "op", "edit", "Operation: edit, create, delete, rename")
	cmd.Flags().IntVar(&activityStart, "start", 0, "First line touched")
	cmd.Flags().IntVar(&activityEnd, "end", 0, "Last line touched")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func runActivityRecord(cmd *cobra.Command, args []string) error {
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
			fmt.Fprintln(cmd.ErrOrStderr(), "Journal is disabled; activity not recorded.")
		}
		return nil
	}
	defer j.Close()

	a := conflict.Activity{
		Agent:      activityAgent,
		Path:       activityPath,
		Op:         activityOp,
		LineStart:  activityStart,
		LineEnd:    activityEnd,
		RecordedAt: time.Now(),
	}
	if _, err := j.RecordActivity(a); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}

	if !quiet {
		msg := fmt.Sprintf("Recorded: %s %s %s", a.Agent, a.Op, a.Path)
		if a.LineStart > 0 {
			msg += fmt.Sprintf(" lines %d-%d", a.LineStart, a.LineEnd)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	return nil
}

func newActivityListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent edit activity",
		RunE:  runActivityList,
	}

	cmd.Flags().DurationVar(&activityWindow, "window", 30*time.Minute, "How far back to list")

	return cmd
}

func runActivityList(cmd *cobra.Command, args []string) error {
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
			fmt.Fprintln(cmd.OutOrStdout(), "Journal is disabled; no activity to show.")
		}
		return nil
	}
	defer j.Close()

	events, err := j.ActivitySince(activityWindow)
	if err != nil {
		return fmt.Errorf("reading activity: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if events == nil {
			events = []conflict.Activity{}
		}
		return printJSON(out, events)
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No activity in the window.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tAGENT\tOP\tPATH\tLINES\n")
	for _, e := range events {
		lines := "-"
		if e.LineStart > 0 {
			lines = fmt.Sprintf("%d-%d", e.LineStart, e.LineEnd)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"), e.Agent, e.Op, e.Path, lines)
	}
	w.Flush()
	return nil
}
