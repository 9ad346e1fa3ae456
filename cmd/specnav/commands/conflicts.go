package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/conflict"
	"github.com/pvaldez/specnav/internal/folder"
)

var (
	conflictsInput  string
	conflictsWindow time.Duration
)

// NewConflictsCmd creates the conflicts command.
func NewConflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Classify overlapping parallel-agent edits",
		Long: `Classify overlapping edits reported by parallel agents.

Records come from a JSON file (or stdin with --input -); without
--input the recent activity journal is scanned instead. The exit code
is 2 when the verdict is CRITICAL (blocking), 0 otherwise — including
when the records are unreadable, which degrades to a NONE report.

Examples:
  specnav conflicts --window 30m
  specnav conflicts --input records.json
  cat records.json | specnav conflicts --input -`,
		RunE: runConflicts,
	}

	cmd.Flags().StringVar(&conflictsInput, "input", "", "JSON records file, or - for stdin (default: derive from the journal)")
	cmd.Flags().DurationVar(&conflictsWindow, "window", 30*time.Minute, "How far back to scan journal activity")

	return cmd
}

func runConflicts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, jerr := openJournal(cfg)
	if j != nil {
		defer j.Close()
	}

	var records []conflict.Record
	var note string

	switch {
	case conflictsInput != "":
		data, err := readRecordsInput(cmd)
		if err != nil {
			note = fmt.Sprintf("records unreadable (%v); reporting NONE", err)
		} else if err := json.Unmarshal(data, &records); err != nil {
			note = fmt.Sprintf("records not parseable (%v); reporting NONE", err)
			records = nil
		}
	case j != nil:
		events, err := j.ActivitySince(conflictsWindow)
		if err != nil {
			note = fmt.Sprintf("activity journal unreadable (%v); reporting NONE", err)
		} else {
			catalog := folder.NewDirStore(cfg.SpecRoot, "")
			records = conflict.FromActivity(events, relatedHints(cmd.Context(), catalog, cfg.Related))
		}
	default:
		if jerr != nil {
			note = fmt.Sprintf("journal unavailable (%v); reporting NONE", jerr)
		} else {
			note = "journal disabled and no --input given; reporting NONE"
		}
	}

	report := conflict.Classify(records)

	if j != nil {
		if _, err := j.RecordConflict(report, records); err != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: report not journaled: %v\n", err)
		}
	}

	if note != "" && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", note)
	}
	if err := writeReport(cmd, report); err != nil {
		return err
	}

	if report.Block {
		return ErrBlocking
	}
	return nil
}

// relatedHints merges the config relation map with the hints spec
// folders declare in their frontmatter.
func relatedHints(ctx context.Context, catalog folder.Store, fromConfig map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(fromConfig))
	for k, v := range fromConfig {
		merged[k] = append(merged[k], v...)
	}
	fromCatalog, err := catalog.Relations(ctx)
	if err != nil {
		return merged
	}
	for k, v := range fromCatalog {
		merged[k] = append(merged[k], v...)
	}
	return merged
}

func readRecordsInput(cmd *cobra.Command) ([]byte, error) {
	if conflictsInput == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(conflictsInput)
}

func writeReport(cmd *cobra.Command, report conflict.Report) error {
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, report)
	}

	fmt.Fprintf(out, "Severity: %s\n", report.Severity)
	fmt.Fprintf(out, "Blocking: %v\n", report.Block)
	if report.Reason != "" {
		fmt.Fprintf(out, "Reason:   %s\n", report.Reason)
	}

	if len(report.Findings) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SEVERITY\tPATH\tAGENTS\tKIND\tLINES\n")
		for _, f := range report.Findings {
			lines := f.Record.Lines
			if lines == "" {
				lines = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				f.Severity, f.Record.Path, joinAgents(f.Record.Agents), f.Record.Kind, lines)
		}
		w.Flush()
	}
	return nil
}

func joinAgents(agents []string) string {
	switch len(agents) {
	case 0:
		return "-"
	case 1:
		return agents[0]
	}
	s := agents[0]
	for _, a := range agents[1:] {
		s += ", " + a
	}
	return s
}
