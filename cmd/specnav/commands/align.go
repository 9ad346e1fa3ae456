package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/align"
	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/picker"
	"github.com/pvaldez/specnav/internal/signal"
)

var (
	alignText        string
	alignFiles       []string
	alignPhase       string
	alignStdin       bool
	alignSession     string
	alignFolder      string
	alignNoAuto      bool
	alignInteractive bool
	alignTimeout     time.Duration
)

// NewAlignCmd creates the align command.
func NewAlignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Score a conversation against the spec folder catalog",
		Long: `Score a conversation against the spec folder catalog and decide
where its artifacts belong.

The signal comes from flags, or from a JSON document on stdin with
--stdin. Every outcome exits 0, including PromptUser; the decision text
tells you what to do next.

Examples:
  specnav align --text "fix the tab menu collapse" --files src/ui/tabs.css
  specnav align -t "cache invalidation design" --phase planning --interactive
  echo '{"text":"auth retry plan","phase":"planning"}' | specnav align --stdin
  specnav align -t "hotfix" --folder auth-retry --format json`,
		RunE: runAlign,
	}

	cmd.Flags().StringVarP(&alignText, "text", "t", "", "Conversation text to score")
	cmd.Flags().StringSliceVar(&alignFiles, "files", nil, "Files touched in the conversation (comma separated)")
	cmd.Flags().StringVar(&alignPhase, "phase", "", "Workflow phase (planning, implementation, verification)")
	cmd.Flags().BoolVar(&alignStdin, "stdin", false, "Read a JSON signal document from stdin")
	cmd.Flags().StringVar(&alignSession, "session", "", "Session label recorded with the decision")
	cmd.Flags().StringVar(&alignFolder, "folder", "", "Explicit folder override")
	cmd.Flags().BoolVar(&alignNoAuto, "no-auto", false, "Never auto-select; always show the ranking")
	cmd.Flags().BoolVarP(&alignInteractive, "interactive", "i", false, "Pick from the ranking in a TUI when no folder wins outright")
	cmd.Flags().DurationVar(&alignTimeout, "timeout", 30*time.Second, "Picker countdown before the top candidate is confirmed")

	return cmd
}

func runAlign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sig, sigErr := alignSignal(cmd)
	if sigErr != nil {
		// Malformed input degrades to an empty decision, never an error.
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", sigErr)
		}
		return writeDecision(cmd, align.Decision{Outcome: align.NoCandidates})
	}

	catalog := folder.NewDirStore(cfg.SpecRoot, "")
	cands, err := catalog.List(cmd.Context())
	if err != nil {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: reading spec root: %v\n", err)
		}
		cands = nil
	}

	opts := cfg.AlignOptions(time.Now())
	if alignNoAuto {
		opts.AutoSave = false
	}
	if alignFolder != "" {
		opts.ExplicitFolder = alignFolder
	}

	dec := align.Score(sig, cands, opts)

	if alignInteractive && dec.Outcome == align.PromptUser && outputFormat != "json" {
		applyPickerChoice(cmd, catalog, sig, &dec)
	}

	j, jerr := openJournal(cfg)
	if jerr != nil && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: journal unavailable: %v\n", jerr)
	}
	if j != nil {
		defer j.Close()
		if _, err := j.RecordDecision(alignSession, sig, dec); err != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: decision not journaled: %v\n", err)
		}
	}

	return writeDecision(cmd, dec)
}

// alignSignal builds the scoring signal from flags, or from a stdin
// JSON document when --stdin is set.
func alignSignal(cmd *cobra.Command) (signal.Signal, error) {
	if !alignStdin {
		return signal.FromText(alignText, alignFiles, alignPhase), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return signal.Signal{}, fmt.Errorf("reading stdin: %w", err)
	}
	return signal.ParseDocument(data)
}

// applyPickerChoice runs the TUI picker over the ranking and rewrites
// the decision with whatever the human chose. Cancelling keeps the
// PromptUser decision as-is. A typed-in folder that does not exist yet
// is created with the signal's phase and files as its starting
// frontmatter, so the next alignment scores it properly.
func applyPickerChoice(cmd *cobra.Command, catalog folder.Store, sig signal.Signal, dec *align.Decision) {
	choice, err := picker.Run(dec.Ranked, alignTimeout)
	if err != nil || choice.Cancelled || choice.FolderID == "" {
		return
	}

	if choice.Custom && !catalog.Exists(choice.FolderID) {
		meta := folder.Meta{Files: sig.FilesTouched}
		if sig.Phase.Known() {
			meta.Stage = string(sig.Phase)
		}
		if _, err := catalog.Create(cmd.Context(), choice.FolderID, meta); err != nil {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: creating %s: %v\n", choice.FolderID, err)
			}
			return
		}
	}

	chosen := align.ScoreResult{CandidateID: choice.FolderID}
	for i := range dec.Ranked {
		if dec.Ranked[i].CandidateID == choice.FolderID {
			chosen = dec.Ranked[i]
			break
		}
	}
	dec.Outcome = align.AutoSelected
	dec.Chosen = &chosen
}

func writeDecision(cmd *cobra.Command, dec align.Decision) error {
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, dec)
	}

	fmt.Fprintf(out, "Outcome: %s\n", dec.Outcome)
	switch dec.Outcome {
	case align.AutoSelected:
		fmt.Fprintf(out, "Folder:  %s (%.1f%%)\n", dec.Chosen.CandidateID, dec.Chosen.Total)
	case align.PromptUser:
		fmt.Fprintln(out, "No folder cleared the bar; pick one from the ranking or name a new one.")
	case align.NoCandidates:
		fmt.Fprintln(out, "No spec folders matched; create one named after the work.")
	}

	if len(dec.Ranked) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "#\tFOLDER\tTOTAL\tTOPIC\tFILES\tPHASE\tRECENCY\n")
		for i, r := range dec.Ranked {
			fmt.Fprintf(w, "%d\t%s\t%.1f%%\t%.2f\t%.2f\t%.2f\t%.2f\n",
				i+1, r.CandidateID, r.Total, r.TopicScore, r.FileScore, r.PhaseScore, r.RecencyScore)
		}
		w.Flush()
	}
	return nil
}
