package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/watch"
)

// activityRetention bounds how far back the activity table reaches.
// Week-old events sit outside every conflict window.
const activityRetention = 7 * 24 * time.Hour

var (
	watchAgent string
	watchRoot  string
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record file events as agent activity until interrupted",
		Long: `Watch a workspace and record every file create, write, rename, and
remove as activity attributed to --agent. Watched events carry no line
ranges, so they can raise same-file conflicts but never same-lines.

Examples:
  specnav watch --agent alpha
  specnav watch --agent beta --root ./service`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchAgent, "agent", "", "Agent name to attribute events to (required)")
	cmd.Flags().StringVar(&watchRoot, "root", ".", "Workspace root to watch")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	if j == nil {
		return fmt.Errorf("watching needs the journal; enable journal in config")
	}
	defer j.Close()

	if n, err := j.PruneActivity(activityRetention); err == nil && n > 0 && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Pruned %d stale activity rows\n", n)
	}

	w, err := watch.New(watchRoot, watchAgent, j)
	if err != nil {
		return err
	}
	defer w.Close()
	if !quiet {
		w.Logf = log.Printf
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s as %q — ctrl-c to stop\n", watchRoot, watchAgent)
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
