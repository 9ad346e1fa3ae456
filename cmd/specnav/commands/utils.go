package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"github.com/pvaldez/specnav/internal/config"
	"github.com/pvaldez/specnav/internal/journal"
)

// loadConfig resolves the effective configuration. A .env in the
// invocation directory is honored before SPECNAV_* variables are read.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

// openJournal opens the journal when enabled. A nil journal with a nil
// error means journaling is switched off in config.
func openJournal(cfg config.Config) (*journal.Journal, error) {
	if !cfg.Journal {
		return nil, nil
	}
	return journal.Open(journal.DefaultConfig(cfg.SpecRoot))
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// displayTime renders a stored RFC3339 timestamp for table output.
// Unparsable values pass through untouched.
func displayTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
