// specnav: conversation-to-spec alignment CLI
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pvaldez/specnav/cmd/specnav/commands"
)

// Version information (set by goreleaser).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrBlocking) {
			// The report already explains itself; exit 2 tells callers
			// to stop before editing.
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
