package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaldez/specnav/internal/updater"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

var versionCheck bool

// VersionInfo contains build information.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// SetVersion sets the version information (called from main).
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version, commit hash, and build date.

With --check, query the releases API for a newer version.

Examples:
  specnav version
  specnav version --check`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "specnav %s\n", versionInfo.Version)
			fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
			fmt.Fprintf(out, "Built:  %s\n", versionInfo.Date)

			if !versionCheck {
				return
			}
			result := updater.CheckVersion(versionInfo.Version)
			switch {
			case result.LatestVersion == "":
				fmt.Fprintln(out, "\nVersion check failed; could not reach the releases API.")
			case result.UpdateAvailable:
				fmt.Fprintf(out, "\nUpdate available: v%s → v%s\n  %s\n",
					result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
			default:
				fmt.Fprintf(out, "\nAlready at the latest version (v%s).\n", result.CurrentVersion)
			}
		},
	}

	cmd.Flags().BoolVar(&versionCheck, "check", false, "Check the releases API for a newer version")

	return cmd
}
