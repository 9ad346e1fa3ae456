// specnav-mcp: conversation-to-spec alignment MCP server
//
// An MCP server that any AI coding tool (Claude Code, OpenCode, Gemini
// CLI, Codex, Cursor, VS Code Copilot) can use to keep spec folders
// tidy: it scores the current conversation against the existing spec
// folders, routes artifacts to the right one, and flags parallel-agent
// edit conflicts before they happen.
//
// Usage:
//
//	specnav-mcp serve    # Start MCP server (stdio transport)
//	specnav-mcp update   # Update to the latest version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pvaldez/specnav/internal/config"
	specserver "github.com/pvaldez/specnav/internal/server"
	"github.com/pvaldez/specnav/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("specnav-mcp v%s\n", specserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real config comes from TOML + SPECNAV_* vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, cleanup, err := specserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ServeStdio(s)
	}()

	select {
	case <-ctx.Done():
		// The deferred cleanup closes the journal before exit.
		return nil
	case err := <-serverErr:
		return err
	}
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. This runs in a goroutine during
// "serve" and is best-effort — network failures are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(specserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: specnav-mcp update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(specserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(specserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart specnav-mcp to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `specnav-mcp v%s — Conversation-to-Spec Alignment MCP Server

Usage:
  specnav-mcp serve    Start the MCP server (stdio transport)
  specnav-mcp update   Update to the latest version

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "specnav": {
        "command": "specnav-mcp",
        "args": ["serve"],
        "env": { "SPECNAV_ROOT": "/path/to/specs" }
      }
    }
  }

Learn more: https://github.com/pvaldez/specnav
`, specserver.Version)
}
