// Draftsmith: Document Drafting MCP Server
//
// A universal MCP server that integrates with any AI coding tool
// (Claude Code, OpenCode, Gemini CLI, Codex, Cursor, VS Code Copilot)
// to turn structured inputs into polished markdown documents: prompt
// briefs, diagrams, sprint plans, release notes, onboarding guides,
// and repository hygiene reports.
//
// Usage:
//
//	draftsmith serve    # Start MCP server (stdio transport)
//	draftsmith tools    # List the drafting tools
//	draftsmith update   # Update to the latest version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/server"

	"github.com/draftsmith-io/draftsmith/internal/config"
	dsserver "github.com/draftsmith-io/draftsmith/internal/server"
	"github.com/draftsmith-io/draftsmith/internal/tools"
	"github.com/draftsmith-io/draftsmith/internal/updater"
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
	case "tools":
		listTools()
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("draftsmith v%s\n", dsserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, cleanup, err := dsserver.New(cfg)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

// listTools prints the drafting catalogue to stdout. draft_stats is
// omitted here because it only registers at serve time, when the
// invocation journal is enabled.
func listTools() {
	for _, spec := range tools.Catalogue(tools.Deps{}) {
		fmt.Printf("  %-22s %s\n", spec.Name, spec.Description)
	}
	fmt.Println("\n  draft_stats appears additionally when the invocation journal is enabled.")
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. This runs in a goroutine during
// "serve" and is best-effort — network failures are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(dsserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: draftsmith update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(dsserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(dsserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart draftsmith to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Draftsmith v%s — Document Drafting MCP Server

Usage:
  draftsmith serve    Start the MCP server (stdio transport)
  draftsmith tools    List the drafting tools
  draftsmith update   Update to the latest version

Configuration:
  Settings load from draftsmith.toml, then ~/.draftsmith/config.toml,
  with DRAFTSMITH_* environment overrides.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "draftsmith": {
        "command": "draftsmith",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/draftsmith-io/draftsmith
`, dsserver.Version)
}
