// Package main is the entry point for the pasteboard CLI.
//
// Pasteboard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach
// plus a small client for talking to a running server.
//
// Usage:
//
//	pasteboard serve -c config.yaml    # Start the server
//	pasteboard validate -c config.yaml # Validate configuration
//	pasteboard paste "some text"       # Add to the bounded clipboard
//	pasteboard copy                    # Print the bounded clipboard
//	pasteboard put "some text"         # Add to the keyed store, prints the id
//	pasteboard get <id>                # Print a keyed entry
//	pasteboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultServerURL = "http://localhost:8080"

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "pasteboard",
	Short: "A shared, volatile text clipboard over HTTP",
	Long: `Pasteboard is a shared text clipboard served over HTTP.

It keeps two in-memory stores: a bounded clipboard that evicts the oldest
entry once full, and a keyed store that hands out a UUID per entry.
Nothing is persisted; a restart starts empty.

Quick start:
  1. Create a config file (pasteboard.yaml)
  2. Run: pasteboard serve -c pasteboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  capacity: 10
  request_timeout: 10s`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this pasteboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pasteboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", defaultServerURL, "base URL of the pasteboard server")
	rootCmd.AddCommand(versionCmd)
}
