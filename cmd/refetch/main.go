// Package main is the entry point for the refetch CLI.
//
// refetch can be used either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	refetch watch -c config.yaml     # Poll the configured request
//	refetch validate -c config.yaml  # Validate configuration
//	refetch version                  # Show version info
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

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "refetch",
	Short: "Poll an HTTP endpoint with single-flight semantics",
	Long: `refetch polls an HTTP endpoint at a fixed interval and logs the
latest value, loading state, and error as structured JSON.

Each cycle supersedes any request still in flight, so the logged state
always reflects the newest request.

Quick start:
  1. Create a config file (refetch.yaml)
  2. Run: refetch watch -c refetch.yaml

Example config:
  interval: 5s
  request:
    url: https://jsonplaceholder.typicode.com/todos/1
    timeout: 5s`,
	// No Run/RunE means this just shows help when called without subcommands
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
	Long:  `Print the version, commit hash, and build date of this refetch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("refetch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
