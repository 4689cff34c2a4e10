package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refetchio/refetch/config"
)

// validateCmd validates a config file without polling anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a refetch configuration file without polling anything.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  refetch validate -c refetch.yaml
  refetch validate --config /etc/refetch/refetch.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	method := cfg.Request.Method
	if method == "" {
		method = "GET"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Interval:  %s\n", cfg.Interval.Duration())
	fmt.Printf("  Immediate: %t\n", cfg.RunImmediately())
	fmt.Printf("  Request:   %s %s\n", method, cfg.Request.URL)

	return nil
}
