// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package main is the entry point of the monograph document server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command with all subcommands attached.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "monograph",
		Short: "Server-rendered monograph documents with a nonce-based CSP",
		Long: `monograph serves published notes as server-rendered HTML documents.

Every document response carries a Content-Security-Policy whose script-src
nonce matches the nonce of the scripts and styles in the rendered head.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newCSPCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}

// configPathFlag registers --config, defaulting to MONOGRAPH_CONFIG.
func configPathFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "config", "c", os.Getenv("MONOGRAPH_CONFIG"), "path to config file (YAML)")
}
