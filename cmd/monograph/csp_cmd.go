// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/monograph/internal/csp"
)

func newCSPCmd() *cobra.Command {
	var (
		nonce     string
		dev       bool
		reportURI string
		generate  bool
	)
	cmd := &cobra.Command{
		Use:   "csp",
		Short: "Print the Content-Security-Policy the server would send",
		Example: `  monograph csp --nonce abc123
  monograph csp --dev --generate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if generate {
				if nonce != "" {
					return fmt.Errorf("--nonce and --generate are mutually exclusive")
				}
				n, err := csp.NewNonce()
				if err != nil {
					return fmt.Errorf("generate nonce: %w", err)
				}
				nonce = n
			}
			policy := csp.Policy{Development: dev, ReportURI: reportURI}
			fmt.Fprintln(cmd.OutOrStdout(), policy.Header(nonce))
			return nil
		},
	}
	cmd.Flags().StringVar(&nonce, "nonce", "", "nonce to embed (empty: fallback policy)")
	cmd.Flags().BoolVar(&dev, "dev", false, "use the development policy")
	cmd.Flags().StringVar(&reportURI, "report-uri", "", "append a report-uri directive")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a fresh nonce")
	return cmd
}
