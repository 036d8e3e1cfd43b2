package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geohub/geod/internal/invariant"
	"github.com/geohub/geod/internal/store"
)

var integrityEquivalent string

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Run a full invariant audit and print the report",
	Long:  "Reruns every invariant (trust limits, debt asymmetry, zero-sum, self-debt) against the live state of one or every equivalent, callable on demand outside any payment or clearing run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx, loadedConfig.Store)
		if err != nil {
			return fmt.Errorf("integrity: %w", err)
		}
		defer s.Close()

		codes := []string{integrityEquivalent}
		if integrityEquivalent == "" {
			equivalents, err := s.Equivalents().List(ctx)
			if err != nil {
				return fmt.Errorf("integrity: list equivalents: %w", err)
			}
			codes = codes[:0]
			for _, eq := range equivalents {
				codes = append(codes, eq.Code)
			}
		}

		failures := 0
		for _, code := range codes {
			err := s.WithTx(ctx, func(tx store.Tx) error {
				return invariant.New(tx).FullAudit(ctx, code)
			})
			if err != nil {
				failures++
				fmt.Printf("%s: FAIL: %v\n", code, err)
			} else if !quiet {
				fmt.Printf("%s: OK\n", code)
			}
		}

		if failures > 0 {
			return fmt.Errorf("integrity: %d equivalent(s) failed audit", failures)
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().StringVar(&integrityEquivalent, "equivalent", "", "audit only this equivalent (default: every equivalent)")
	rootCmd.AddCommand(integrityCmd)
}
