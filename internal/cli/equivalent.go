package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geohub/geod/internal/registry"
	"github.com/geohub/geod/internal/router"
)

var (
	equivalentOperator  string
	equivalentPrecision int32
)

var equivalentCmd = &cobra.Command{
	Use:   "equivalent",
	Short: "Manage equivalents (units of account)",
}

var equivalentCreateCmd = &cobra.Command{
	Use:   "create <code>",
	Short: "Register a new equivalent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx, loadedConfig.Store)
		if err != nil {
			return fmt.Errorf("equivalent create: %w", err)
		}
		defer s.Close()

		reg := registry.New(s, router.New(s))
		eq, err := reg.CreateEquivalent(ctx, equivalentOperator, args[0], equivalentPrecision)
		if err != nil {
			return fmt.Errorf("equivalent create: %w", err)
		}
		if !quiet {
			fmt.Printf("created %s (operator=%s, precision=%d)\n", eq.Code, eq.Operator, eq.Precision)
		}
		return nil
	},
}

func init() {
	equivalentCreateCmd.Flags().StringVar(&equivalentOperator, "operator", "", "PID of the operator creating this equivalent")
	equivalentCreateCmd.Flags().Int32Var(&equivalentPrecision, "precision", 2, "decimal precision of this equivalent's amounts")
	equivalentCmd.AddCommand(equivalentCreateCmd)
	rootCmd.AddCommand(equivalentCmd)
}
