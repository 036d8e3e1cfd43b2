package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/registry"
	"github.com/geohub/geod/internal/router"
)

var (
	trustLineOperator   string
	trustLineEquivalent string
	trustLineLimit      int64
	trustLinePolicyFile string
)

var trustlineCmd = &cobra.Command{
	Use:   "trustline",
	Short: "Manage trust lines",
}

var trustlineSetCmd = &cobra.Command{
	Use:   "set <creditor> <debtor>",
	Short: "Create or update a trust line",
	Long:  "Creditor extends up to --limit units of --equivalent credit to debtor. An optional --policy file supplies a strictly-decoded policy document.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx, loadedConfig.Store)
		if err != nil {
			return fmt.Errorf("trustline set: %w", err)
		}
		defer s.Close()

		var policyJSON []byte
		if trustLinePolicyFile != "" {
			policyJSON, err = os.ReadFile(trustLinePolicyFile)
			if err != nil {
				return fmt.Errorf("trustline set: read policy: %w", err)
			}
		}

		reg := registry.New(s, router.New(s))
		err = reg.UpsertTrustLine(ctx, trustLineOperator, domain.TrustLine{
			Creditor:   args[0],
			Debtor:     args[1],
			Equivalent: trustLineEquivalent,
			Limit:      trustLineLimit,
		}, policyJSON)
		if err != nil {
			return fmt.Errorf("trustline set: %w", err)
		}
		if !quiet {
			fmt.Printf("%s -> %s (%s): limit=%d\n", args[0], args[1], trustLineEquivalent, trustLineLimit)
		}
		return nil
	},
}

var trustlineCloseCmd = &cobra.Command{
	Use:   "close <creditor> <debtor>",
	Short: "Close a trust line",
	Long:  "Closing is rejected if debt is outstanding in either direction between creditor and debtor.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx, loadedConfig.Store)
		if err != nil {
			return fmt.Errorf("trustline close: %w", err)
		}
		defer s.Close()

		reg := registry.New(s, router.New(s))
		if err := reg.CloseTrustLine(ctx, trustLineOperator, args[0], args[1], trustLineEquivalent); err != nil {
			return fmt.Errorf("trustline close: %w", err)
		}
		if !quiet {
			fmt.Printf("%s -> %s (%s): closed\n", args[0], args[1], trustLineEquivalent)
		}
		return nil
	},
}

func init() {
	trustlineSetCmd.Flags().StringVar(&trustLineOperator, "operator", "", "PID recorded as the audit actor")
	trustlineSetCmd.Flags().StringVar(&trustLineEquivalent, "equivalent", "", "equivalent code this trust line is scoped to")
	trustlineSetCmd.Flags().Int64Var(&trustLineLimit, "limit", 0, "credit limit, in the equivalent's smallest unit")
	trustlineSetCmd.Flags().StringVar(&trustLinePolicyFile, "policy", "", "path to a JSON policy document")
	trustlineCmd.AddCommand(trustlineSetCmd)

	trustlineCloseCmd.Flags().StringVar(&trustLineOperator, "operator", "", "PID recorded as the audit actor")
	trustlineCloseCmd.Flags().StringVar(&trustLineEquivalent, "equivalent", "", "equivalent code this trust line is scoped to")
	trustlineCmd.AddCommand(trustlineCloseCmd)

	rootCmd.AddCommand(trustlineCmd)
}
