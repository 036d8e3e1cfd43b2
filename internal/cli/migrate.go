package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the store schema",
	Long:  "Opens the configured store backend, which idempotently creates any missing tables, then closes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx, loadedConfig.Store)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer s.Close()

		if !quiet {
			fmt.Printf("schema applied (%s)\n", loadedConfig.Store.Driver)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
