package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domainworth/domainworth/internal/config"
	"github.com/domainworth/domainworth/internal/core/store"
	"github.com/domainworth/domainworth/internal/observability"
)

func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local store",
}

var storePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cached lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

		removed, err := db.PruneExpired(ctx)
		if err != nil {
			return err
		}

		observability.CLILogger.Info("Pruned expired cache entries", zap.Int64("removed", removed))
		fmt.Printf("Removed %d expired cache entries\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePruneCmd)
}
