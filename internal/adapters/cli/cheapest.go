package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/tradeups-go/internal/adapters/persistence"
	"github.com/andrescamacho/tradeups-go/internal/application/mediator"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/database"
)

// NewCheapestCommand creates the cheapest command with subcommands
func NewCheapestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cheapest",
		Short: "Manage the cheapest-input cache",
		Long: `Manage the per-container cache of the cheapest item at each rarity and
condition tier. Generation reads its primary and filler prices from this cache.

Examples:
  tradeups cheapest refresh
  tradeups cheapest refresh --depth 20`,
	}

	cmd.AddCommand(newCheapestRefreshCommand())

	return cmd
}

func newCheapestRefreshCommand() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the cheapest-input cache from current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			stores := database.NewStoreFactory(cfg.Database, cfg.Generation.CacheTTL)
			ctx, rt, err := newRuntime(cmd.Context(), cfg, stores)
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			repo := persistence.NewGormCatalogRepository(db)
			refreshHandler := commands.NewRefreshCheapestHandler(repo, repo)
			if err := mediator.RegisterHandler[*commands.RefreshCheapestCommand](rt.mediator, refreshHandler); err != nil {
				return fmt.Errorf("failed to register RefreshCheapest handler: %w", err)
			}

			response, err := rt.mediator.Send(ctx, &commands.RefreshCheapestCommand{Depth: depth})
			if err != nil {
				return fmt.Errorf("cheapest refresh failed: %w", err)
			}
			resp := response.(*commands.RefreshCheapestResponse)

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Refreshed %d entries across %d containers\n", resp.Entries, resp.Containers)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", commands.DefaultCheapestDepth, "Units an order book must hold for an item to qualify")

	return cmd
}
