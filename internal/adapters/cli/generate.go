package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/database"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var (
		workers    int
		iterations int
		seed       uint64
		rarities   []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate stored trade-ups",
		Long: `Regenerate the stored trade-ups of one or more goal rarities.

Each rarity is processed in turn: its previous results are deleted, its goal
items are shuffled and split between workers, and every worker writes its
results in one transaction. Flags override the generation section of the
configuration.

Examples:
  tradeups generate
  tradeups generate --workers 4 --iterations 1000
  tradeups generate --rarity Classified --rarity Covert --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Generation.Workers = workers
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Generation.Iterations = iterations
				if cfg.Generation.SmallWindow > iterations {
					cfg.Generation.SmallWindow = iterations
				}
			}
			if cmd.Flags().Changed("seed") {
				cfg.Generation.Seed = seed
			}

			goalRarities, err := resolveRarities(rarities, cfg.Generation)
			if err != nil {
				return err
			}

			stores := database.NewStoreFactory(cfg.Database, cfg.Generation.CacheTTL)
			ctx, rt, err := newRuntime(cmd.Context(), cfg, stores)
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			response, err := rt.mediator.Send(ctx, &commands.RunGenerationCoordinatorCommand{
				Rarities:    goalRarities,
				Workers:     cfg.Generation.Workers,
				Seed:        cfg.Generation.Seed,
				Iterations:  cfg.Generation.Iterations,
				SmallWindow: cfg.Generation.SmallWindow,
				Options:     searchOptions(cfg.Generation),
			})
			if resp, ok := response.(*commands.RunGenerationCoordinatorResponse); ok {
				printGenerationReport(cmd, resp)
			}
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers per rarity (0 = one per CPU)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Simulated draws per trade-up")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed (0 = derived from the clock)")
	cmd.Flags().StringSliceVar(&rarities, "rarity", nil, "Goal rarity by name or ordinal (repeatable)")

	return cmd
}

// resolveRarities parses --rarity values, falling back to the configured range
func resolveRarities(names []string, cfg config.GenerationConfig) ([]catalog.Rarity, error) {
	if len(names) == 0 {
		rarities := make([]catalog.Rarity, 0, cfg.MaxRarity-cfg.MinRarity+1)
		for r := cfg.MinRarity; r <= cfg.MaxRarity; r++ {
			rarities = append(rarities, catalog.Rarity(r))
		}
		return rarities, nil
	}

	rarities := make([]catalog.Rarity, 0, len(names))
	for _, name := range names {
		rarity, err := parseRarity(name)
		if err != nil {
			return nil, err
		}
		if _, ok := rarity.Below(); !ok {
			return nil, fmt.Errorf("rarity %s has no lower rarity to trade up from", rarity)
		}
		rarities = append(rarities, rarity)
	}
	return rarities, nil
}

func parseRarity(name string) (catalog.Rarity, error) {
	if ordinal, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		return catalog.RarityFromOrdinal(ordinal)
	}
	return catalog.ParseRarity(name)
}

// searchOptions converts the generation config into search options
func searchOptions(cfg config.GenerationConfig) services.SearchOptions {
	return services.SearchOptions{
		ResaleTax: decimal.NewFromFloat(cfg.ResaleTax),
		Ceiling: tradeup.CeilingPolicy{
			Step:     cfg.ConditionStep,
			MaxSteps: cfg.MaxConditionSteps,
		},
	}
}

func printGenerationReport(cmd *cobra.Command, resp *commands.RunGenerationCoordinatorResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generation run (seed %d)\n", resp.Seed)
	fmt.Fprintln(out, "========================")
	for _, report := range resp.Reports {
		fmt.Fprintf(out, "\n%s (%s)\n", report.Rarity.GameName(), report.RunID)
		fmt.Fprintf(out, "  Goal items:       %d\n", report.Items)
		fmt.Fprintf(out, "  Workers:          %d (%d failed)\n", report.Workers, report.FailedWorkers)
		fmt.Fprintf(out, "  Replaced:         %d\n", report.Deleted)
		fmt.Fprintf(out, "  Results:          %d\n", report.Results)
		fmt.Fprintf(out, "  Stored:           %d\n", report.Stored)
		fmt.Fprintf(out, "  Price warnings:   %d\n", report.PriceWarnings)

		reasons := make([]string, 0, len(report.Skipped))
		for reason := range report.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(out, "  Skipped %-14s %d\n", reason+":", report.Skipped[reason])
		}
	}
	fmt.Fprintf(out, "\nTotal results: %d\n", resp.TotalResults())
}
