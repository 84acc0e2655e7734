package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect tradeups configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (TU_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  tradeups config show
  tradeups config show --config ./configs/prod.yaml`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Fprintln(out, "Trade-up Generator Configuration")
			fmt.Fprintln(out, "================================")

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nGeneration:")
			fmt.Fprintf(out, "  Workers:          %d\n", cfg.Generation.Workers)
			fmt.Fprintf(out, "  Iterations:       %d (small window %d)\n", cfg.Generation.Iterations, cfg.Generation.SmallWindow)
			fmt.Fprintf(out, "  Resale Tax:       %.2f%%\n", cfg.Generation.ResaleTax*100)
			fmt.Fprintf(out, "  Rarities:         %d-%d\n", cfg.Generation.MinRarity, cfg.Generation.MaxRarity)
			fmt.Fprintf(out, "  Seed:             %d\n", cfg.Generation.Seed)
			fmt.Fprintf(out, "  Condition Step:   %.3f (max %d steps)\n", cfg.Generation.ConditionStep, cfg.Generation.MaxConditionSteps)
			fmt.Fprintf(out, "  Cache TTL:        %s\n", cfg.Generation.CacheTTL)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a URL-style connection string for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
