package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tradeups",
		Short: "Trade-up generator - find and price profitable trade-up contracts",
		Long: `tradeups searches the item catalog for trade-up contracts that turn ten
cheap inputs into a likely more valuable output, prices them by simulation,
and stores the results.

Examples:
  tradeups migrate
  tradeups cheapest refresh
  tradeups generate --workers 8 --iterations 500
  tradeups generate --rarity Classified --seed 42
  tradeups tiers 0.06 0.80
  tradeups config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/tradeups)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewCheapestCommand())
	rootCmd.AddCommand(NewTiersCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewMigrateCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
