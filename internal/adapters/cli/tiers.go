package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// NewTiersCommand creates the tiers command
func NewTiersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers <min> <max>",
		Short: "List the condition tiers an item range can appear in",
		Long: `Print the condition tiers reachable by an item whose condition spans
[min, max], best tier first.

Example:
  tradeups tiers 0.06 0.80`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			min, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid min condition %q: %w", args[0], err)
			}
			max, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid max condition %q: %w", args[1], err)
			}
			if min < 0 || max > 1 || min > max {
				return fmt.Errorf("condition range must satisfy 0 <= min <= max <= 1, got %v-%v", min, max)
			}

			out := cmd.OutOrStdout()
			tiers := condition.ReachableTiers(min, max)
			if len(tiers) == 0 {
				fmt.Fprintln(out, "No reachable tiers")
				return nil
			}
			for _, t := range tiers {
				fmt.Fprintf(out, "%s  %-15s [%.2f, %.2f)\n", t.Short(), t.String(), t.Lower(), t.Upper())
			}
			return nil
		},
	}

	return cmd
}
