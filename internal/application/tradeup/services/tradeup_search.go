package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// DefaultResaleTax is the marketplace cut taken from the goal item's sale
var DefaultResaleTax = decimal.RequireFromString("0.05")

// Skip reasons reported per (goal, tier) pair
const (
	SkipNoCheapest   = "no_cheapest"
	SkipNoGoalPrice  = "no_goal_price"
	SkipMissingItem  = "missing_item"
	SkipUnaffordable = "unaffordable"
	SkipNoFiller     = "no_filler"
	SkipCondition    = "condition_unreachable"
	SkipNoOutcomes   = "no_outcomes"
	SkipFreeInput    = "free_input"
)

// SearchOptions tunes the trade-up search
type SearchOptions struct {
	ResaleTax decimal.Decimal
	Ceiling   tradeup.CeilingPolicy
}

// DefaultSearchOptions returns a 5% resale tax and the default ceiling policy
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		ResaleTax: DefaultResaleTax,
		Ceiling:   tradeup.DefaultCeilingPolicy(),
	}
}

// ItemReport summarizes the search over one goal item
type ItemReport struct {
	Results []*tradeup.TradeUp
	Skipped map[string]int
}

// TradeUpSearch finds, for a goal item and each condition tier it can appear in, the
// highest-chance affordable input composition and prices it by simulation.
type TradeUpSearch struct {
	catalog   catalog.Reader
	filler    *FillerSelector
	simulator *OutcomeSimulator
	opts      SearchOptions
}

// NewTradeUpSearch creates a new search service
func NewTradeUpSearch(
	reader catalog.Reader,
	filler *FillerSelector,
	simulator *OutcomeSimulator,
	opts SearchOptions,
) *TradeUpSearch {
	if opts.Ceiling.MaxSteps <= 0 || opts.Ceiling.Step <= 0 {
		opts.Ceiling = tradeup.DefaultCeilingPolicy()
	}
	return &TradeUpSearch{
		catalog:   reader,
		filler:    filler,
		simulator: simulator,
		opts:      opts,
	}
}

// SearchItem evaluates every reachable tier of goal. Missing data and infeasible
// pairs are counted as skips; any other error aborts the item.
func (s *TradeUpSearch) SearchItem(ctx context.Context, rng *rand.Rand, runID string, goal *catalog.Item) (*ItemReport, error) {
	logger := common.LoggerFromContext(ctx)
	report := &ItemReport{Skipped: make(map[string]int)}

	for _, tier := range goal.Tiers() {
		result, err := s.Evaluate(ctx, rng, runID, goal, tier)
		if err != nil {
			reason, skippable := SkipReason(err)
			if !skippable {
				return report, err
			}
			report.Skipped[reason]++
			logger.Log(common.LevelDebug, "Trade-up skipped", map[string]interface{}{
				"goal_item": goal.ID(),
				"tier":      tier.Short(),
				"reason":    reason,
			})
			continue
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// Evaluate builds the trade-up for one (goal, tier) pair.
//
// Steps:
//  1. cheapest same-container item one rarity below at tier
//  2. goal price after resale tax
//  3. primary-count sweep (largest affordable count)
//  4. filler for the remaining slots from another container
//  5. input condition ceilings that keep the output at tier or better
//  6. outcome lottery, chance and simulated ROI/profit
func (s *TradeUpSearch) Evaluate(
	ctx context.Context,
	rng *rand.Rand,
	runID string,
	goal *catalog.Item,
	tier condition.Tier,
) (*tradeup.TradeUp, error) {
	inputRarity, ok := goal.Rarity().Below()
	if !ok {
		return nil, fmt.Errorf("%w: item %d has rarity %s", tradeup.ErrInvalidGoal, goal.ID(), goal.Rarity())
	}

	cheapest, err := s.catalog.Cheapest(ctx, goal.ContainerID(), inputRarity, tier)
	if err != nil {
		return nil, fmt.Errorf("cheapest input for item %d at %s: %w", goal.ID(), tier.Short(), err)
	}

	quote, err := s.catalog.PriceQuote(ctx, goal.ID(), tier)
	if err != nil {
		return nil, fmt.Errorf("goal price for item %d at %s: %w", goal.ID(), tier.Short(), err)
	}
	goalPrice := quote.BestPrice().Mul(decimal.NewFromInt(1).Sub(s.opts.ResaleTax))

	if !cheapest.Price.IsPositive() {
		return nil, fmt.Errorf("%w: item %d at %s", tradeup.ErrFreeInput, cheapest.ItemID, tier.Short())
	}
	count := tradeup.PrimaryCount(cheapest.Price, goalPrice)
	if count == 0 {
		return nil, tradeup.ErrUnaffordable
	}

	primaryItem, err := s.catalog.ItemByID(ctx, cheapest.ItemID)
	if err != nil {
		return nil, fmt.Errorf("primary item %d: %w", cheapest.ItemID, err)
	}

	composition := tradeup.Composition{
		Primary: tradeup.Input{
			ItemID:      primaryItem.ID(),
			ContainerID: goal.ContainerID(),
			Count:       count,
			Price:       cheapest.Price,
		},
	}
	ceilingInputs := []tradeup.CeilingInput{{
		Min:   primaryItem.MinCondition(),
		Max:   primaryItem.MaxCondition(),
		Count: count,
	}}

	if count < tradeup.InputSlots {
		remainingValue := goalPrice.Sub(composition.Primary.Cost())
		remainingCount := tradeup.InputSlots - count

		choice, err := s.filler.Select(ctx, goal.ContainerID(), remainingValue, remainingCount, tier, inputRarity)
		if err != nil {
			return nil, err
		}
		fillerItem, err := s.catalog.ItemByID(ctx, choice.ItemID)
		if err != nil {
			return nil, fmt.Errorf("filler item %d: %w", choice.ItemID, err)
		}

		composition.Filler = &tradeup.Input{
			ItemID:      fillerItem.ID(),
			ContainerID: choice.ContainerID,
			Count:       remainingCount,
			Price:       choice.Price,
		}
		ceilingInputs = append(ceilingInputs, tradeup.CeilingInput{
			Min:   fillerItem.MinCondition(),
			Max:   fillerItem.MaxCondition(),
			Count: remainingCount,
		})
	}

	ceilings, err := s.opts.Ceiling.Fit(goal, tier, ceilingInputs)
	if err != nil {
		return nil, err
	}
	composition.Primary.ConditionCeiling = ceilings[0]
	if composition.Filler != nil {
		composition.Filler.ConditionCeiling = ceilings[1]
	}

	primaryOutcomes, err := s.catalog.ItemsByContainerAndRarity(ctx, goal.ContainerID(), goal.Rarity())
	if err != nil {
		return nil, fmt.Errorf("failed to list primary outcomes: %w", err)
	}
	var secondaryOutcomes []*catalog.Item
	if composition.Filler != nil {
		secondaryOutcomes, err = s.catalog.ItemsByContainerAndRarity(ctx, composition.Filler.ContainerID, goal.Rarity())
		if err != nil {
			return nil, fmt.Errorf("failed to list secondary outcomes: %w", err)
		}
	}

	lottery, err := tradeup.NewLottery(primaryOutcomes, secondaryOutcomes, count)
	if err != nil {
		return nil, err
	}
	chance := tradeup.Chance(count, lottery.TotalTickets())

	simulation, err := s.simulator.Simulate(ctx, rng, lottery, composition.AverageCeiling(), composition.InputCost())
	if err != nil {
		return nil, err
	}

	return tradeup.NewTradeUp(runID, tradeup.GoalFor(goal, tier), composition, chance, simulation)
}

// SkipReason classifies err as a skip. ok is false for store failures and other hard errors.
func SkipReason(err error) (reason string, ok bool) {
	switch {
	case errors.Is(err, catalog.ErrCheapestNotFound):
		return SkipNoCheapest, true
	case errors.Is(err, catalog.ErrNoPriceQuote):
		return SkipNoGoalPrice, true
	case errors.Is(err, catalog.ErrItemNotFound), errors.Is(err, catalog.ErrContainerNotFound):
		return SkipMissingItem, true
	case errors.Is(err, tradeup.ErrUnaffordable):
		return SkipUnaffordable, true
	case errors.Is(err, tradeup.ErrNoFiller):
		return SkipNoFiller, true
	case errors.Is(err, tradeup.ErrConditionUnreachable):
		return SkipCondition, true
	case errors.Is(err, tradeup.ErrNoOutcomes):
		return SkipNoOutcomes, true
	case errors.Is(err, tradeup.ErrFreeInput):
		return SkipFreeInput, true
	}
	return "", false
}
