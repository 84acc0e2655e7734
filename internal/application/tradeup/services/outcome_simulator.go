package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

const (
	DefaultIterations  = 100
	DefaultSmallWindow = 10
)

// OutcomeSimulator estimates ROI and profit of a trade-up by sampling its lottery
type OutcomeSimulator struct {
	catalog     catalog.Reader
	iterations  int
	smallWindow int
}

// NewOutcomeSimulator creates a simulator. Non-positive sizes fall back to 100 draws with a 10-draw window.
func NewOutcomeSimulator(reader catalog.Reader, iterations, smallWindow int) *OutcomeSimulator {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if smallWindow <= 0 {
		smallWindow = DefaultSmallWindow
	}
	if smallWindow > iterations {
		smallWindow = iterations
	}
	return &OutcomeSimulator{
		catalog:     reader,
		iterations:  iterations,
		smallWindow: smallWindow,
	}
}

type outcomeKey struct {
	itemID int
	tier   condition.Tier
}

type outcomePrice struct {
	price    decimal.Decimal
	fallback bool
}

// Simulate draws iterations outcomes. Each drawn item's condition is projected from
// avgCondition and priced at the resulting tier. A missing quote falls back to the
// container's cheapest price at that tier (or zero when that is missing too) and flags
// the whole result with a price warning. inputCost must be positive.
func (s *OutcomeSimulator) Simulate(
	ctx context.Context,
	rng *rand.Rand,
	lottery *tradeup.Lottery,
	avgCondition float64,
	inputCost decimal.Decimal,
) (tradeup.Simulation, error) {
	if !inputCost.IsPositive() {
		return tradeup.Simulation{}, fmt.Errorf("%w: got %s", tradeup.ErrFreeInput, inputCost)
	}

	prices := make(map[outcomeKey]outcomePrice)

	var (
		roiSum    float64
		profitSum = decimal.Zero
		sim       tradeup.Simulation
	)

	for draw := 1; draw <= s.iterations; draw++ {
		item := lottery.Draw(rng)
		tier := condition.TierOf(item.EstimateCondition(avgCondition))

		key := outcomeKey{itemID: item.ID(), tier: tier}
		p, seen := prices[key]
		if !seen {
			var err error
			p, err = s.priceOutcome(ctx, item, tier)
			if err != nil {
				return tradeup.Simulation{}, err
			}
			prices[key] = p
		}
		if p.fallback {
			sim.PriceWarning = true
		}

		roiSum += p.price.Div(inputCost).InexactFloat64()
		profitSum = profitSum.Add(p.price.Sub(inputCost))

		if draw == s.smallWindow {
			sim.Small = tradeup.Estimate{Draws: draw, ROI: roiSum / float64(draw), Profit: profitSum}
		}
	}

	sim.Full = tradeup.Estimate{Draws: s.iterations, ROI: roiSum / float64(s.iterations), Profit: profitSum}
	return sim, nil
}

func (s *OutcomeSimulator) priceOutcome(ctx context.Context, item *catalog.Item, tier condition.Tier) (outcomePrice, error) {
	quote, err := s.catalog.PriceQuote(ctx, item.ID(), tier)
	if err == nil {
		return outcomePrice{price: quote.BestPrice()}, nil
	}
	if !catalog.IsMissingData(err) {
		return outcomePrice{}, fmt.Errorf("failed to get price quote for item %d: %w", item.ID(), err)
	}

	cheapest, err := s.catalog.Cheapest(ctx, item.ContainerID(), item.Rarity(), tier)
	if err == nil {
		return outcomePrice{price: cheapest.Price, fallback: true}, nil
	}
	if !catalog.IsMissingData(err) {
		return outcomePrice{}, fmt.Errorf("failed to get fallback price for item %d: %w", item.ID(), err)
	}
	return outcomePrice{price: decimal.Zero, fallback: true}, nil
}
