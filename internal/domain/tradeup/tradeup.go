package tradeup

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// Goal identifies the item and condition tier a trade-up aims for
type Goal struct {
	ItemID   int
	Rarity   catalog.Rarity
	Category catalog.Category
	Tier     condition.Tier
}

// GoalFor builds the Goal of an item at a tier
func GoalFor(item *catalog.Item, tier condition.Tier) Goal {
	return Goal{
		ItemID:   item.ID(),
		Rarity:   item.Rarity(),
		Category: item.Category(),
		Tier:     tier,
	}
}

// Estimate is the sampled return over a number of draws
type Estimate struct {
	Draws  int
	ROI    float64         // mean price/inputCost across draws
	Profit decimal.Decimal // summed price-inputCost across draws
}

// Simulation holds the short and full sampling windows. The short window is the
// prefix of the full one, not an independent sample.
type Simulation struct {
	Small        Estimate
	Full         Estimate
	PriceWarning bool
}

// Key is the deterministic identity of a result; sampled fields are excluded
type Key struct {
	GoalItemID   int
	Tier         condition.Tier
	PrimaryCount int
	FillerItemID int // 0 without filler
}

// TradeUp is a generated trade-up result. Built once, never mutated.
type TradeUp struct {
	runID       string
	goal        Goal
	composition Composition
	chance      float64
	simulation  Simulation
}

// NewTradeUp validates and creates a result
func NewTradeUp(runID string, goal Goal, composition Composition, chance float64, simulation Simulation) (*TradeUp, error) {
	if _, ok := goal.Rarity.Below(); !ok {
		return nil, fmt.Errorf("%w: rarity %s has no input rarity", ErrInvalidGoal, goal.Rarity)
	}
	if !goal.Tier.Valid() {
		return nil, fmt.Errorf("%w: tier %d", ErrInvalidGoal, int(goal.Tier))
	}
	if err := composition.Validate(); err != nil {
		return nil, err
	}
	if chance <= 0 || chance > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChance, chance)
	}

	return &TradeUp{
		runID:       runID,
		goal:        goal,
		composition: composition,
		chance:      chance,
		simulation:  simulation,
	}, nil
}

func (t *TradeUp) RunID() string {
	return t.runID
}

func (t *TradeUp) Goal() Goal {
	return t.goal
}

func (t *TradeUp) Composition() Composition {
	return t.composition
}

func (t *TradeUp) Primary() Input {
	return t.composition.Primary
}

// Filler returns the filler input, or nil when the primary fills every slot
func (t *TradeUp) Filler() *Input {
	if t.composition.Filler == nil {
		return nil
	}
	filler := *t.composition.Filler
	return &filler
}

func (t *TradeUp) PrimaryCount() int {
	return t.composition.Primary.Count
}

func (t *TradeUp) Chance() float64 {
	return t.chance
}

func (t *TradeUp) InputCost() decimal.Decimal {
	return t.composition.InputCost()
}

func (t *TradeUp) Simulation() Simulation {
	return t.simulation
}

func (t *TradeUp) PriceWarning() bool {
	return t.simulation.PriceWarning
}

func (t *TradeUp) ItemIDs() []int {
	return t.composition.ItemIDs()
}

func (t *TradeUp) Key() Key {
	key := Key{
		GoalItemID:   t.goal.ItemID,
		Tier:         t.goal.Tier,
		PrimaryCount: t.composition.Primary.Count,
	}
	if t.composition.Filler != nil {
		key.FillerItemID = t.composition.Filler.ItemID
	}
	return key
}
