package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// PriceLevel is one rung of an order book. Depth is cumulative: the units offered at
// Price or lower, as in the market's sell order graph.
type PriceLevel struct {
	Price decimal.Decimal
	Depth int
}

// PriceQuote is the market liquidity for one item at one condition tier.
// Levels are ordered by increasing price.
type PriceQuote struct {
	itemID int
	tier   condition.Tier
	levels []PriceLevel
}

// NewPriceQuote creates a quote; an empty book is reported as ErrNoPriceQuote
func NewPriceQuote(itemID int, tier condition.Tier, levels []PriceLevel) (*PriceQuote, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("item %d at %s: %w", itemID, tier, ErrNoPriceQuote)
	}
	for _, l := range levels {
		if l.Price.IsNegative() {
			return nil, fmt.Errorf("item %d at %s: %w: %s", itemID, tier, ErrInvalidPrice, l.Price)
		}
	}

	copied := make([]PriceLevel, len(levels))
	copy(copied, levels)

	return &PriceQuote{itemID: itemID, tier: tier, levels: copied}, nil
}

func (q *PriceQuote) ItemID() int {
	return q.itemID
}

func (q *PriceQuote) Tier() condition.Tier {
	return q.tier
}

func (q *PriceQuote) Levels() []PriceLevel {
	copied := make([]PriceLevel, len(q.levels))
	copy(copied, q.levels)
	return copied
}

// BestPrice is the lowest ask in the book
func (q *PriceQuote) BestPrice() decimal.Decimal {
	return q.levels[0].Price
}

// PriceForDepth returns the price of the first level whose cumulative depth reaches units.
// ok is false when the whole book is shallower than units.
func (q *PriceQuote) PriceForDepth(units int) (price decimal.Decimal, ok bool) {
	for _, l := range q.levels {
		if l.Depth >= units {
			return l.Price, true
		}
	}
	return decimal.Zero, false
}

// Cheapest is the cached cheapest known item for a (container, rarity, tier) triple
type Cheapest struct {
	ContainerID int
	Rarity      Rarity
	Tier        condition.Tier
	ItemID      int
	Price       decimal.Decimal
}
