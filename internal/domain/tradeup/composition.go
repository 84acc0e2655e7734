package tradeup

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InputSlots is the number of items consumed by every trade-up
const InputSlots = 10

// Input is one of the (at most two) item kinds fed into a trade-up
type Input struct {
	ItemID           int
	ContainerID      int
	Count            int
	Price            decimal.Decimal // per unit
	ConditionCeiling float64         // worst-case condition assumed for pricing the output
}

// Cost returns Price * Count
func (in Input) Cost() decimal.Decimal {
	return in.Price.Mul(decimal.NewFromInt(int64(in.Count)))
}

// Composition is the primary input plus an optional filler covering the remaining slots
type Composition struct {
	Primary Input
	Filler  *Input
}

// Validate checks the slot invariants: primary in [1,10], and a filler with exactly
// the remaining slots whenever the primary does not fill all ten.
func (c Composition) Validate() error {
	if c.Primary.Count < 1 || c.Primary.Count > InputSlots {
		return fmt.Errorf("%w: primary count %d", ErrInvalidComposition, c.Primary.Count)
	}
	if c.Primary.Count == InputSlots {
		if c.Filler != nil {
			return fmt.Errorf("%w: filler present with full primary", ErrInvalidComposition)
		}
		return nil
	}
	if c.Filler == nil {
		return fmt.Errorf("%w: %d slots left without filler", ErrInvalidComposition, InputSlots-c.Primary.Count)
	}
	if c.Filler.Count != InputSlots-c.Primary.Count {
		return fmt.Errorf("%w: filler count %d, want %d", ErrInvalidComposition, c.Filler.Count, InputSlots-c.Primary.Count)
	}
	return nil
}

// InputCost is the total price paid for all ten inputs
func (c Composition) InputCost() decimal.Decimal {
	cost := c.Primary.Cost()
	if c.Filler != nil {
		cost = cost.Add(c.Filler.Cost())
	}
	return cost
}

// AverageCeiling is the count-weighted mean of the input condition ceilings
func (c Composition) AverageCeiling() float64 {
	total := c.Primary.ConditionCeiling * float64(c.Primary.Count)
	count := c.Primary.Count
	if c.Filler != nil {
		total += c.Filler.ConditionCeiling * float64(c.Filler.Count)
		count += c.Filler.Count
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// ItemIDs lists the input item ids, primary first
func (c Composition) ItemIDs() []int {
	ids := []int{c.Primary.ItemID}
	if c.Filler != nil {
		ids = append(ids, c.Filler.ItemID)
	}
	return ids
}

// PrimaryCount returns the largest count in [0,10] such that unitPrice*count does not
// exceed goalPrice. Higher counts win ties: the sweep favors chance over cost.
func PrimaryCount(unitPrice, goalPrice decimal.Decimal) int {
	count := InputSlots
	for count > 0 && unitPrice.Mul(decimal.NewFromInt(int64(count))).GreaterThan(goalPrice) {
		count--
	}
	return count
}

// Chance is the probability of hitting one specific primary-side outcome
func Chance(primaryCount, totalTickets int) float64 {
	if totalTickets <= 0 {
		return 0
	}
	return float64(primaryCount) / float64(totalTickets)
}

// TotalTickets counts lottery tickets: each primary-side outcome gets primaryCount
// tickets, each secondary-side outcome the remaining slots.
func TotalTickets(primaryOutcomes, secondaryOutcomes, primaryCount int) int {
	return primaryOutcomes*primaryCount + secondaryOutcomes*(InputSlots-primaryCount)
}
