package tradeup

import (
	"fmt"
	"math/rand/v2"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
)

// Lottery is the weighted outcome draw of a trade-up. Each input copy contributes one
// ticket to every outcome of its container, so primary-side outcomes carry primaryCount
// tickets each and secondary-side outcomes carry the remaining slots.
type Lottery struct {
	outcomes   []*catalog.Item
	boundaries []int // cumulative, strictly increasing
}

// NewLottery builds the cumulative boundary array. Outcomes with zero weight are left out.
func NewLottery(primary []*catalog.Item, secondary []*catalog.Item, primaryCount int) (*Lottery, error) {
	if primaryCount < 1 || primaryCount > InputSlots {
		return nil, fmt.Errorf("%w: primary count %d", ErrInvalidComposition, primaryCount)
	}

	l := &Lottery{}
	cumulative := 0
	add := func(items []*catalog.Item, weight int) {
		if weight <= 0 {
			return
		}
		for _, item := range items {
			cumulative += weight
			l.outcomes = append(l.outcomes, item)
			l.boundaries = append(l.boundaries, cumulative)
		}
	}
	add(primary, primaryCount)
	add(secondary, InputSlots-primaryCount)

	if len(l.outcomes) == 0 {
		return nil, ErrNoOutcomes
	}
	return l, nil
}

// TotalTickets is the sum of all outcome weights
func (l *Lottery) TotalTickets() int {
	return l.boundaries[len(l.boundaries)-1]
}

// Boundaries returns a copy of the cumulative weights
func (l *Lottery) Boundaries() []int {
	b := make([]int, len(l.boundaries))
	copy(b, l.boundaries)
	return b
}

// Outcomes returns the items in boundary order
func (l *Lottery) Outcomes() []*catalog.Item {
	o := make([]*catalog.Item, len(l.outcomes))
	copy(o, l.outcomes)
	return o
}

// Resolve maps a ticket in [1, TotalTickets] to the first outcome whose boundary it does not exceed
func (l *Lottery) Resolve(ticket int) (*catalog.Item, error) {
	if ticket < 1 || ticket > l.TotalTickets() {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrTicketOutOfRange, ticket, l.TotalTickets())
	}
	for i, boundary := range l.boundaries {
		if ticket <= boundary {
			return l.outcomes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrTicketOutOfRange, ticket)
}

// Draw picks a uniform ticket and resolves it
func (l *Lottery) Draw(rng *rand.Rand) *catalog.Item {
	item, _ := l.Resolve(rng.IntN(l.TotalTickets()) + 1)
	return item
}
