package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// FillerChoice is the secondary input picked to complete a trade-up
type FillerChoice struct {
	ItemID      int
	ContainerID int
	Price       decimal.Decimal
	Profit      decimal.Decimal // remaining value left after buying the filler slots
	OutcomeSize int             // container's item count at the output rarity
}

// FillerSelector searches other containers for the cheapest item that fills the
// slots the primary input left open.
type FillerSelector struct {
	catalog catalog.Reader
}

// NewFillerSelector creates a new filler selector
func NewFillerSelector(reader catalog.Reader) *FillerSelector {
	return &FillerSelector{catalog: reader}
}

// Select returns the best filler at (rarity, tier) outside originContainerID.
//
// Containers are scanned in ascending order of their item count at rarity+1, and
// containers with no items there are skipped. The first candidate with positive
// remaining profit seeds the choice; a later candidate replaces it only when it has
// both fewer outcomes and more profit. The rule is greedy and order-dependent.
//
// Returns tradeup.ErrNoFiller when no candidate leaves a positive profit.
func (s *FillerSelector) Select(
	ctx context.Context,
	originContainerID int,
	remainingValue decimal.Decimal,
	remainingCount int,
	tier condition.Tier,
	rarity catalog.Rarity,
) (*FillerChoice, error) {
	if remainingCount <= 0 {
		return nil, fmt.Errorf("%w: remaining count %d", tradeup.ErrInvalidComposition, remainingCount)
	}

	containers, err := s.catalog.Containers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	outputRarity := rarity + 1
	candidates := make([]*catalog.Container, 0, len(containers))
	for _, c := range containers {
		if c.ID() == originContainerID || c.CountAt(outputRarity) == 0 {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i].CountAt(outputRarity), candidates[j].CountAt(outputRarity)
		if ci != cj {
			return ci < cj
		}
		return candidates[i].ID() < candidates[j].ID()
	})

	slots := decimal.NewFromInt(int64(remainingCount))
	var best *FillerChoice

	for _, c := range candidates {
		cheapest, err := s.catalog.Cheapest(ctx, c.ID(), rarity, tier)
		if err != nil {
			if catalog.IsMissingData(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get cheapest filler in container %d: %w", c.ID(), err)
		}

		profit := remainingValue.Sub(cheapest.Price.Mul(slots))
		if !profit.IsPositive() {
			continue
		}

		candidate := &FillerChoice{
			ItemID:      cheapest.ItemID,
			ContainerID: c.ID(),
			Price:       cheapest.Price,
			Profit:      profit,
			OutcomeSize: c.CountAt(outputRarity),
		}

		if best == nil || (candidate.OutcomeSize < best.OutcomeSize && candidate.Profit.GreaterThan(best.Profit)) {
			best = candidate
		}
	}

	if best == nil {
		return nil, tradeup.ErrNoFiller
	}
	return best, nil
}
