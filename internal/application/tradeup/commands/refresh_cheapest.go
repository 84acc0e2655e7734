package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// DefaultCheapestDepth is how many units an order book must hold for an item to qualify
// as the cheapest of its container; a trade-up buys up to ten of it
const DefaultCheapestDepth = 10

// RefreshCheapestCommand rebuilds the cheapest cache of every container
type RefreshCheapestCommand struct {
	Depth int // 0 = DefaultCheapestDepth
}

// RefreshCheapestResponse contains refresh counts
type RefreshCheapestResponse struct {
	Containers int
	Entries    int
}

// RefreshCheapestHandler picks, per (container, rarity, tier), the item whose book reaches
// the required depth at the lowest marginal price
type RefreshCheapestHandler struct {
	reader catalog.Reader
	writer catalog.CheapestWriter
}

// NewRefreshCheapestHandler creates a new refresh handler
func NewRefreshCheapestHandler(reader catalog.Reader, writer catalog.CheapestWriter) *RefreshCheapestHandler {
	return &RefreshCheapestHandler{
		reader: reader,
		writer: writer,
	}
}

// Handle executes the refresh command
func (h *RefreshCheapestHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RefreshCheapestCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	depth := cmd.Depth
	if depth <= 0 {
		depth = DefaultCheapestDepth
	}

	logger := common.LoggerFromContext(ctx)

	containers, err := h.reader.Containers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	response := &RefreshCheapestResponse{}
	for _, container := range containers {
		entries, err := h.cheapestOf(ctx, container, depth)
		if err != nil {
			return response, err
		}
		if err := h.writer.ReplaceCheapest(ctx, container.ID(), entries); err != nil {
			return response, fmt.Errorf("failed to store cheapest for container %d: %w", container.ID(), err)
		}
		response.Containers++
		response.Entries += len(entries)

		logger.Log(common.LevelDebug, "Cheapest refreshed", map[string]interface{}{
			"container_id": container.ID(),
			"entries":      len(entries),
		})
	}

	logger.Log(common.LevelInfo, "Cheapest cache rebuilt", map[string]interface{}{
		"containers": response.Containers,
		"entries":    response.Entries,
		"depth":      depth,
	})
	return response, nil
}

func (h *RefreshCheapestHandler) cheapestOf(ctx context.Context, container *catalog.Container, depth int) ([]catalog.Cheapest, error) {
	var entries []catalog.Cheapest

	for r, count := range container.RarityCounts() {
		if count == 0 {
			continue
		}
		rarity, err := catalog.RarityFromOrdinal(r)
		if err != nil {
			return nil, fmt.Errorf("container %d: %w", container.ID(), err)
		}
		items, err := h.reader.ItemsByContainerAndRarity(ctx, container.ID(), rarity)
		if err != nil {
			return nil, fmt.Errorf("failed to list items of container %d: %w", container.ID(), err)
		}

		for _, tier := range condition.All() {
			best, found, err := h.cheapestAt(ctx, items, tier, depth)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			best.ContainerID = container.ID()
			best.Rarity = rarity
			best.Tier = tier
			entries = append(entries, best)
		}
	}
	return entries, nil
}

func (h *RefreshCheapestHandler) cheapestAt(ctx context.Context, items []*catalog.Item, tier condition.Tier, depth int) (catalog.Cheapest, bool, error) {
	var best catalog.Cheapest
	found := false

	for _, item := range items {
		if !hasTier(item, tier) {
			continue
		}
		quote, err := h.reader.PriceQuote(ctx, item.ID(), tier)
		if err != nil {
			if catalog.IsMissingData(err) {
				continue
			}
			return best, false, fmt.Errorf("failed to load quote for item %d: %w", item.ID(), err)
		}
		price, ok := quote.PriceForDepth(depth)
		if !ok {
			continue
		}
		if !found || price.LessThan(best.Price) {
			best = catalog.Cheapest{ItemID: item.ID(), Price: price}
			found = true
		}
	}
	return best, found, nil
}

func hasTier(item *catalog.Item, tier condition.Tier) bool {
	for _, t := range item.Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}
