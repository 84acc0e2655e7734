package catalog

import (
	"context"

	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// Reader is the read-only view of the item catalog and market data.
// Misses are reported with the package's not-found sentinels.
type Reader interface {
	ItemsByRarity(ctx context.Context, rarity Rarity) ([]*Item, error)
	ItemsByContainerAndRarity(ctx context.Context, containerID int, rarity Rarity) ([]*Item, error)
	ItemByID(ctx context.Context, itemID int) (*Item, error)
	ContainerByID(ctx context.Context, containerID int) (*Container, error)
	Containers(ctx context.Context) ([]*Container, error)
	Cheapest(ctx context.Context, containerID int, rarity Rarity, tier condition.Tier) (*Cheapest, error)
	PriceQuote(ctx context.Context, itemID int, tier condition.Tier) (*PriceQuote, error)
}

// CheapestWriter replaces the cached cheapest entries of a container
type CheapestWriter interface {
	ReplaceCheapest(ctx context.Context, containerID int, entries []Cheapest) error
}
