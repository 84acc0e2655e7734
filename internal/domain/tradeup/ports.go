package tradeup

import (
	"context"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
)

// Repository persists generated trade-ups
type Repository interface {
	// Begin starts a batch; nothing is visible until Commit
	Begin(ctx context.Context) (Batch, error)
	DeleteByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error)
	CountByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error)
	FindByGoalRarity(ctx context.Context, rarity catalog.Rarity) ([]*TradeUp, error)
}

// Batch buffers results of one worker partition and writes them in a single transaction
type Batch interface {
	Save(ctx context.Context, t *TradeUp) error
	Len() int
	Commit(ctx context.Context) error
	Rollback() error
}
