package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// MockTradeUpRepository is an in-memory tradeup.Repository shared by all workers of a test
type MockTradeUpRepository struct {
	mu       sync.Mutex
	stored   []*tradeup.TradeUp
	commits  int
	rollback int

	// CommitErr, when set, fails every Commit
	CommitErr error
}

// NewMockTradeUpRepository creates an empty repository
func NewMockTradeUpRepository() *MockTradeUpRepository {
	return &MockTradeUpRepository{}
}

func (r *MockTradeUpRepository) Begin(ctx context.Context) (tradeup.Batch, error) {
	return &mockBatch{repo: r}, nil
}

func (r *MockTradeUpRepository) DeleteByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.stored[:0]
	var deleted int64
	for _, t := range r.stored {
		if t.Goal().Rarity == rarity {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.stored = kept
	return deleted, nil
}

func (r *MockTradeUpRepository) CountByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error) {
	results, _ := r.FindByGoalRarity(ctx, rarity)
	return int64(len(results)), nil
}

func (r *MockTradeUpRepository) FindByGoalRarity(ctx context.Context, rarity catalog.Rarity) ([]*tradeup.TradeUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*tradeup.TradeUp
	for _, t := range r.stored {
		if t.Goal().Rarity == rarity {
			results = append(results, t)
		}
	}
	return results, nil
}

// All returns every stored result ordered by goal item and tier
func (r *MockTradeUpRepository) All() []*tradeup.TradeUp {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*tradeup.TradeUp, len(r.stored))
	copy(all, r.stored)
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].Goal(), all[j].Goal()
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.Tier < b.Tier
	})
	return all
}

// Commits returns how many batches were committed
func (r *MockTradeUpRepository) Commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits
}

// Rollbacks returns how many batches were rolled back
func (r *MockTradeUpRepository) Rollbacks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollback
}

type mockBatch struct {
	repo    *MockTradeUpRepository
	pending []*tradeup.TradeUp
}

func (b *mockBatch) Save(ctx context.Context, t *tradeup.TradeUp) error {
	b.pending = append(b.pending, t)
	return nil
}

func (b *mockBatch) Len() int {
	return len(b.pending)
}

func (b *mockBatch) Commit(ctx context.Context) error {
	b.repo.mu.Lock()
	defer b.repo.mu.Unlock()
	if b.repo.CommitErr != nil {
		return b.repo.CommitErr
	}
	b.repo.stored = append(b.repo.stored, b.pending...)
	b.repo.commits++
	b.pending = nil
	return nil
}

func (b *mockBatch) Rollback() error {
	b.repo.mu.Lock()
	defer b.repo.mu.Unlock()
	b.repo.rollback++
	b.pending = nil
	return nil
}
