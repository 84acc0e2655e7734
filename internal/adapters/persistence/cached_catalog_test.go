package persistence_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tradeups-go/internal/adapters/persistence"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

// countingReader counts how often each lookup reaches the store
type countingReader struct {
	*helpers.MockCatalog
	quotes atomic.Int32
	items  atomic.Int32
}

func (r *countingReader) PriceQuote(ctx context.Context, itemID int, tier condition.Tier) (*catalog.PriceQuote, error) {
	r.quotes.Add(1)
	return r.MockCatalog.PriceQuote(ctx, itemID, tier)
}

func (r *countingReader) ItemByID(ctx context.Context, itemID int) (*catalog.Item, error) {
	r.items.Add(1)
	return r.MockCatalog.ItemByID(ctx, itemID)
}

func newCountingReader() *countingReader {
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Alpha Case", 0, 0, 0, 1, 1)
	cat.AddItem(10, catalog.Mythical, 0.0, 1.0, 1)
	cat.SetQuote(10, condition.FieldTested, "1.25")
	return &countingReader{MockCatalog: cat}
}

func TestCachedCatalog_CachesHits(t *testing.T) {
	// Arrange
	reader := newCountingReader()
	cached := persistence.NewCachedCatalog(reader, 0)
	ctx := context.Background()

	// Act
	for i := 0; i < 3; i++ {
		quote, err := cached.PriceQuote(ctx, 10, condition.FieldTested)
		require.NoError(t, err)
		assert.Equal(t, "1.25", quote.BestPrice().StringFixed(2))
	}

	// Assert
	assert.Equal(t, int32(1), reader.quotes.Load())
	assert.Equal(t, 1, cached.ItemCount())
}

func TestCachedCatalog_CachesMisses(t *testing.T) {
	reader := newCountingReader()
	cached := persistence.NewCachedCatalog(reader, 0)
	ctx := context.Background()

	_, first := cached.PriceQuote(ctx, 10, condition.BattleScarred)
	_, second := cached.PriceQuote(ctx, 10, condition.BattleScarred)

	assert.ErrorIs(t, first, catalog.ErrNoPriceQuote)
	assert.ErrorIs(t, second, catalog.ErrNoPriceQuote)
	assert.Equal(t, int32(1), reader.quotes.Load())
}

func TestCachedCatalog_DoesNotCacheStoreFailures(t *testing.T) {
	// Arrange
	reader := newCountingReader()
	storeErr := errors.New("connection reset")
	reader.FailItem(10, storeErr)
	cached := persistence.NewCachedCatalog(reader, 0)
	ctx := context.Background()

	// Act
	_, first := cached.ItemByID(ctx, 10)
	_, second := cached.ItemByID(ctx, 10)

	// Assert
	assert.ErrorIs(t, first, storeErr)
	assert.ErrorIs(t, second, storeErr)
	assert.Equal(t, int32(2), reader.items.Load())
	assert.Zero(t, cached.ItemCount())
}

func TestCachedCatalog_FlushForgetsEntries(t *testing.T) {
	reader := newCountingReader()
	cached := persistence.NewCachedCatalog(reader, 0)
	ctx := context.Background()

	_, err := cached.ItemByID(ctx, 10)
	require.NoError(t, err)
	cached.Flush()
	_, err = cached.ItemByID(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, int32(2), reader.items.Load())
}
