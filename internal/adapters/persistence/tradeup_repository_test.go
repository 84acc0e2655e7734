package persistence_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tradeups-go/internal/adapters/persistence"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

func newResult(t *testing.T, runID string, goalID int, rarity catalog.Rarity, primaryCount int) *tradeup.TradeUp {
	t.Helper()
	composition := tradeup.Composition{
		Primary: tradeup.Input{ItemID: 10, ContainerID: 1, Count: primaryCount, Price: decimal.RequireFromString("1.50"), ConditionCeiling: 0.18},
	}
	if primaryCount < tradeup.InputSlots {
		composition.Filler = &tradeup.Input{ItemID: 20, ContainerID: 2, Count: tradeup.InputSlots - primaryCount, Price: decimal.RequireFromString("0.20"), ConditionCeiling: 0.37}
	}
	sim := tradeup.Simulation{
		Small:        tradeup.Estimate{Draws: 10, ROI: 1.25, Profit: decimal.RequireFromString("24.50")},
		Full:         tradeup.Estimate{Draws: 100, ROI: 1.1, Profit: decimal.RequireFromString("98")},
		PriceWarning: true,
	}
	goal := tradeup.Goal{ItemID: goalID, Rarity: rarity, Category: catalog.AK47, Tier: condition.FieldTested}
	result, err := tradeup.NewTradeUp(runID, goal, composition, 0.25, sim)
	require.NoError(t, err)
	return result
}

func TestTradeUpRepository_CommitRoundTrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTradeUpRepository(db)
	ctx := context.Background()
	batch, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 100, catalog.Legendary, 6)))
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 101, catalog.Legendary, 10)))
	assert.Equal(t, 2, batch.Len())

	// Act
	require.NoError(t, batch.Commit(ctx))
	stored, err := repo.FindByGoalRarity(ctx, catalog.Legendary)

	// Assert
	require.NoError(t, err)
	require.Len(t, stored, 2)
	first := stored[0]
	assert.Equal(t, "gen-r4-abc", first.RunID())
	assert.Equal(t, 100, first.Goal().ItemID)
	assert.Equal(t, 6, first.PrimaryCount())
	require.NotNil(t, first.Filler())
	assert.Equal(t, 20, first.Filler().ItemID)
	assert.Equal(t, 4, first.Filler().Count)
	assert.InDelta(t, 0.18, first.Primary().ConditionCeiling, 1e-12)
	assert.True(t, first.InputCost().Equal(decimal.RequireFromString("9.80")))
	assert.Equal(t, 0.25, first.Chance())
	assert.True(t, first.PriceWarning())
	assert.Equal(t, 100, first.Simulation().Full.Draws)
	assert.True(t, first.Simulation().Small.Profit.Equal(decimal.RequireFromString("24.5")))
	assert.Nil(t, stored[1].Filler())
}

func TestTradeUpRepository_NothingVisibleBeforeCommit(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTradeUpRepository(db)
	ctx := context.Background()
	batch, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 100, catalog.Legendary, 6)))

	count, err := repo.CountByGoalRarity(ctx, catalog.Legendary)

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTradeUpRepository_RollbackDiscards(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTradeUpRepository(db)
	ctx := context.Background()
	batch, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 100, catalog.Legendary, 6)))

	// Act
	require.NoError(t, batch.Rollback())

	// Assert
	assert.Error(t, batch.Commit(ctx))
	assert.Error(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 101, catalog.Legendary, 6)))
	count, err := repo.CountByGoalRarity(ctx, catalog.Legendary)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTradeUpRepository_EmptyCommitIsNoop(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTradeUpRepository(db)
	ctx := context.Background()
	batch, err := repo.Begin(ctx)
	require.NoError(t, err)

	assert.NoError(t, batch.Commit(ctx))
}

func TestTradeUpRepository_DeleteByGoalRarityIsScoped(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTradeUpRepository(db)
	ctx := context.Background()
	batch, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 100, catalog.Legendary, 6)))
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r4-abc", 101, catalog.Legendary, 6)))
	require.NoError(t, batch.Save(ctx, newResult(t, "gen-r5-def", 300, catalog.Ancient, 10)))
	require.NoError(t, batch.Commit(ctx))

	// Act
	deleted, err := repo.DeleteByGoalRarity(ctx, catalog.Legendary)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	legendary, err := repo.CountByGoalRarity(ctx, catalog.Legendary)
	require.NoError(t, err)
	assert.Zero(t, legendary)
	ancient, err := repo.CountByGoalRarity(ctx, catalog.Ancient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ancient)

	var orphans int64
	require.NoError(t, db.Model(&persistence.TradeUpItemModel{}).Where("item_id = ?", 20).Count(&orphans).Error)
	assert.Zero(t, orphans)
}
