package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tradeups-go/internal/adapters/persistence"
	"github.com/andrescamacho/tradeups-go/internal/application/mediator"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/shared"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/database"
)

func fileDatabase(t *testing.T) config.DatabaseConfig {
	t.Helper()
	cfg := config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "tradeups.db")}

	db, err := database.NewConnection(&cfg)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	seedGenerationCatalog(t, persistence.NewGormCatalogRepository(db))
	require.NoError(t, database.Close(db))
	return cfg
}

func seedGenerationCatalog(t *testing.T, repo *persistence.GormCatalogRepository) {
	t.Helper()
	ctx := context.Background()
	book := func(itemID int, price string, depth int) {
		quote, err := catalog.NewPriceQuote(itemID, condition.FieldTested, []catalog.PriceLevel{
			{Price: decimal.RequireFromString(price), Depth: depth},
		})
		require.NoError(t, err)
		require.NoError(t, repo.SavePriceQuote(ctx, quote))
	}

	alpha, err := catalog.NewContainer(1, "Alpha Case", []int{0, 0, 0, 1, 2})
	require.NoError(t, err)
	bravo, err := catalog.NewContainer(2, "Bravo Case", []int{0, 0, 0, 1, 3})
	require.NoError(t, err)
	require.NoError(t, repo.SaveContainer(ctx, alpha))
	require.NoError(t, repo.SaveContainer(ctx, bravo))

	goals := map[int]int{100: 1, 101: 1, 200: 2, 201: 2, 202: 2}
	for id, containerID := range goals {
		item, err := catalog.NewItem(id, "Goal", catalog.AK47, catalog.Legendary, 0.0, 1.0, containerID)
		require.NoError(t, err)
		require.NoError(t, repo.SaveItem(ctx, item))
		book(id, "10.00", 3)
	}
	for id, containerID := range map[int]int{10: 1, 20: 2} {
		item, err := catalog.NewItem(id, "Input", catalog.MP9, catalog.Mythical, 0.0, 1.0, containerID)
		require.NoError(t, err)
		require.NoError(t, repo.SaveItem(ctx, item))
		book(id, "1.00", 25)
	}
}

func TestStoreFactory_OpenServesRepositories(t *testing.T) {
	// Arrange
	cfg := fileDatabase(t)
	factory := database.NewStoreFactory(cfg, 0)

	// Act
	store, err := factory.Open(context.Background())
	require.NoError(t, err)
	defer store.Close()
	items, err := store.Catalog().ItemsByRarity(context.Background(), catalog.Legendary)

	// Assert
	require.NoError(t, err)
	assert.Len(t, items, 5)
	count, err := store.TradeUps().CountByGoalRarity(context.Background(), catalog.Legendary)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreFactory_OpenRejectsUnknownBackend(t *testing.T) {
	factory := database.NewStoreFactory(config.DatabaseConfig{Type: "oracle"}, 0)

	_, err := factory.Open(context.Background())

	assert.Error(t, err)
}

func TestStoreFactory_GenerationEndToEnd(t *testing.T) {
	// Arrange
	cfg := fileDatabase(t)
	ctx := context.Background()

	db, err := database.NewConnection(&cfg)
	require.NoError(t, err)
	repo := persistence.NewGormCatalogRepository(db)
	_, err = commands.NewRefreshCheapestHandler(repo, repo).Handle(ctx, &commands.RefreshCheapestCommand{})
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	factory := database.NewStoreFactory(cfg, 0)
	clock := shared.NewRealClock()
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.RunGenerationWorkerCommand](m, commands.NewRunGenerationWorkerHandler(factory, clock)))
	coordinator := commands.NewRunGenerationCoordinatorHandler(factory, m, clock)
	opts := services.DefaultSearchOptions()
	opts.ResaleTax = decimal.Zero

	// Act
	resp, err := coordinator.Handle(ctx, &commands.RunGenerationCoordinatorCommand{
		Rarities:    []catalog.Rarity{catalog.Legendary},
		Workers:     2,
		Seed:        7,
		Iterations:  20,
		SmallWindow: 5,
		Options:     opts,
	})

	// Assert
	require.NoError(t, err)
	report := resp.(*commands.RunGenerationCoordinatorResponse).Reports[0]
	assert.Equal(t, 5, report.Items)
	assert.Equal(t, 5, report.Results)
	assert.Equal(t, int64(5), report.Stored)
	assert.Zero(t, report.FailedWorkers)

	store, err := factory.Open(ctx)
	require.NoError(t, err)
	defer store.Close()
	stored, err := store.TradeUps().FindByGoalRarity(ctx, catalog.Legendary)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for _, result := range stored {
		assert.Equal(t, 10, result.PrimaryCount())
		assert.Equal(t, condition.FieldTested, result.Goal().Tier)
		assert.Equal(t, report.RunID, result.RunID())
		assert.Equal(t, 20, result.Simulation().Full.Draws)
	}
}
