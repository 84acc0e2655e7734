package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

func coordinatorCommand(workers int, rarities ...catalog.Rarity) *commands.RunGenerationCoordinatorCommand {
	return &commands.RunGenerationCoordinatorCommand{
		Rarities:    rarities,
		Workers:     workers,
		Seed:        1234,
		Iterations:  10,
		SmallWindow: 10,
		Options:     untaxedOptions(),
	}
}

func keys(results []*tradeup.TradeUp) []tradeup.Key {
	out := make([]tradeup.Key, len(results))
	for i, r := range results {
		out[i] = r.Key()
	}
	return out
}

func TestRunGenerationCoordinator_FansOutAndReports(t *testing.T) {
	// Arrange
	stores := helpers.NewMockStoreFactory(generationCatalog())
	m, _ := newGenerationMediator(stores)

	// Act
	resp, err := generate(m, coordinatorCommand(2, catalog.Legendary))

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Reports, 1)
	report := resp.Reports[0]
	assert.Equal(t, catalog.Legendary, report.Rarity)
	assert.Regexp(t, `^generate-r4-[0-9a-f]{8}$`, report.RunID)
	assert.Equal(t, 5, report.Items)
	assert.Equal(t, 2, report.Workers)
	assert.Equal(t, 0, report.FailedWorkers)
	assert.Equal(t, 5, report.Results)
	assert.Equal(t, int64(5), report.Stored)
	assert.Equal(t, uint64(1234), resp.Seed)
	assert.Len(t, stores.Repo.All(), 5)
	assert.Equal(t, 2, stores.Repo.Commits())
	assert.Equal(t, stores.Opened(), stores.Closed())
}

func TestRunGenerationCoordinator_NeverMoreWorkersThanItems(t *testing.T) {
	stores := helpers.NewMockStoreFactory(generationCatalog())
	m, _ := newGenerationMediator(stores)

	resp, err := generate(m, coordinatorCommand(64, catalog.Legendary))

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Reports[0].Workers)
	assert.Equal(t, 5, resp.Reports[0].Results)
}

func TestRunGenerationCoordinator_RerunReplacesPreviousResults(t *testing.T) {
	// Arrange
	stores := helpers.NewMockStoreFactory(generationCatalog())
	m, _ := newGenerationMediator(stores)
	_, err := generate(m, coordinatorCommand(2, catalog.Legendary))
	require.NoError(t, err)
	first := keys(stores.Repo.All())

	// Act
	resp, err := generate(m, coordinatorCommand(3, catalog.Legendary))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Reports[0].Deleted)
	assert.Equal(t, int64(5), resp.Reports[0].Stored)
	assert.Equal(t, first, keys(stores.Repo.All()))
}

func TestRunGenerationCoordinator_FailedWorkerDoesNotStopOthers(t *testing.T) {
	// Arrange: one item per worker, one of them hits a store failure
	cat := generationCatalog()
	storeErr := errors.New("database is locked")
	cat.FailItem(201, storeErr)
	stores := helpers.NewMockStoreFactory(cat)
	m, _ := newGenerationMediator(stores)

	// Act
	resp, err := generate(m, coordinatorCommand(5, catalog.Legendary))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	require.NotNil(t, resp)
	report := resp.Reports[0]
	assert.Equal(t, 1, report.FailedWorkers)
	assert.Equal(t, 4, report.Results)
	assert.Equal(t, int64(4), report.Stored)
	for _, tu := range stores.Repo.All() {
		assert.NotEqual(t, 201, tu.Goal().ItemID)
	}
}

func TestRunGenerationCoordinator_RaritiesRunInAscendingOrder(t *testing.T) {
	cat := generationCatalog()
	stores := helpers.NewMockStoreFactory(cat)
	m, _ := newGenerationMediator(stores)

	resp, err := generate(m, coordinatorCommand(2, catalog.Ancient, catalog.Legendary, catalog.Ancient))

	require.NoError(t, err)
	require.Len(t, resp.Reports, 2)
	assert.Equal(t, catalog.Legendary, resp.Reports[0].Rarity)
	assert.Equal(t, catalog.Ancient, resp.Reports[1].Rarity)
	assert.Equal(t, 0, resp.Reports[1].Items)
	assert.Equal(t, 0, resp.Reports[1].Workers)
}

func TestRunGenerationCoordinator_RejectsRarityWithoutInputs(t *testing.T) {
	stores := helpers.NewMockStoreFactory(generationCatalog())
	m, _ := newGenerationMediator(stores)

	_, err := generate(m, coordinatorCommand(2, catalog.Common))

	assert.ErrorIs(t, err, tradeup.ErrInvalidGoal)
	assert.Equal(t, 0, stores.Opened())
}

func TestRunGenerationCoordinator_SameSeedSameResults(t *testing.T) {
	run := func() []*tradeup.TradeUp {
		stores := helpers.NewMockStoreFactory(generationCatalog())
		m, _ := newGenerationMediator(stores)
		_, err := generate(m, coordinatorCommand(2, catalog.Legendary))
		require.NoError(t, err)
		return stores.Repo.All()
	}

	first, second := run(), run()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
		assert.Equal(t, first[i].Simulation().Full.ROI, second[i].Simulation().Full.ROI)
	}
}

func TestRunGenerationCoordinator_OpenFailureAbortsRun(t *testing.T) {
	stores := helpers.NewMockStoreFactory(generationCatalog())
	stores.OpenErr = errors.New("no route to host")
	m, _ := newGenerationMediator(stores)

	_, err := generate(m, coordinatorCommand(2, catalog.Legendary))

	assert.ErrorContains(t, err, "no route to host")
	assert.Len(t, multierr.Errors(err), 1)
}

func TestRunGenerationCoordinator_InvalidRequest(t *testing.T) {
	_, coordinator := newGenerationMediator(helpers.NewMockStoreFactory(helpers.NewMockCatalog()))

	_, err := coordinator.Handle(context.Background(), &commands.RefreshCheapestCommand{})

	assert.Error(t, err)
}
