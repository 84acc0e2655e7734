package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

// searchFixture: goal 100 lives in container 1 next to item 101; container 2 holds
// three outcomes and a cheap filler.
func searchFixture() (*helpers.MockCatalog, *catalog.Item) {
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin Case", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "Filler Case", 0, 0, 0, 5, 3)

	goal := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	cat.AddItem(101, catalog.Legendary, 0.0, 1.0, 1)
	cat.AddItem(200, catalog.Legendary, 0.0, 1.0, 2)
	cat.AddItem(201, catalog.Legendary, 0.0, 1.0, 2)
	cat.AddItem(202, catalog.Legendary, 0.0, 1.0, 2)

	cat.AddItem(10, catalog.Mythical, 0.0, 1.0, 1)
	cat.AddItem(20, catalog.Mythical, 0.0, 1.0, 2)

	cat.SetQuote(100, condition.FieldTested, "10.00")
	cat.SetQuote(101, condition.FieldTested, "3.00")
	return cat, goal
}

func newSearch(cat catalog.Reader) *services.TradeUpSearch {
	opts := services.DefaultSearchOptions()
	opts.ResaleTax = decimal.Zero
	return services.NewTradeUpSearch(
		cat,
		services.NewFillerSelector(cat),
		services.NewOutcomeSimulator(cat, 100, 10),
		opts,
	)
}

func TestTradeUpSearch_CheapPrimaryFillsAllSlots(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.00")
	search := newSearch(cat)

	// Act
	result, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, result.PrimaryCount())
	assert.Nil(t, result.Filler())
	assert.True(t, result.InputCost().Equal(dec("10.00")))
	assert.Equal(t, float64(10)/float64(20), result.Chance())
	assert.LessOrEqual(t, result.Primary().ConditionCeiling, condition.FieldTested.Upper())
	assert.Equal(t, []int{10}, result.ItemIDs())
}

func TestTradeUpSearch_SweepsDownAndAddsFiller(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.50")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.20")
	search := newSearch(cat)

	// Act
	result, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 6, result.PrimaryCount())
	filler := result.Filler()
	require.NotNil(t, filler)
	assert.Equal(t, 20, filler.ItemID)
	assert.Equal(t, 4, filler.Count)
	assert.True(t, filler.Price.Mul(decimal.NewFromInt(4)).LessThan(dec("1.00")))
	// 2 primary outcomes x 6 tickets + 3 secondary outcomes x 4 tickets
	assert.Equal(t, float64(6)/float64(24), result.Chance())
	assert.True(t, result.InputCost().Equal(dec("9.80")))
}

func TestTradeUpSearch_FillerAtRemainingCeilingIsRejected(t *testing.T) {
	// Arrange: 4 x 0.25 uses up the whole 1.00 left after six primaries
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.50")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.25")
	search := newSearch(cat)

	// Act
	_, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	assert.ErrorIs(t, err, tradeup.ErrNoFiller)
}

func TestTradeUpSearch_AppliesResaleTax(t *testing.T) {
	// Arrange: 10.00 less 5% is 9.50, so ten at 1.00 no longer fit
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.00")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.10")
	search := services.NewTradeUpSearch(cat, services.NewFillerSelector(cat), services.NewOutcomeSimulator(cat, 10, 10), services.DefaultSearchOptions())

	// Act
	result, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9, result.PrimaryCount())
	require.NotNil(t, result.Filler())
	assert.Equal(t, 1, result.Filler().Count)
}

func TestTradeUpSearch_NoGoalQuoteYieldsNothing(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin Case", 0, 0, 0, 5, 1)
	goal := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	cat.AddItem(10, catalog.Mythical, 0.0, 1.0, 1)
	for _, tier := range condition.All() {
		cat.SetCheapest(1, catalog.Mythical, tier, 10, "0.10")
	}
	search := newSearch(cat)

	// Act
	report, err := search.SearchItem(context.Background(), newRNG(), "run-1", goal)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, len(condition.All()), report.Skipped[services.SkipNoGoalPrice])
}

func TestTradeUpSearch_MissingCheapestSkipsTier(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	search := newSearch(cat)

	// Act
	report, err := search.SearchItem(context.Background(), newRNG(), "run-1", goal)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, len(goal.Tiers()), report.Skipped[services.SkipNoCheapest])
}

func TestTradeUpSearch_UnaffordablePrimary(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "11.00")
	search := newSearch(cat)

	// Act
	_, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	assert.ErrorIs(t, err, tradeup.ErrUnaffordable)
	reason, ok := services.SkipReason(err)
	assert.True(t, ok)
	assert.Equal(t, services.SkipUnaffordable, reason)
}

func TestTradeUpSearch_FreePrimaryIsSkipped(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "0.00")
	search := newSearch(cat)

	// Act
	_, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)

	// Assert
	assert.ErrorIs(t, err, tradeup.ErrFreeInput)
	assert.True(t, tradeup.IsInfeasible(err))
	reason, ok := services.SkipReason(err)
	assert.True(t, ok)
	assert.Equal(t, services.SkipFreeInput, reason)
}

func TestTradeUpSearch_StoreFailureAbortsItem(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	storeErr := errors.New("database is locked")
	cat.Err = storeErr
	search := newSearch(cat)

	// Act
	_, err := search.SearchItem(context.Background(), newRNG(), "run-1", goal)

	// Assert
	assert.ErrorIs(t, err, storeErr)
	_, ok := services.SkipReason(err)
	assert.False(t, ok)
}

func TestTradeUpSearch_DeterministicFieldsAreStable(t *testing.T) {
	// Arrange
	cat, goal := searchFixture()
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.50")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.20")
	search := newSearch(cat)

	// Act
	first, err := search.Evaluate(context.Background(), newRNG(), "run-1", goal, condition.FieldTested)
	require.NoError(t, err)
	second, err := search.Evaluate(context.Background(), newRNG(), "run-2", goal, condition.FieldTested)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.Key(), second.Key())
	assert.Equal(t, first.Chance(), second.Chance())
}
