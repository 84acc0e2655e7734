package services_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestOutcomeSimulator_QuotedOutcomes(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	outcome := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	cat.SetQuote(100, condition.FieldTested, "12.00")
	lottery, err := tradeup.NewLottery([]*catalog.Item{outcome}, nil, 10)
	require.NoError(t, err)
	sim := services.NewOutcomeSimulator(cat, 100, 10)

	// Act
	result, err := sim.Simulate(context.Background(), newRNG(), lottery, 0.30, dec("10.00"))

	// Assert
	require.NoError(t, err)
	assert.False(t, result.PriceWarning)
	assert.Equal(t, 10, result.Small.Draws)
	assert.Equal(t, 100, result.Full.Draws)
	assert.InDelta(t, 1.2, result.Small.ROI, 1e-9)
	assert.InDelta(t, 1.2, result.Full.ROI, 1e-9)
	assert.True(t, result.Small.Profit.Equal(dec("20")))
	assert.True(t, result.Full.Profit.Equal(dec("200")))
}

func TestOutcomeSimulator_FallsBackToCheapestAndWarns(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	outcome := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	cat.SetCheapest(1, catalog.Legendary, condition.FieldTested, 101, "5.00")
	lottery, err := tradeup.NewLottery([]*catalog.Item{outcome}, nil, 10)
	require.NoError(t, err)
	sim := services.NewOutcomeSimulator(cat, 20, 10)

	// Act
	result, err := sim.Simulate(context.Background(), newRNG(), lottery, 0.30, dec("10.00"))

	// Assert
	require.NoError(t, err)
	assert.True(t, result.PriceWarning)
	assert.InDelta(t, 0.5, result.Full.ROI, 1e-9)
	assert.True(t, result.Full.Profit.Equal(dec("-100")))
}

func TestOutcomeSimulator_NoPriceAtAllCountsAsZero(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	outcome := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	lottery, err := tradeup.NewLottery([]*catalog.Item{outcome}, nil, 10)
	require.NoError(t, err)
	sim := services.NewOutcomeSimulator(cat, 10, 10)

	// Act
	result, err := sim.Simulate(context.Background(), newRNG(), lottery, 0.30, dec("4.00"))

	// Assert
	require.NoError(t, err)
	assert.True(t, result.PriceWarning)
	assert.Equal(t, 0.0, result.Full.ROI)
	assert.True(t, result.Full.Profit.Equal(dec("-40")))
}

func TestOutcomeSimulator_PricesAtProjectedTier(t *testing.T) {
	// Arrange: output range 0.4-1.0 projects 0.30 average to 0.58, Battle-Scarred
	cat := helpers.NewMockCatalog()
	outcome := cat.AddItem(100, catalog.Legendary, 0.4, 1.0, 1)
	cat.SetQuote(100, condition.WellWorn, "50.00")
	cat.SetQuote(100, condition.BattleScarred, "8.00")
	lottery, err := tradeup.NewLottery([]*catalog.Item{outcome}, nil, 10)
	require.NoError(t, err)
	sim := services.NewOutcomeSimulator(cat, 10, 10)

	// Act
	result, err := sim.Simulate(context.Background(), newRNG(), lottery, 0.30, dec("8.00"))

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Full.ROI, 1e-9)
	assert.True(t, result.Full.Profit.IsZero())
}

func TestOutcomeSimulator_SmallWindowIsPrefixOfFullRun(t *testing.T) {
	// Arrange: two outcomes worth 0 and 20 against a cost of 10
	cat := helpers.NewMockCatalog()
	low := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	high := cat.AddItem(101, catalog.Legendary, 0.0, 1.0, 1)
	cat.SetQuote(100, condition.FieldTested, "0.00")
	cat.SetQuote(101, condition.FieldTested, "20.00")
	lottery, err := tradeup.NewLottery([]*catalog.Item{low, high}, nil, 10)
	require.NoError(t, err)

	// Act
	short, err := services.NewOutcomeSimulator(cat, 10, 10).Simulate(context.Background(), newRNG(), lottery, 0.30, dec("10"))
	require.NoError(t, err)
	long, err := services.NewOutcomeSimulator(cat, 100, 10).Simulate(context.Background(), newRNG(), lottery, 0.30, dec("10"))
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, short.Full.ROI, long.Small.ROI, 1e-12)
	assert.True(t, short.Full.Profit.Equal(long.Small.Profit))
}

func TestOutcomeSimulator_RejectsFreeInputs(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	outcome := cat.AddItem(100, catalog.Legendary, 0.0, 1.0, 1)
	cat.SetQuote(100, condition.FieldTested, "12.00")
	lottery, err := tradeup.NewLottery([]*catalog.Item{outcome}, nil, 10)
	require.NoError(t, err)
	sim := services.NewOutcomeSimulator(cat, 10, 10)

	// Act
	_, err = sim.Simulate(context.Background(), newRNG(), lottery, 0.30, dec("0"))

	// Assert
	assert.ErrorIs(t, err, tradeup.ErrFreeInput)
}
