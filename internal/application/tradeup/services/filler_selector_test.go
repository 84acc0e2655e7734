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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFillerSelector_RejectsCandidatesAtOrAboveBudget(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "Exact", 0, 0, 0, 5, 1)
	cat.AddContainer(3, "Over", 0, 0, 0, 5, 1)
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "0.01")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.25")
	cat.SetCheapest(3, catalog.Mythical, condition.FieldTested, 30, "0.40")
	selector := services.NewFillerSelector(cat)

	// Act
	choice, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	assert.Nil(t, choice)
	assert.ErrorIs(t, err, tradeup.ErrNoFiller)
}

func TestFillerSelector_PicksProfitableCandidateOutsideOrigin(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "Filler", 0, 0, 0, 5, 3)
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "0.01")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.20")
	selector := services.NewFillerSelector(cat)

	// Act
	choice, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 20, choice.ItemID)
	assert.Equal(t, 2, choice.ContainerID)
	assert.True(t, choice.Price.Equal(dec("0.20")))
	assert.True(t, choice.Profit.Equal(dec("0.20")))
	assert.True(t, choice.Price.Mul(decimal.NewFromInt(4)).LessThan(dec("1.00")))
}

func TestFillerSelector_SkipsContainersWithoutOutputRarity(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "Dead End", 0, 0, 0, 5, 0)
	cat.AddContainer(3, "Open", 0, 0, 0, 5, 4)
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.01")
	cat.SetCheapest(3, catalog.Mythical, condition.FieldTested, 30, "0.10")
	selector := services.NewFillerSelector(cat)

	// Act
	choice, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30, choice.ItemID)
}

func TestFillerSelector_FewestOutcomesSeedsTheChoice(t *testing.T) {
	// Arrange: the richer container is scanned later and has more outcomes, so it never dominates
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "Wide", 0, 0, 0, 5, 6)
	cat.AddContainer(3, "Narrow", 0, 0, 0, 5, 2)
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "0.05")
	cat.SetCheapest(3, catalog.Mythical, condition.FieldTested, 30, "0.20")
	selector := services.NewFillerSelector(cat)

	// Act
	choice, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30, choice.ItemID)
	assert.Equal(t, 2, choice.OutcomeSize)
}

func TestFillerSelector_SkipsMissingCheapest(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Origin", 0, 0, 0, 5, 2)
	cat.AddContainer(2, "No Data", 0, 0, 0, 5, 1)
	cat.AddContainer(3, "Priced", 0, 0, 0, 5, 3)
	cat.SetCheapest(3, catalog.Mythical, condition.FieldTested, 30, "0.10")
	selector := services.NewFillerSelector(cat)

	// Act
	choice, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30, choice.ItemID)
}

func TestFillerSelector_StoreFailurePropagates(t *testing.T) {
	// Arrange
	cat := helpers.NewMockCatalog()
	storeErr := errors.New("connection reset")
	cat.Err = storeErr
	selector := services.NewFillerSelector(cat)

	// Act
	_, err := selector.Select(context.Background(), 1, dec("1.00"), 4, condition.FieldTested, catalog.Mythical)

	// Assert
	assert.ErrorIs(t, err, storeErr)
}
