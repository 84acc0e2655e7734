package commands_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/application/mediator"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/shared"
	"github.com/andrescamacho/tradeups-go/test/helpers"
)

// generationCatalog: five Classified goals over two cases, each affordable at
// Field-Tested with ten Restricted inputs at 1.00 against a 10.00 goal.
func generationCatalog() *helpers.MockCatalog {
	cat := helpers.NewMockCatalog()
	cat.AddContainer(1, "Alpha Case", 0, 0, 0, 1, 2)
	cat.AddContainer(2, "Bravo Case", 0, 0, 0, 1, 3)

	for _, id := range []int{100, 101} {
		cat.AddItem(id, catalog.Legendary, 0.0, 1.0, 1)
		cat.SetQuote(id, condition.FieldTested, "10.00")
	}
	for _, id := range []int{200, 201, 202} {
		cat.AddItem(id, catalog.Legendary, 0.0, 1.0, 2)
		cat.SetQuote(id, condition.FieldTested, "10.00")
	}
	cat.AddItem(10, catalog.Mythical, 0.0, 1.0, 1)
	cat.AddItem(20, catalog.Mythical, 0.0, 1.0, 2)
	cat.SetCheapest(1, catalog.Mythical, condition.FieldTested, 10, "1.00")
	cat.SetCheapest(2, catalog.Mythical, condition.FieldTested, 20, "1.00")
	return cat
}

func untaxedOptions() services.SearchOptions {
	opts := services.DefaultSearchOptions()
	opts.ResaleTax = decimal.Zero
	return opts
}

// newGenerationMediator wires the worker handler the way the CLI does
func newGenerationMediator(stores commands.StoreFactory) (mediator.Mediator, *commands.RunGenerationCoordinatorHandler) {
	m := mediator.NewMediator()
	clock := shared.NewMockClock(time0)
	_ = mediator.RegisterHandler[*commands.RunGenerationWorkerCommand](m, commands.NewRunGenerationWorkerHandler(stores, clock))
	coordinator := commands.NewRunGenerationCoordinatorHandler(stores, m, clock)
	_ = mediator.RegisterHandler[*commands.RunGenerationCoordinatorCommand](m, coordinator)
	return m, coordinator
}

func generate(m mediator.Mediator, cmd *commands.RunGenerationCoordinatorCommand) (*commands.RunGenerationCoordinatorResponse, error) {
	resp, err := m.Send(context.Background(), cmd)
	if resp == nil {
		return nil, err
	}
	return resp.(*commands.RunGenerationCoordinatorResponse), err
}
