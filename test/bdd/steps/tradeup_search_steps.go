package steps

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/test/helpers"
	"github.com/cucumber/godog"
)

type cheapestListing struct {
	container string
	tiers     []condition.Tier
	price     string
}

// tradeUpSearchContext collects the market described by the scenario and builds
// the catalog when the search runs, so Given steps may come in any order
type tradeUpSearchContext struct {
	containerIDs  map[string]int
	outcomes      map[string]int
	goalContainer string
	goalName      string
	goalTier      condition.Tier
	goalPrice     string
	cheapest      []cheapestListing
	resaleTax     decimal.Decimal

	result *tradeup.TradeUp
	report *services.ItemReport
	err    error
}

func (tsc *tradeUpSearchContext) reset() {
	tsc.containerIDs = make(map[string]int)
	tsc.outcomes = make(map[string]int)
	tsc.goalContainer = ""
	tsc.goalName = ""
	tsc.goalTier = condition.FieldTested
	tsc.goalPrice = ""
	tsc.cheapest = nil
	tsc.resaleTax = services.DefaultResaleTax
	tsc.result = nil
	tsc.report = nil
	tsc.err = nil
}

func InitializeTradeUpSearchScenario(sc *godog.ScenarioContext) {
	tsc := &tradeUpSearchContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		tsc.reset()
		return ctx, nil
	})

	sc.Step(`^a goal "([^"]*)" in container "([^"]*)" quoted at \$([\d.]+) (Factory New|Minimal Wear|Field-Tested|Well-Worn|Battle-Scarred)$`, tsc.aGoalInContainerQuotedAt)
	sc.Step(`^container "([^"]*)" holds (\d+) Classified outcomes$`, tsc.containerHoldsOutcomes)
	sc.Step(`^the resale tax is (\d+)%$`, tsc.theResaleTaxIs)
	sc.Step(`^the goal has no price quote$`, tsc.theGoalHasNoPriceQuote)
	sc.Step(`^the cheapest Restricted input of "([^"]*)" costs \$([\d.]+) at every tier$`, tsc.theCheapestInputCostsAtEveryTier)
	sc.Step(`^the cheapest Restricted input of "([^"]*)" costs \$([\d.]+) at (Factory New|Minimal Wear|Field-Tested|Well-Worn|Battle-Scarred)$`, tsc.theCheapestInputCostsAt)
	sc.Step(`^I search trade-ups for the goal at (.+)$`, tsc.iSearchTradeUpsForTheGoalAt)
	sc.Step(`^I search every tier of the goal$`, tsc.iSearchEveryTierOfTheGoal)
	sc.Step(`^a trade-up should be found$`, tsc.aTradeUpShouldBeFound)
	sc.Step(`^no trade-up should be found$`, tsc.noTradeUpShouldBeFound)
	sc.Step(`^it should use (\d+) primary inputs$`, tsc.itShouldUsePrimaryInputs)
	sc.Step(`^it should have no filler$`, tsc.itShouldHaveNoFiller)
	sc.Step(`^it should be filled with (\d+) inputs from "([^"]*)"$`, tsc.itShouldBeFilledWithInputsFrom)
	sc.Step(`^the filler should cost less than \$([\d.]+) in total$`, tsc.theFillerShouldCostLessThan)
	sc.Step(`^its input cost should be \$([\d.]+)$`, tsc.itsInputCostShouldBe)
	sc.Step(`^its chance should be ([\d.]+)$`, tsc.itsChanceShouldBe)
	sc.Step(`^no trade-ups should be produced$`, tsc.noTradeUpsShouldBeProduced)
	sc.Step(`^every tier should be skipped as "([^"]*)"$`, tsc.everyTierShouldBeSkippedAs)
}

func (tsc *tradeUpSearchContext) container(name string) int {
	if id, ok := tsc.containerIDs[name]; ok {
		return id
	}
	id := len(tsc.containerIDs) + 1
	tsc.containerIDs[name] = id
	return id
}

func (tsc *tradeUpSearchContext) aGoalInContainerQuotedAt(name, container, price, tierName string) error {
	tier, err := condition.ParseTier(tierName)
	if err != nil {
		return err
	}
	tsc.container(container)
	tsc.goalName = name
	tsc.goalContainer = container
	tsc.goalPrice = price
	tsc.goalTier = tier
	return nil
}

func (tsc *tradeUpSearchContext) containerHoldsOutcomes(container string, count int) error {
	tsc.container(container)
	tsc.outcomes[container] = count
	return nil
}

func (tsc *tradeUpSearchContext) theResaleTaxIs(percent int) error {
	tsc.resaleTax = decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))
	return nil
}

func (tsc *tradeUpSearchContext) theGoalHasNoPriceQuote() error {
	tsc.goalPrice = ""
	return nil
}

func (tsc *tradeUpSearchContext) theCheapestInputCostsAtEveryTier(container, price string) error {
	tsc.container(container)
	tsc.cheapest = append(tsc.cheapest, cheapestListing{container: container, tiers: condition.All(), price: price})
	return nil
}

func (tsc *tradeUpSearchContext) theCheapestInputCostsAt(container, price, tierName string) error {
	tier, err := condition.ParseTier(tierName)
	if err != nil {
		return err
	}
	tsc.container(container)
	tsc.cheapest = append(tsc.cheapest, cheapestListing{container: container, tiers: []condition.Tier{tier}, price: price})
	return nil
}

// buildCatalog lays out every container with its Classified outcomes (the goal first
// in its own container) and one full-range Restricted input per container
func (tsc *tradeUpSearchContext) buildCatalog() (*helpers.MockCatalog, *catalog.Item, error) {
	if tsc.goalContainer == "" {
		return nil, nil, fmt.Errorf("no goal defined")
	}
	cat := helpers.NewMockCatalog()
	var goal *catalog.Item

	for name, id := range tsc.containerIDs {
		outcomes := tsc.outcomes[name]
		if name == tsc.goalContainer && outcomes < 1 {
			outcomes = 1
		}
		cat.AddContainer(id, name, 0, 0, 0, 1, outcomes)
		cat.AddItem(inputItemID(id), catalog.Mythical, 0.0, 1.0, id)

		for i := 0; i < outcomes; i++ {
			itemID := id*100 + i
			if name == tsc.goalContainer && i == 0 {
				goal = cat.AddNamedItem(itemID, tsc.goalName, catalog.AK47, catalog.Legendary, 0.0, 1.0, id)
				continue
			}
			cat.AddItem(itemID, catalog.Legendary, 0.0, 1.0, id)
		}
	}

	if tsc.goalPrice != "" {
		cat.SetQuote(goal.ID(), tsc.goalTier, tsc.goalPrice)
	}
	for _, listing := range tsc.cheapest {
		id := tsc.containerIDs[listing.container]
		for _, tier := range listing.tiers {
			cat.SetCheapest(id, catalog.Mythical, tier, inputItemID(id), listing.price)
		}
	}
	return cat, goal, nil
}

func inputItemID(containerID int) int {
	return containerID * 10
}

func (tsc *tradeUpSearchContext) newSearch(cat catalog.Reader) *services.TradeUpSearch {
	opts := services.DefaultSearchOptions()
	opts.ResaleTax = tsc.resaleTax
	return services.NewTradeUpSearch(
		cat,
		services.NewFillerSelector(cat),
		services.NewOutcomeSimulator(cat, 100, 10),
		opts,
	)
}

func (tsc *tradeUpSearchContext) iSearchTradeUpsForTheGoalAt(tierName string) error {
	tier, err := condition.ParseTier(tierName)
	if err != nil {
		return err
	}
	cat, goal, err := tsc.buildCatalog()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(1, 1))
	tsc.result, tsc.err = tsc.newSearch(cat).Evaluate(context.Background(), rng, "bdd-run", goal, tier)
	return nil
}

func (tsc *tradeUpSearchContext) iSearchEveryTierOfTheGoal() error {
	cat, goal, err := tsc.buildCatalog()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(1, 1))
	tsc.report, tsc.err = tsc.newSearch(cat).SearchItem(context.Background(), rng, "bdd-run", goal)
	return nil
}

func (tsc *tradeUpSearchContext) aTradeUpShouldBeFound() error {
	if tsc.err != nil {
		return fmt.Errorf("expected a trade-up, got error: %w", tsc.err)
	}
	if tsc.result == nil {
		return fmt.Errorf("expected a trade-up, got none")
	}
	return nil
}

func (tsc *tradeUpSearchContext) noTradeUpShouldBeFound() error {
	if tsc.result != nil {
		return fmt.Errorf("expected no trade-up, got %d primaries at %s", tsc.result.PrimaryCount(), tsc.result.InputCost())
	}
	if _, skipped := services.SkipReason(tsc.err); !skipped {
		return fmt.Errorf("expected a skip, got error: %v", tsc.err)
	}
	return nil
}

func (tsc *tradeUpSearchContext) itShouldUsePrimaryInputs(count int) error {
	if got := tsc.result.PrimaryCount(); got != count {
		return fmt.Errorf("expected %d primary inputs, got %d", count, got)
	}
	return nil
}

func (tsc *tradeUpSearchContext) itShouldHaveNoFiller() error {
	if filler := tsc.result.Filler(); filler != nil {
		return fmt.Errorf("expected no filler, got %d of item %d", filler.Count, filler.ItemID)
	}
	return nil
}

func (tsc *tradeUpSearchContext) itShouldBeFilledWithInputsFrom(count int, container string) error {
	filler := tsc.result.Filler()
	if filler == nil {
		return fmt.Errorf("expected a filler, got none")
	}
	if filler.Count != count {
		return fmt.Errorf("expected %d filler inputs, got %d", count, filler.Count)
	}
	if want := tsc.containerIDs[container]; filler.ContainerID != want {
		return fmt.Errorf("expected filler from container %d, got %d", want, filler.ContainerID)
	}
	return nil
}

func (tsc *tradeUpSearchContext) theFillerShouldCostLessThan(limit string) error {
	filler := tsc.result.Filler()
	if filler == nil {
		return fmt.Errorf("expected a filler, got none")
	}
	max, err := decimal.NewFromString(limit)
	if err != nil {
		return err
	}
	if !filler.Cost().LessThan(max) {
		return fmt.Errorf("expected filler cost below %s, got %s", max, filler.Cost())
	}
	return nil
}

func (tsc *tradeUpSearchContext) itsInputCostShouldBe(expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if got := tsc.result.InputCost(); !got.Equal(want) {
		return fmt.Errorf("expected input cost %s, got %s", want, got)
	}
	return nil
}

func (tsc *tradeUpSearchContext) itsChanceShouldBe(expected float64) error {
	if got := tsc.result.Chance(); math.Abs(got-expected) > 1e-9 {
		return fmt.Errorf("expected chance %v, got %v", expected, got)
	}
	return nil
}

func (tsc *tradeUpSearchContext) noTradeUpsShouldBeProduced() error {
	if tsc.err != nil {
		return fmt.Errorf("unexpected error: %w", tsc.err)
	}
	if n := len(tsc.report.Results); n != 0 {
		return fmt.Errorf("expected no trade-ups, got %d", n)
	}
	return nil
}

func (tsc *tradeUpSearchContext) everyTierShouldBeSkippedAs(reason string) error {
	want := len(condition.All())
	if got := tsc.report.Skipped[reason]; got != want {
		return fmt.Errorf("expected %d tiers skipped as %s, got %d (%v)", want, reason, got, tsc.report.Skipped)
	}
	return nil
}
