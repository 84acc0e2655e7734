package steps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/cucumber/godog"
)

type conditionTierContext struct {
	tier      condition.Tier
	tiers     []condition.Tier
	projected float64
	err       error
}

func (ctc *conditionTierContext) reset() {
	ctc.tier = condition.FactoryNew
	ctc.tiers = nil
	ctc.projected = 0
	ctc.err = nil
}

func InitializeConditionTierScenario(sc *godog.ScenarioContext) {
	ctc := &conditionTierContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		ctc.reset()
		return ctx, nil
	})

	sc.Step(`^I classify the condition ([\d.]+)$`, ctc.iClassifyTheCondition)
	sc.Step(`^I list the tiers reachable between ([\d.]+) and ([\d.]+)$`, ctc.iListTheTiersReachableBetween)
	sc.Step(`^I ask for the worst tier between ([\d.]+) and ([\d.]+)$`, ctc.iAskForTheWorstTierBetween)
	sc.Step(`^I project an average condition of ([\d.]+) onto the range ([\d.]+) to ([\d.]+)$`, ctc.iProjectAnAverageCondition)
	sc.Step(`^I parse the tier name "([^"]*)"$`, ctc.iParseTheTierName)
	sc.Step(`^the tier should be "([^"]*)"$`, ctc.theTierShouldBe)
	sc.Step(`^the reachable tiers should be "([^"]*)"$`, ctc.theReachableTiersShouldBe)
	sc.Step(`^the projected condition should be ([\d.]+)$`, ctc.theProjectedConditionShouldBe)
	sc.Step(`^parsing should fail$`, ctc.parsingShouldFail)
}

func (ctc *conditionTierContext) iClassifyTheCondition(value float64) error {
	ctc.tier = condition.TierOf(value)
	return nil
}

func (ctc *conditionTierContext) iListTheTiersReachableBetween(min, max float64) error {
	ctc.tiers = condition.ReachableTiers(min, max)
	return nil
}

func (ctc *conditionTierContext) iAskForTheWorstTierBetween(min, max float64) error {
	tier, ok := condition.TierAt(min, max)
	if !ok {
		return fmt.Errorf("range %.2f-%.2f reaches no tier", min, max)
	}
	ctc.tier = tier
	return nil
}

func (ctc *conditionTierContext) iProjectAnAverageCondition(avg, min, max float64) error {
	ctc.projected = condition.EstimateOutput(min, max, avg)
	return nil
}

func (ctc *conditionTierContext) iParseTheTierName(name string) error {
	ctc.tier, ctc.err = condition.ParseTier(name)
	return nil
}

func (ctc *conditionTierContext) theTierShouldBe(expected string) error {
	if ctc.err != nil {
		return fmt.Errorf("unexpected error: %w", ctc.err)
	}
	if ctc.tier.String() != expected {
		return fmt.Errorf("expected tier %q, got %q", expected, ctc.tier.String())
	}
	return nil
}

func (ctc *conditionTierContext) theReachableTiersShouldBe(expected string) error {
	shorts := make([]string, 0, len(ctc.tiers))
	for _, t := range ctc.tiers {
		shorts = append(shorts, t.Short())
	}
	if got := strings.Join(shorts, ","); got != expected {
		return fmt.Errorf("expected tiers %s, got %s", expected, got)
	}
	return nil
}

func (ctc *conditionTierContext) theProjectedConditionShouldBe(expected float64) error {
	if math.Abs(ctc.projected-expected) > 1e-9 {
		return fmt.Errorf("expected projected condition %.4f, got %.4f", expected, ctc.projected)
	}
	return nil
}

func (ctc *conditionTierContext) parsingShouldFail() error {
	if ctc.err == nil {
		return fmt.Errorf("expected parsing to fail, got %s", ctc.tier)
	}
	return nil
}
