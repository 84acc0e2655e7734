package steps

import (
	"context"
	"fmt"
	"regexp"

	"github.com/andrescamacho/tradeups-go/pkg/utils"
	"github.com/cucumber/godog"
)

type runIDContext struct {
	runID    string
	runIDs   []string
	workerID string
}

func (ctx *runIDContext) reset() {
	ctx.runID = ""
	ctx.runIDs = []string{}
	ctx.workerID = ""
}

func InitializeRunIDSteps(sc *godog.ScenarioContext) {
	idCtx := &runIDContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		idCtx.reset()
		return ctx, nil
	})

	sc.Step(`^I generate a run id for operation "([^"]*)" and rarity (\d+)$`, idCtx.generateRunID)
	sc.Step(`^I generate (\d+) run ids for operation "([^"]*)" and rarity (\d+)$`, idCtx.generateRunIDs)
	sc.Step(`^I derive the id of worker (\d+)$`, idCtx.deriveWorkerID)
	sc.Step(`^the run id should match the pattern "([^"]*)"$`, idCtx.runIDShouldMatchPattern)
	sc.Step(`^all run ids should be unique$`, idCtx.allRunIDsShouldBeUnique)
	sc.Step(`^the worker id should be the run id followed by "([^"]*)"$`, idCtx.workerIDShouldExtendRunID)
}

func (ctx *runIDContext) generateRunID(operation string, rarity int) error {
	ctx.runID = utils.GenerateRunID(operation, rarity)
	return nil
}

func (ctx *runIDContext) generateRunIDs(count int, operation string, rarity int) error {
	for i := 0; i < count; i++ {
		ctx.runIDs = append(ctx.runIDs, utils.GenerateRunID(operation, rarity))
	}
	return nil
}

func (ctx *runIDContext) deriveWorkerID(index int) error {
	ctx.workerID = utils.WorkerID(ctx.runID, index)
	return nil
}

func (ctx *runIDContext) runIDShouldMatchPattern(pattern string) error {
	matched, err := regexp.MatchString(pattern, ctx.runID)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if !matched {
		return fmt.Errorf("run id %q does not match pattern %q", ctx.runID, pattern)
	}
	return nil
}

func (ctx *runIDContext) allRunIDsShouldBeUnique() error {
	seen := make(map[string]bool, len(ctx.runIDs))
	for _, id := range ctx.runIDs {
		if seen[id] {
			return fmt.Errorf("duplicate run id: %s", id)
		}
		seen[id] = true
	}
	return nil
}

func (ctx *runIDContext) workerIDShouldExtendRunID(suffix string) error {
	if expected := ctx.runID + suffix; ctx.workerID != expected {
		return fmt.Errorf("expected worker id %q, got %q", expected, ctx.workerID)
	}
	return nil
}
