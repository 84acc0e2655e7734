package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/tradeups-go/internal/adapters/metrics"
	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/shared"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/pkg/utils"
)

// raritySeedStride spreads per-rarity seeds so workers of different passes never share a stream
const raritySeedStride uint64 = 0x9E3779B97F4A7C15

// RunGenerationCoordinatorCommand regenerates stored trade-ups for a set of goal rarities
type RunGenerationCoordinatorCommand struct {
	Rarities    []catalog.Rarity
	Workers     int    // 0 = runtime.NumCPU()
	Seed        uint64 // 0 = derived from the clock
	Iterations  int
	SmallWindow int
	Options     services.SearchOptions
}

// RarityReport summarizes one rarity pass
type RarityReport struct {
	Rarity        catalog.Rarity
	RunID         string
	Deleted       int64
	Items         int
	Workers       int
	FailedWorkers int
	Results       int
	PriceWarnings int
	Stored        int64
	Skipped       map[string]int
}

// RunGenerationCoordinatorResponse contains the run report
type RunGenerationCoordinatorResponse struct {
	Seed    uint64
	Reports []RarityReport
}

// TotalResults sums results over every rarity pass
func (r *RunGenerationCoordinatorResponse) TotalResults() int {
	total := 0
	for _, report := range r.Reports {
		total += report.Results
	}
	return total
}

// RunGenerationCoordinatorHandler runs rarity passes one after another, fanning each
// out to workers dispatched through the mediator
type RunGenerationCoordinatorHandler struct {
	stores   StoreFactory
	mediator common.Mediator
	clock    shared.Clock
}

// NewRunGenerationCoordinatorHandler creates a new coordinator handler
func NewRunGenerationCoordinatorHandler(stores StoreFactory, mediator common.Mediator, clock shared.Clock) *RunGenerationCoordinatorHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunGenerationCoordinatorHandler{
		stores:   stores,
		mediator: mediator,
		clock:    clock,
	}
}

// Handle executes the coordinator command. A failed worker or rarity pass does not stop
// the others; all failures are combined into the returned error alongside the report.
func (h *RunGenerationCoordinatorHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunGenerationCoordinatorCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	rarities, err := normalizeRarities(cmd.Rarities)
	if err != nil {
		return nil, err
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := cmd.Seed
	if seed == 0 {
		seed = uint64(h.clock.Now().UnixNano())
	}

	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, "Generation run starting", map[string]interface{}{
		"rarities": len(rarities),
		"workers":  workers,
		"seed":     seed,
	})

	admin, err := h.stores.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer admin.Close()

	response := &RunGenerationCoordinatorResponse{Seed: seed}
	var runErr error

	for _, rarity := range rarities {
		report, passErr := h.runRarity(ctx, admin, cmd, rarity, workers, seed)
		response.Reports = append(response.Reports, report)
		if passErr != nil {
			runErr = multierr.Append(runErr, fmt.Errorf("rarity %s: %w", rarity, passErr))
		}
	}

	logger.Log(common.LevelInfo, "Generation run finished", map[string]interface{}{
		"results": response.TotalResults(),
		"failed":  len(multierr.Errors(runErr)),
	})
	return response, runErr
}

func (h *RunGenerationCoordinatorHandler) runRarity(
	ctx context.Context,
	admin Store,
	cmd *RunGenerationCoordinatorCommand,
	rarity catalog.Rarity,
	workers int,
	seed uint64,
) (RarityReport, error) {
	runID := utils.GenerateRunID("generate", int(rarity))
	report := RarityReport{Rarity: rarity, RunID: runID, Skipped: make(map[string]int)}
	logger := common.WithFields(common.LoggerFromContext(ctx), map[string]interface{}{
		"run_id": runID,
		"rarity": rarity.String(),
	})

	deleted, err := admin.TradeUps().DeleteByGoalRarity(ctx, rarity)
	if err != nil {
		return report, fmt.Errorf("failed to clear previous results: %w", err)
	}
	report.Deleted = deleted

	items, err := admin.Catalog().ItemsByRarity(ctx, rarity)
	if err != nil {
		return report, fmt.Errorf("failed to load goal items: %w", err)
	}
	report.Items = len(items)
	metrics.RecordItemsScheduled(rarity.String(), len(items))

	raritySeed := seed + uint64(rarity)*raritySeedStride
	partitions := partition(shuffledIDs(items, raritySeed), workers)
	report.Workers = len(partitions)

	logger.Log(common.LevelInfo, "Rarity pass starting", map[string]interface{}{
		"deleted": deleted,
		"items":   len(items),
		"workers": len(partitions),
	})

	responses := make([]*RunGenerationWorkerResponse, len(partitions))
	errs := make([]error, len(partitions))

	var g errgroup.Group
	for i, ids := range partitions {
		g.Go(func() error {
			resp, err := h.mediator.Send(ctx, &RunGenerationWorkerCommand{
				RunID:       runID,
				Rarity:      rarity,
				ItemIDs:     ids,
				WorkerIndex: i,
				Seed:        raritySeed,
				Iterations:  cmd.Iterations,
				SmallWindow: cmd.SmallWindow,
				Options:     cmd.Options,
			})
			if err != nil {
				errs[i] = fmt.Errorf("worker %d: %w", i, err)
				return errs[i]
			}
			workerResp, ok := resp.(*RunGenerationWorkerResponse)
			if !ok {
				errs[i] = fmt.Errorf("worker %d: unexpected response type %T", i, resp)
				return errs[i]
			}
			responses[i] = workerResp
			return nil
		})
	}
	_ = g.Wait()

	for i, resp := range responses {
		if errs[i] != nil {
			report.FailedWorkers++
			continue
		}
		report.Results += resp.Results
		report.PriceWarnings += resp.PriceWarnings
		for reason, count := range resp.Skipped {
			report.Skipped[reason] += count
		}
	}
	passErr := multierr.Combine(errs...)

	stored, err := admin.TradeUps().CountByGoalRarity(ctx, rarity)
	if err != nil {
		passErr = multierr.Append(passErr, fmt.Errorf("failed to count stored results: %w", err))
	}
	report.Stored = stored

	logger.Log(common.LevelInfo, "Rarity pass finished", map[string]interface{}{
		"results":        report.Results,
		"stored":         report.Stored,
		"price_warnings": report.PriceWarnings,
		"failed_workers": report.FailedWorkers,
	})
	return report, passErr
}

// normalizeRarities sorts ascending, drops duplicates and rejects rarities without an input rarity
func normalizeRarities(rarities []catalog.Rarity) ([]catalog.Rarity, error) {
	if len(rarities) == 0 {
		return nil, fmt.Errorf("no goal rarities requested")
	}

	seen := make(map[catalog.Rarity]bool)
	normalized := make([]catalog.Rarity, 0, len(rarities))
	for _, r := range rarities {
		if _, ok := r.Below(); !ok {
			return nil, fmt.Errorf("%w: %s has no input rarity", tradeup.ErrInvalidGoal, r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		normalized = append(normalized, r)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	return normalized, nil
}

func shuffledIDs(items []*catalog.Item, seed uint64) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID()
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// partition deals ids round-robin into at most n non-empty partitions
func partition(ids []int, n int) [][]int {
	if n > len(ids) {
		n = len(ids)
	}
	parts := make([][]int, n)
	for i, id := range ids {
		parts[i%n] = append(parts[i%n], id)
	}
	return parts
}
