package commands

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/andrescamacho/tradeups-go/internal/adapters/metrics"
	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/services"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/shared"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/pkg/utils"
)

// RunGenerationWorkerCommand searches one partition of goal items on a dedicated store
type RunGenerationWorkerCommand struct {
	RunID       string
	Rarity      catalog.Rarity
	ItemIDs     []int
	WorkerIndex int
	Seed        uint64
	Iterations  int
	SmallWindow int
	Options     services.SearchOptions
}

// RunGenerationWorkerResponse contains the partition results
type RunGenerationWorkerResponse struct {
	WorkerID      string
	ItemsSearched int
	Results       int
	PriceWarnings int
	Skipped       map[string]int
}

// RunGenerationWorkerHandler implements the generation worker
type RunGenerationWorkerHandler struct {
	stores StoreFactory
	clock  shared.Clock
}

// NewRunGenerationWorkerHandler creates a new worker handler
func NewRunGenerationWorkerHandler(stores StoreFactory, clock shared.Clock) *RunGenerationWorkerHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunGenerationWorkerHandler{
		stores: stores,
		clock:  clock,
	}
}

// Handle runs the search over the partition and commits every result in one batch.
// A store failure rolls the batch back; nothing from the partition is kept.
func (h *RunGenerationWorkerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunGenerationWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	workerID := utils.WorkerID(cmd.RunID, cmd.WorkerIndex)
	logger := common.WithFields(common.LoggerFromContext(ctx), map[string]interface{}{
		"run_id":    cmd.RunID,
		"worker_id": workerID,
		"rarity":    cmd.Rarity.String(),
	})
	ctx = common.WithLogger(ctx, logger)

	response := &RunGenerationWorkerResponse{
		WorkerID: workerID,
		Skipped:  make(map[string]int),
	}

	start := h.clock.Now()
	err := h.runPartition(ctx, cmd, response)
	elapsed := h.clock.Now().Sub(start).Seconds()

	metrics.RecordWorkerCompletion(cmd.Rarity.String(), elapsed, err == nil)
	if err != nil {
		logger.Log(common.LevelError, "Generation worker failed", map[string]interface{}{
			"items_searched": response.ItemsSearched,
			"error":          err.Error(),
		})
		return response, err
	}

	metrics.RecordResults(cmd.Rarity.String(), response.Results)
	metrics.RecordPriceWarnings(cmd.Rarity.String(), response.PriceWarnings)
	for reason, count := range response.Skipped {
		metrics.RecordSkip(cmd.Rarity.String(), reason, count)
	}

	logger.Log(common.LevelInfo, "Generation worker finished", map[string]interface{}{
		"items_searched":  response.ItemsSearched,
		"results":         response.Results,
		"price_warnings":  response.PriceWarnings,
		"elapsed_seconds": elapsed,
	})
	return response, nil
}

func (h *RunGenerationWorkerHandler) runPartition(ctx context.Context, cmd *RunGenerationWorkerCommand, response *RunGenerationWorkerResponse) (err error) {
	store, err := h.stores.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", closeErr)
		}
	}()

	reader := store.Catalog()
	search := services.NewTradeUpSearch(
		reader,
		services.NewFillerSelector(reader),
		services.NewOutcomeSimulator(reader, cmd.Iterations, cmd.SmallWindow),
		cmd.Options,
	)
	rng := rand.New(rand.NewPCG(cmd.Seed, uint64(cmd.WorkerIndex)))

	batch, err := store.TradeUps().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}

	for _, itemID := range cmd.ItemIDs {
		if err := h.searchItem(ctx, reader, search, rng, cmd.RunID, itemID, batch, response); err != nil {
			discard(batch, response)
			return err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		discard(batch, response)
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// discard rolls back the batch; the partition then reports no stored results
func discard(batch tradeup.Batch, response *RunGenerationWorkerResponse) {
	_ = batch.Rollback()
	response.Results = 0
	response.PriceWarnings = 0
}

func (h *RunGenerationWorkerHandler) searchItem(
	ctx context.Context,
	reader catalog.Reader,
	search *services.TradeUpSearch,
	rng *rand.Rand,
	runID string,
	itemID int,
	batch tradeup.Batch,
	response *RunGenerationWorkerResponse,
) error {
	goal, err := reader.ItemByID(ctx, itemID)
	if err != nil {
		if catalog.IsMissingData(err) {
			response.Skipped[services.SkipMissingItem]++
			return nil
		}
		return fmt.Errorf("failed to load goal item %d: %w", itemID, err)
	}

	report, err := search.SearchItem(ctx, rng, runID, goal)
	if err != nil {
		return fmt.Errorf("failed to search goal item %d: %w", itemID, err)
	}
	response.ItemsSearched++

	for reason, count := range report.Skipped {
		response.Skipped[reason] += count
	}
	for _, result := range report.Results {
		if err := batch.Save(ctx, result); err != nil {
			return fmt.Errorf("failed to stage result for goal item %d: %w", itemID, err)
		}
		response.Results++
		if result.PriceWarning() {
			response.PriceWarnings++
		}
	}
	return nil
}
