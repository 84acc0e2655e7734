package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// insertBatchSize bounds rows per INSERT when a batch commits
const insertBatchSize = 200

var errBatchClosed = errors.New("batch already committed or rolled back")

// GormTradeUpRepository implements tradeup.Repository using GORM
type GormTradeUpRepository struct {
	db *gorm.DB
}

// NewGormTradeUpRepository creates a new GORM trade-up repository
func NewGormTradeUpRepository(db *gorm.DB) *GormTradeUpRepository {
	return &GormTradeUpRepository{db: db}
}

// Begin starts a batch buffered in memory; rows are written at Commit
func (r *GormTradeUpRepository) Begin(ctx context.Context) (tradeup.Batch, error) {
	return &gormTradeUpBatch{db: r.db}, nil
}

// DeleteByGoalRarity removes every stored trade-up whose goal has the given rarity
func (r *GormTradeUpRepository) DeleteByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&TradeUpModel{}).Select("id").Where("goal_rarity = ?", int(rarity))
		if err := tx.Where("tradeup_id IN (?)", ids).Delete(&TradeUpItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete trade-up items: %w", err)
		}
		result := tx.Where("goal_rarity = ?", int(rarity)).Delete(&TradeUpModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete trade-ups: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// CountByGoalRarity counts stored trade-ups for a goal rarity
func (r *GormTradeUpRepository) CountByGoalRarity(ctx context.Context, rarity catalog.Rarity) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TradeUpModel{}).Where("goal_rarity = ?", int(rarity)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count trade-ups: %w", err)
	}
	return count, nil
}

// FindByGoalRarity loads stored trade-ups for a goal rarity in insertion order
func (r *GormTradeUpRepository) FindByGoalRarity(ctx context.Context, rarity catalog.Rarity) ([]*tradeup.TradeUp, error) {
	var models []TradeUpModel
	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("goal_rarity = ?", int(rarity)).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trade-ups: %w", result.Error)
	}

	results := make([]*tradeup.TradeUp, 0, len(models))
	for i := range models {
		t, err := modelToTradeUp(&models[i])
		if err != nil {
			return nil, fmt.Errorf("trade-up %d: %w", models[i].ID, err)
		}
		results = append(results, t)
	}
	return results, nil
}

type gormTradeUpBatch struct {
	db      *gorm.DB
	pending []TradeUpModel
	closed  bool
}

func (b *gormTradeUpBatch) Save(ctx context.Context, t *tradeup.TradeUp) error {
	if b.closed {
		return errBatchClosed
	}
	b.pending = append(b.pending, tradeUpToModel(t))
	return nil
}

func (b *gormTradeUpBatch) Len() int {
	return len(b.pending)
}

// Commit writes every buffered result and its inputs in a single transaction
func (b *gormTradeUpBatch) Commit(ctx context.Context) error {
	if b.closed {
		return errBatchClosed
	}
	b.closed = true
	if len(b.pending) == 0 {
		return nil
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&b.pending, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to commit %d trade-ups: %w", len(b.pending), err)
	}
	b.pending = nil
	return nil
}

func (b *gormTradeUpBatch) Rollback() error {
	b.closed = true
	b.pending = nil
	return nil
}

func tradeUpToModel(t *tradeup.TradeUp) TradeUpModel {
	goal := t.Goal()
	sim := t.Simulation()
	model := TradeUpModel{
		RunID:        t.RunID(),
		GoalItemID:   goal.ItemID,
		GoalRarity:   int(goal.Rarity),
		GoalCategory: int(goal.Category),
		GoalTier:     int(goal.Tier),
		Chance:       t.Chance(),
		InputCost:    t.InputCost(),
		SmallDraws:   sim.Small.Draws,
		RoiSmall:     sim.Small.ROI,
		ProfitSmall:  sim.Small.Profit,
		FullDraws:    sim.Full.Draws,
		RoiFull:      sim.Full.ROI,
		ProfitFull:   sim.Full.Profit,
		PriceWarning: sim.PriceWarning,
	}

	model.Items = append(model.Items, inputToModel(t.Primary(), rolePrimary))
	if filler := t.Filler(); filler != nil {
		model.Items = append(model.Items, inputToModel(*filler, roleFiller))
	}
	return model
}

func inputToModel(in tradeup.Input, role string) TradeUpItemModel {
	return TradeUpItemModel{
		ItemID:           in.ItemID,
		ContainerID:      in.ContainerID,
		Role:             role,
		Count:            in.Count,
		Price:            in.Price,
		ConditionCeiling: in.ConditionCeiling,
	}
}

func modelToTradeUp(model *TradeUpModel) (*tradeup.TradeUp, error) {
	rarity, err := catalog.RarityFromOrdinal(model.GoalRarity)
	if err != nil {
		return nil, err
	}
	category, err := catalog.CategoryFromOrdinal(model.GoalCategory)
	if err != nil {
		return nil, err
	}
	tier, err := condition.FromOrdinal(model.GoalTier)
	if err != nil {
		return nil, err
	}

	var composition tradeup.Composition
	for _, item := range model.Items {
		in := tradeup.Input{
			ItemID:           item.ItemID,
			ContainerID:      item.ContainerID,
			Count:            item.Count,
			Price:            item.Price,
			ConditionCeiling: item.ConditionCeiling,
		}
		switch item.Role {
		case rolePrimary:
			composition.Primary = in
		case roleFiller:
			composition.Filler = &in
		default:
			return nil, fmt.Errorf("unknown input role %q", item.Role)
		}
	}

	goal := tradeup.Goal{ItemID: model.GoalItemID, Rarity: rarity, Category: category, Tier: tier}
	simulation := tradeup.Simulation{
		Small:        tradeup.Estimate{Draws: model.SmallDraws, ROI: model.RoiSmall, Profit: model.ProfitSmall},
		Full:         tradeup.Estimate{Draws: model.FullDraws, ROI: model.RoiFull, Profit: model.ProfitFull},
		PriceWarning: model.PriceWarning,
	}
	return tradeup.NewTradeUp(model.RunID, goal, composition, model.Chance, simulation)
}
