package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// GormCatalogRepository implements catalog.Reader and catalog.CheapestWriter using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// ItemsByRarity returns every item at the given rarity ordered by id
func (r *GormCatalogRepository) ItemsByRarity(ctx context.Context, rarity catalog.Rarity) ([]*catalog.Item, error) {
	var models []ItemModel
	result := r.db.WithContext(ctx).Where("rarity = ?", int(rarity)).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list items by rarity: %w", result.Error)
	}
	return r.modelsToItems(models)
}

// ItemsByContainerAndRarity returns the items a container drops at the given rarity
func (r *GormCatalogRepository) ItemsByContainerAndRarity(ctx context.Context, containerID int, rarity catalog.Rarity) ([]*catalog.Item, error) {
	var models []ItemModel
	result := r.db.WithContext(ctx).
		Where("container_id = ? AND rarity = ?", containerID, int(rarity)).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list items by container and rarity: %w", result.Error)
	}
	return r.modelsToItems(models)
}

// ItemByID retrieves an item
func (r *GormCatalogRepository) ItemByID(ctx context.Context, itemID int) (*catalog.Item, error) {
	var model ItemModel
	result := r.db.WithContext(ctx).Where("id = ?", itemID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d: %w", itemID, catalog.ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}
	return r.modelToItem(&model)
}

// ContainerByID retrieves a container
func (r *GormCatalogRepository) ContainerByID(ctx context.Context, containerID int) (*catalog.Container, error) {
	var model ContainerModel
	result := r.db.WithContext(ctx).Where("id = ?", containerID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("container %d: %w", containerID, catalog.ErrContainerNotFound)
		}
		return nil, fmt.Errorf("failed to find container: %w", result.Error)
	}
	return catalog.NewContainer(model.ID, model.Name, model.counts())
}

// Containers lists every container ordered by id
func (r *GormCatalogRepository) Containers(ctx context.Context) ([]*catalog.Container, error) {
	var models []ContainerModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	containers := make([]*catalog.Container, 0, len(models))
	for i := range models {
		c, err := catalog.NewContainer(models[i].ID, models[i].Name, models[i].counts())
		if err != nil {
			return nil, fmt.Errorf("container %d: %w", models[i].ID, err)
		}
		containers = append(containers, c)
	}
	return containers, nil
}

// Cheapest returns the cached cheapest item of a container at a rarity and tier
func (r *GormCatalogRepository) Cheapest(ctx context.Context, containerID int, rarity catalog.Rarity, tier condition.Tier) (*catalog.Cheapest, error) {
	var model CheapestModel
	result := r.db.WithContext(ctx).
		Where("container_id = ? AND rarity = ? AND tier = ?", containerID, int(rarity), int(tier)).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("container %d %s %s: %w", containerID, rarity, tier.Short(), catalog.ErrCheapestNotFound)
		}
		return nil, fmt.Errorf("failed to find cheapest: %w", result.Error)
	}

	return &catalog.Cheapest{
		ContainerID: model.ContainerID,
		Rarity:      rarity,
		Tier:        tier,
		ItemID:      model.ItemID,
		Price:       model.Price,
	}, nil
}

// PriceQuote returns the sell-order book of an item at a tier
func (r *GormCatalogRepository) PriceQuote(ctx context.Context, itemID int, tier condition.Tier) (*catalog.PriceQuote, error) {
	var model PriceModel
	result := r.db.WithContext(ctx).Where("item_id = ? AND tier = ?", itemID, int(tier)).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d at %s: %w", itemID, tier, catalog.ErrNoPriceQuote)
		}
		return nil, fmt.Errorf("failed to find price: %w", result.Error)
	}

	levels, err := decodePriceData(model.PriceData)
	if err != nil {
		return nil, fmt.Errorf("item %d at %s: %w", itemID, tier, err)
	}
	return catalog.NewPriceQuote(itemID, tier, levels)
}

// ReplaceCheapest swaps all cheapest rows of a container in one transaction
func (r *GormCatalogRepository) ReplaceCheapest(ctx context.Context, containerID int, entries []catalog.Cheapest) error {
	models := make([]CheapestModel, 0, len(entries))
	for _, e := range entries {
		if e.ContainerID != containerID {
			return fmt.Errorf("cheapest entry for container %d in batch for container %d", e.ContainerID, containerID)
		}
		models = append(models, CheapestModel{
			ContainerID: containerID,
			Rarity:      int(e.Rarity),
			Tier:        int(e.Tier),
			ItemID:      e.ItemID,
			Price:       e.Price,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("container_id = ?", containerID).Delete(&CheapestModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear cheapest: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to insert cheapest: %w", err)
		}
		return nil
	})
}

// SaveContainer upserts a container
func (r *GormCatalogRepository) SaveContainer(ctx context.Context, container *catalog.Container) error {
	model := &ContainerModel{ID: container.ID(), Name: container.Name()}
	model.setCounts(container.RarityCounts())
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save container: %w", err)
	}
	return nil
}

// SaveItem upserts an item
func (r *GormCatalogRepository) SaveItem(ctx context.Context, item *catalog.Item) error {
	model := &ItemModel{
		ID:           item.ID(),
		Name:         item.Name(),
		Category:     int(item.Category()),
		Rarity:       int(item.Rarity()),
		MinCondition: item.MinCondition(),
		MaxCondition: item.MaxCondition(),
		ContainerID:  item.ContainerID(),
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// SavePriceQuote replaces the stored book of an item at a tier
func (r *GormCatalogRepository) SavePriceQuote(ctx context.Context, quote *catalog.PriceQuote) error {
	data, err := encodePriceData(quote.Levels())
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ? AND tier = ?", quote.ItemID(), int(quote.Tier())).Delete(&PriceModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear price: %w", err)
		}
		model := &PriceModel{ItemID: quote.ItemID(), Tier: int(quote.Tier()), PriceData: data}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save price: %w", err)
		}
		return nil
	})
}

func (r *GormCatalogRepository) modelsToItems(models []ItemModel) ([]*catalog.Item, error) {
	items := make([]*catalog.Item, 0, len(models))
	for i := range models {
		item, err := r.modelToItem(&models[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *GormCatalogRepository) modelToItem(model *ItemModel) (*catalog.Item, error) {
	category, err := catalog.CategoryFromOrdinal(model.Category)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", model.ID, err)
	}
	rarity, err := catalog.RarityFromOrdinal(model.Rarity)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", model.ID, err)
	}
	return catalog.NewItem(model.ID, model.Name, category, rarity, model.MinCondition, model.MaxCondition, model.ContainerID)
}

// decodePriceData accepts [price, depth] and [price, depth, label] entries.
// Prices may be JSON numbers or strings.
func decodePriceData(data string) ([]catalog.PriceLevel, error) {
	var raw [][]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		// An empty object is how a missing book was historically stored
		var empty map[string]interface{}
		if json.Unmarshal([]byte(data), &empty) == nil && len(empty) == 0 {
			return nil, catalog.ErrNoPriceQuote
		}
		return nil, fmt.Errorf("failed to decode price data: %w", err)
	}

	levels := make([]catalog.PriceLevel, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			return nil, fmt.Errorf("price level needs price and depth, got %d fields", len(entry))
		}
		var level catalog.PriceLevel
		if err := json.Unmarshal(entry[0], &level.Price); err != nil {
			return nil, fmt.Errorf("failed to decode price level price: %w", err)
		}
		if err := json.Unmarshal(entry[1], &level.Depth); err != nil {
			return nil, fmt.Errorf("failed to decode price level depth: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func encodePriceData(levels []catalog.PriceLevel) (string, error) {
	raw := make([][2]interface{}, 0, len(levels))
	for _, l := range levels {
		raw = append(raw, [2]interface{}{l.Price, l.Depth})
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode price data: %w", err)
	}
	return string(data), nil
}
