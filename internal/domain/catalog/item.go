package catalog

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// Item is a single skin in the catalog (immutable once ingested)
type Item struct {
	id           int
	name         string
	category     Category
	rarity       Rarity
	minCondition float64
	maxCondition float64
	containerID  int
}

// NewItem creates an Item, validating the enums and the condition range
func NewItem(id int, name string, category Category, rarity Rarity, minCondition, maxCondition float64, containerID int) (*Item, error) {
	if name == "" {
		return nil, errors.New("item name cannot be empty")
	}
	if !category.Valid() {
		return nil, fmt.Errorf("item %d: %w: %d", id, ErrUnknownCategory, int(category))
	}
	if !rarity.Valid() {
		return nil, fmt.Errorf("item %d: %w: %d", id, ErrUnknownRarity, int(rarity))
	}
	if minCondition < 0 || maxCondition > 1 || minCondition > maxCondition {
		return nil, fmt.Errorf("item %d: %w: [%v, %v]", id, ErrInvalidConditionRange, minCondition, maxCondition)
	}

	return &Item{
		id:           id,
		name:         name,
		category:     category,
		rarity:       rarity,
		minCondition: minCondition,
		maxCondition: maxCondition,
		containerID:  containerID,
	}, nil
}

func (i *Item) ID() int {
	return i.id
}

func (i *Item) Name() string {
	return i.name
}

func (i *Item) Category() Category {
	return i.category
}

func (i *Item) Rarity() Rarity {
	return i.rarity
}

func (i *Item) MinCondition() float64 {
	return i.minCondition
}

func (i *Item) MaxCondition() float64 {
	return i.maxCondition
}

func (i *Item) ContainerID() int {
	return i.containerID
}

// Tiers returns the condition tiers this item can exist in
func (i *Item) Tiers() []condition.Tier {
	return condition.ReachableTiers(i.minCondition, i.maxCondition)
}

// EstimateCondition projects an average input condition onto this item's range
func (i *Item) EstimateCondition(avgInput float64) float64 {
	return condition.EstimateOutput(i.minCondition, i.maxCondition, avgInput)
}

func (i *Item) String() string {
	return fmt.Sprintf("%s | %s", i.category, i.name)
}
