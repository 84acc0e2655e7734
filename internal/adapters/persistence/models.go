package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContainerModel represents the containers table
// rarity_N_count holds how many items the container drops at rarity N
type ContainerModel struct {
	ID           int    `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;not null"`
	SetID        string `gorm:"column:set_id;size:100"`
	Rarity0Count int    `gorm:"column:rarity_0_count;not null;default:0"`
	Rarity1Count int    `gorm:"column:rarity_1_count;not null;default:0"`
	Rarity2Count int    `gorm:"column:rarity_2_count;not null;default:0"`
	Rarity3Count int    `gorm:"column:rarity_3_count;not null;default:0"`
	Rarity4Count int    `gorm:"column:rarity_4_count;not null;default:0"`
	Rarity5Count int    `gorm:"column:rarity_5_count;not null;default:0"`
	Rarity6Count int    `gorm:"column:rarity_6_count;not null;default:0"`
}

func (ContainerModel) TableName() string {
	return "containers"
}

func (m *ContainerModel) counts() []int {
	return []int{m.Rarity0Count, m.Rarity1Count, m.Rarity2Count, m.Rarity3Count, m.Rarity4Count, m.Rarity5Count, m.Rarity6Count}
}

func (m *ContainerModel) setCounts(counts []int) {
	padded := make([]int, 7)
	copy(padded, counts)
	m.Rarity0Count, m.Rarity1Count, m.Rarity2Count = padded[0], padded[1], padded[2]
	m.Rarity3Count, m.Rarity4Count, m.Rarity5Count = padded[3], padded[4], padded[5]
	m.Rarity6Count = padded[6]
}

// ItemModel represents the items table
type ItemModel struct {
	ID           int             `gorm:"column:id;primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Category     int             `gorm:"column:category;not null"`
	Rarity       int             `gorm:"column:rarity;not null;index:idx_items_container_rarity,priority:2;index:idx_items_rarity"`
	MinCondition float64         `gorm:"column:min_condition;not null"`
	MaxCondition float64         `gorm:"column:max_condition;not null"`
	ContainerID  int             `gorm:"column:container_id;not null;index:idx_items_container_rarity,priority:1"`
	Container    *ContainerModel `gorm:"foreignKey:ContainerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ItemModel) TableName() string {
	return "items"
}

// PriceModel represents the prices table
// PriceData is the JSON sell-order book: [[price, depth, label?], ...] ordered by price
type PriceModel struct {
	ID          int        `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID      int        `gorm:"column:item_id;not null;uniqueIndex:idx_prices_item_tier,priority:1"`
	Item        *ItemModel `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tier        int        `gorm:"column:tier;not null;uniqueIndex:idx_prices_item_tier,priority:2"`
	MarketID    int        `gorm:"column:market_id"`
	PriceData   string     `gorm:"column:price_data;type:text;not null"`
	LastUpdated time.Time  `gorm:"column:last_updated;not null;autoUpdateTime"`
}

func (PriceModel) TableName() string {
	return "prices"
}

// CheapestModel represents the cheapest table
// One row per (container, rarity, tier), rebuilt by the cheapest refresh
type CheapestModel struct {
	ID          int             `gorm:"column:id;primaryKey;autoIncrement"`
	ContainerID int             `gorm:"column:container_id;not null;uniqueIndex:idx_cheapest_lookup,priority:1"`
	Rarity      int             `gorm:"column:rarity;not null;uniqueIndex:idx_cheapest_lookup,priority:2"`
	Tier        int             `gorm:"column:tier;not null;uniqueIndex:idx_cheapest_lookup,priority:3"`
	ItemID      int             `gorm:"column:item_id;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null"`
}

func (CheapestModel) TableName() string {
	return "cheapest"
}

// TradeUpModel represents the tradeups table
type TradeUpModel struct {
	ID           int                `gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string             `gorm:"column:run_id;size:64;not null;index"`
	GoalItemID   int                `gorm:"column:goal_item_id;not null"`
	GoalRarity   int                `gorm:"column:goal_rarity;not null;index"`
	GoalCategory int                `gorm:"column:goal_category;not null"`
	GoalTier     int                `gorm:"column:goal_tier;not null"`
	Chance       float64            `gorm:"column:chance;not null"`
	InputCost    decimal.Decimal    `gorm:"column:input_cost;type:decimal(20,8);not null"`
	SmallDraws   int                `gorm:"column:small_draws;not null"`
	RoiSmall     float64            `gorm:"column:roi_small;not null"`
	ProfitSmall  decimal.Decimal    `gorm:"column:profit_small;type:decimal(20,8);not null"`
	FullDraws    int                `gorm:"column:full_draws;not null"`
	RoiFull      float64            `gorm:"column:roi_full;not null"`
	ProfitFull   decimal.Decimal    `gorm:"column:profit_full;type:decimal(20,8);not null"`
	PriceWarning bool               `gorm:"column:price_warning;not null;default:false"`
	Items        []TradeUpItemModel `gorm:"foreignKey:TradeUpID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time          `gorm:"column:created_at;not null;autoCreateTime"`
}

func (TradeUpModel) TableName() string {
	return "tradeups"
}

// Input roles stored in tradeup_items.role
const (
	rolePrimary = "primary"
	roleFiller  = "filler"
)

// TradeUpItemModel represents the tradeup_items table: the inputs of a trade-up
type TradeUpItemModel struct {
	ID               int             `gorm:"column:id;primaryKey;autoIncrement"`
	TradeUpID        int             `gorm:"column:tradeup_id;not null;index"`
	ItemID           int             `gorm:"column:item_id;not null"`
	ContainerID      int             `gorm:"column:container_id;not null"`
	Role             string          `gorm:"column:role;size:16;not null"`
	Count            int             `gorm:"column:count;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null"`
	ConditionCeiling float64         `gorm:"column:condition_ceiling;not null"`
}

func (TradeUpItemModel) TableName() string {
	return "tradeup_items"
}
