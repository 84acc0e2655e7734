package config

import "time"

// DefaultResaleTax is the market fee applied when resale_tax is not configured
const DefaultResaleTax = 0.05

// GenerationConfig tunes a trade-up generation run
type GenerationConfig struct {
	// Parallel workers per rarity pass; 0 uses one per CPU
	Workers int `mapstructure:"workers" validate:"min=0,max=256"`

	// Lottery draws per candidate and the prefix reported as the small estimate
	Iterations  int `mapstructure:"iterations" validate:"min=1"`
	SmallWindow int `mapstructure:"small_window" validate:"min=1,ltefield=Iterations"`

	// Fraction of the goal's market price lost on resale
	ResaleTax float64 `mapstructure:"resale_tax" validate:"min=0,lt=1"`

	// Goal rarities processed, inclusive, by ordinal
	MinRarity int `mapstructure:"min_rarity" validate:"min=1,max=6"`
	MaxRarity int `mapstructure:"max_rarity" validate:"min=1,max=6,gtefield=MinRarity"`

	// RNG seed; 0 derives one from the clock
	Seed uint64 `mapstructure:"seed"`

	// Condition ceiling search
	ConditionStep     float64 `mapstructure:"condition_step" validate:"gt=0,lte=0.1"`
	MaxConditionSteps int     `mapstructure:"max_condition_steps" validate:"min=1"`

	// Lifetime of per-worker catalog cache entries; 0 keeps them for the whole pass
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}
