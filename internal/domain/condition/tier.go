package condition

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned when a tier name or ordinal has no mapping
var ErrUnknownTier = errors.New("unknown condition tier")

// Tier is one of the five discrete condition bands over [0,1].
// Lower ordinals are better (less worn) tiers.
type Tier int

const (
	FactoryNew Tier = iota
	MinimalWear
	FieldTested
	WellWorn
	BattleScarred
)

// upperBounds holds the exclusive upper bound of each tier; the last bound is inclusive.
var upperBounds = [...]float64{0.07, 0.15, 0.38, 0.45, 1.0}

var tierNames = map[Tier]string{
	FactoryNew:    "Factory New",
	MinimalWear:   "Minimal Wear",
	FieldTested:   "Field-Tested",
	WellWorn:      "Well-Worn",
	BattleScarred: "Battle-Scarred",
}

var tierShortNames = map[Tier]string{
	FactoryNew:    "FN",
	MinimalWear:   "MW",
	FieldTested:   "FT",
	WellWorn:      "WW",
	BattleScarred: "BS",
}

var tiersByName = func() map[string]Tier {
	m := make(map[string]Tier, len(tierNames)*2)
	for t, name := range tierNames {
		m[strings.ToLower(name)] = t
	}
	for t, short := range tierShortNames {
		m[strings.ToLower(short)] = t
	}
	return m
}()

// All returns every tier in ascending order.
func All() []Tier {
	return []Tier{FactoryNew, MinimalWear, FieldTested, WellWorn, BattleScarred}
}

// Valid reports whether t is one of the five known tiers.
func (t Tier) Valid() bool {
	return t >= FactoryNew && t <= BattleScarred
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Short returns the two-letter abbreviation (FN, MW, FT, WW, BS).
func (t Tier) Short() string {
	if short, ok := tierShortNames[t]; ok {
		return short
	}
	return "??"
}

// Upper returns the tier's upper condition bound.
func (t Tier) Upper() float64 {
	if !t.Valid() {
		return 0
	}
	return upperBounds[t]
}

// Lower returns the tier's lower condition bound (the previous tier's upper bound).
func (t Tier) Lower() float64 {
	if t <= FactoryNew || !t.Valid() {
		return 0
	}
	return upperBounds[t-1]
}

// ParseTier maps a full or abbreviated tier name to a Tier.
func ParseTier(name string) (Tier, error) {
	if t, ok := tiersByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// FromOrdinal maps a stored ordinal back to a Tier, failing on anything outside 0-4.
func FromOrdinal(v int) (Tier, error) {
	t := Tier(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: ordinal %d", ErrUnknownTier, v)
	}
	return t, nil
}

// ReachableTiers returns the tiers an item with condition range [min, max] can be found in,
// ordered ascending. Tier k is included when min < upper(k) and max reaches at least the
// lower bound of k.
func ReachableTiers(min, max float64) []Tier {
	tiers := make([]Tier, 0, len(upperBounds))
	for _, t := range All() {
		if min < t.Upper() && (max >= t.Upper() || max >= t.Lower()) {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// TierAt returns the worst tier reachable by [min, max]. ok is false for a range
// that reaches no tier.
func TierAt(min, max float64) (Tier, bool) {
	tiers := ReachableTiers(min, max)
	if len(tiers) == 0 {
		return 0, false
	}
	return tiers[len(tiers)-1], true
}

// TierOf classifies a single condition value. The top of the range is inclusive,
// so 1.0 is Battle-Scarred.
func TierOf(v float64) Tier {
	for _, t := range All() {
		if v < t.Upper() {
			return t
		}
	}
	return BattleScarred
}

// EstimateOutput maps an average input condition onto the output item's range:
// (max - min) * avg + min, clamped to max.
func EstimateOutput(min, max, avg float64) float64 {
	estimate := (max-min)*avg + min
	if estimate > max {
		return max
	}
	return estimate
}
