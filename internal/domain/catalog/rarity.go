package catalog

import (
	"fmt"
	"strings"
)

// Rarity is the ordinal rarity tier of an item; 0 is the lowest.
type Rarity int

const (
	Common    Rarity = iota // Consumer
	Uncommon                // Industrial
	Rare                    // Mil-Spec
	Mythical                // Restricted
	Legendary               // Classified
	Ancient                 // Covert
	Immortal                // Exceedingly Rare
)

var rarityNames = map[Rarity]string{
	Common:    "common",
	Uncommon:  "uncommon",
	Rare:      "rare",
	Mythical:  "mythical",
	Legendary: "legendary",
	Ancient:   "ancient",
	Immortal:  "immortal",
}

var rarityGameNames = map[Rarity]string{
	Common:    "Consumer",
	Uncommon:  "Industrial",
	Rare:      "Mil-Spec",
	Mythical:  "Restricted",
	Legendary: "Classified",
	Ancient:   "Covert",
	Immortal:  "Exceedingly Rare",
}

var raritiesByName = func() map[string]Rarity {
	m := make(map[string]Rarity, len(rarityNames)*2)
	for r, name := range rarityNames {
		m[name] = r
	}
	for r, name := range rarityGameNames {
		m[strings.ToLower(name)] = r
	}
	return m
}()

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	return r >= Common && r <= Immortal
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rarity(%d)", int(r))
}

// GameName returns the in-game grade label (Consumer, Industrial, ...).
func (r Rarity) GameName() string {
	if name, ok := rarityGameNames[r]; ok {
		return name
	}
	return r.String()
}

// Below returns the rarity one step lower, used as the trade-up input rarity.
func (r Rarity) Below() (Rarity, bool) {
	if r <= Common || !r.Valid() {
		return 0, false
	}
	return r - 1, true
}

// ParseRarity accepts either the internal (common, uncommon, ...) or game (Consumer, Mil-Spec, ...) name.
func ParseRarity(name string) (Rarity, error) {
	if r, ok := raritiesByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, name)
}

// RarityFromOrdinal validates a stored ordinal.
func RarityFromOrdinal(v int) (Rarity, error) {
	r := Rarity(v)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: ordinal %d", ErrUnknownRarity, v)
	}
	return r, nil
}
