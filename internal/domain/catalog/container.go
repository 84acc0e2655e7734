package catalog

import "errors"

// Container is a loot source grouping items, with the number of items it holds at each rarity
type Container struct {
	id           int
	name         string
	rarityCounts []int
}

// NewContainer creates a Container. rarityCounts is indexed by Rarity.
func NewContainer(id int, name string, rarityCounts []int) (*Container, error) {
	if name == "" {
		return nil, errors.New("container name cannot be empty")
	}
	for _, c := range rarityCounts {
		if c < 0 {
			return nil, errors.New("rarity counts must be non-negative")
		}
	}

	counts := make([]int, len(rarityCounts))
	copy(counts, rarityCounts)

	return &Container{
		id:           id,
		name:         name,
		rarityCounts: counts,
	}, nil
}

func (c *Container) ID() int {
	return c.id
}

func (c *Container) Name() string {
	return c.name
}

// CountAt returns how many items the container holds at rarity r (0 when out of range)
func (c *Container) CountAt(r Rarity) int {
	if int(r) < 0 || int(r) >= len(c.rarityCounts) {
		return 0
	}
	return c.rarityCounts[r]
}

// RarityCounts returns a copy of the per-rarity counts
func (c *Container) RarityCounts() []int {
	counts := make([]int, len(c.rarityCounts))
	copy(counts, c.rarityCounts)
	return counts
}
