package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

type cheapestKey struct {
	containerID int
	rarity      catalog.Rarity
	tier        condition.Tier
}

type quoteKey struct {
	itemID int
	tier   condition.Tier
}

// MockCatalog is an in-memory catalog.Reader and catalog.CheapestWriter
type MockCatalog struct {
	mu         sync.RWMutex
	items      map[int]*catalog.Item
	containers map[int]*catalog.Container
	cheapest   map[cheapestKey]catalog.Cheapest
	quotes     map[quoteKey]*catalog.PriceQuote

	// Err, when set, is returned by every lookup to simulate a store failure
	Err error

	failItems map[int]error
}

// NewMockCatalog creates an empty mock catalog
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		items:      make(map[int]*catalog.Item),
		containers: make(map[int]*catalog.Container),
		cheapest:   make(map[cheapestKey]catalog.Cheapest),
		quotes:     make(map[quoteKey]*catalog.PriceQuote),
		failItems:  make(map[int]error),
	}
}

// FailItem makes ItemByID return err for one item only
func (m *MockCatalog) FailItem(itemID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failItems[itemID] = err
}

// AddContainer adds a container with the given per-rarity counts
func (m *MockCatalog) AddContainer(id int, name string, rarityCounts ...int) *catalog.Container {
	c, err := catalog.NewContainer(id, name, rarityCounts)
	if err != nil {
		panic(fmt.Sprintf("invalid container fixture: %v", err))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers[id] = c
	return c
}

// AddItem adds an AK-47 skin
func (m *MockCatalog) AddItem(id int, rarity catalog.Rarity, minCondition, maxCondition float64, containerID int) *catalog.Item {
	return m.AddNamedItem(id, fmt.Sprintf("Skin %d", id), catalog.AK47, rarity, minCondition, maxCondition, containerID)
}

// AddNamedItem adds an item with explicit name and category
func (m *MockCatalog) AddNamedItem(id int, name string, category catalog.Category, rarity catalog.Rarity, minCondition, maxCondition float64, containerID int) *catalog.Item {
	item, err := catalog.NewItem(id, name, category, rarity, minCondition, maxCondition, containerID)
	if err != nil {
		panic(fmt.Sprintf("invalid item fixture: %v", err))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = item
	return item
}

// SetCheapest records the cheapest known item for (container, rarity, tier)
func (m *MockCatalog) SetCheapest(containerID int, rarity catalog.Rarity, tier condition.Tier, itemID int, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cheapest[cheapestKey{containerID, rarity, tier}] = catalog.Cheapest{
		ContainerID: containerID,
		Rarity:      rarity,
		Tier:        tier,
		ItemID:      itemID,
		Price:       decimal.RequireFromString(price),
	}
}

// SetQuote records a single-level quote with enough depth for a full trade-up
func (m *MockCatalog) SetQuote(itemID int, tier condition.Tier, price string) {
	m.SetQuoteLevels(itemID, tier, catalog.PriceLevel{Price: decimal.RequireFromString(price), Depth: 10})
}

// SetQuoteLevels records a quote with explicit order book levels
func (m *MockCatalog) SetQuoteLevels(itemID int, tier condition.Tier, levels ...catalog.PriceLevel) {
	q, err := catalog.NewPriceQuote(itemID, tier, levels)
	if err != nil {
		panic(fmt.Sprintf("invalid quote fixture: %v", err))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quoteKey{itemID, tier}] = q
}

// CheapestEntries returns every cached cheapest entry
func (m *MockCatalog) CheapestEntries() []catalog.Cheapest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]catalog.Cheapest, 0, len(m.cheapest))
	for _, e := range m.cheapest {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ContainerID != b.ContainerID {
			return a.ContainerID < b.ContainerID
		}
		if a.Rarity != b.Rarity {
			return a.Rarity < b.Rarity
		}
		return a.Tier < b.Tier
	})
	return entries
}

func (m *MockCatalog) ItemsByRarity(ctx context.Context, rarity catalog.Rarity) ([]*catalog.Item, error) {
	return m.filterItems(func(i *catalog.Item) bool { return i.Rarity() == rarity })
}

func (m *MockCatalog) ItemsByContainerAndRarity(ctx context.Context, containerID int, rarity catalog.Rarity) ([]*catalog.Item, error) {
	return m.filterItems(func(i *catalog.Item) bool {
		return i.ContainerID() == containerID && i.Rarity() == rarity
	})
}

func (m *MockCatalog) ItemByID(ctx context.Context, itemID int) (*catalog.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.failItems[itemID]; ok {
		return nil, err
	}
	item, ok := m.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, catalog.ErrItemNotFound)
	}
	return item, nil
}

func (m *MockCatalog) ContainerByID(ctx context.Context, containerID int) (*catalog.Container, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.containers[containerID]
	if !ok {
		return nil, fmt.Errorf("container %d: %w", containerID, catalog.ErrContainerNotFound)
	}
	return c, nil
}

func (m *MockCatalog) Containers(ctx context.Context) ([]*catalog.Container, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	containers := make([]*catalog.Container, 0, len(m.containers))
	for _, c := range m.containers {
		containers = append(containers, c)
	}
	sort.Slice(containers, func(i, j int) bool { return containers[i].ID() < containers[j].ID() })
	return containers, nil
}

func (m *MockCatalog) Cheapest(ctx context.Context, containerID int, rarity catalog.Rarity, tier condition.Tier) (*catalog.Cheapest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.cheapest[cheapestKey{containerID, rarity, tier}]
	if !ok {
		return nil, catalog.ErrCheapestNotFound
	}
	return &c, nil
}

func (m *MockCatalog) PriceQuote(ctx context.Context, itemID int, tier condition.Tier) (*catalog.PriceQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	q, ok := m.quotes[quoteKey{itemID, tier}]
	if !ok {
		return nil, catalog.ErrNoPriceQuote
	}
	return q, nil
}

// ReplaceCheapest drops a container's cached entries and stores the given ones
func (m *MockCatalog) ReplaceCheapest(ctx context.Context, containerID int, entries []catalog.Cheapest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k := range m.cheapest {
		if k.containerID == containerID {
			delete(m.cheapest, k)
		}
	}
	for _, e := range entries {
		m.cheapest[cheapestKey{e.ContainerID, e.Rarity, e.Tier}] = e
	}
	return nil
}

func (m *MockCatalog) filterItems(keep func(*catalog.Item) bool) ([]*catalog.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var items []*catalog.Item
	for _, item := range m.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
	return items, nil
}
