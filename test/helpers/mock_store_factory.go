package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// MockStoreFactory hands out stores sharing one in-memory catalog and repository
type MockStoreFactory struct {
	Catalog *MockCatalog
	Repo    *MockTradeUpRepository

	// OpenErr, when set, fails every Open
	OpenErr error

	mu     sync.Mutex
	opened int
	closed int
}

// NewMockStoreFactory creates a factory over the given catalog and a fresh repository
func NewMockStoreFactory(cat *MockCatalog) *MockStoreFactory {
	return &MockStoreFactory{Catalog: cat, Repo: NewMockTradeUpRepository()}
}

func (f *MockStoreFactory) Open(ctx context.Context) (commands.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	f.opened++
	return &mockStore{factory: f}, nil
}

// Opened returns how many stores were opened
func (f *MockStoreFactory) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

// Closed returns how many stores were closed
func (f *MockStoreFactory) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type mockStore struct {
	factory *MockStoreFactory
}

func (s *mockStore) Catalog() catalog.Reader {
	return s.factory.Catalog
}

func (s *mockStore) TradeUps() tradeup.Repository {
	return s.factory.Repo
}

func (s *mockStore) Close() error {
	s.factory.mu.Lock()
	defer s.factory.mu.Unlock()
	s.factory.closed++
	return nil
}
