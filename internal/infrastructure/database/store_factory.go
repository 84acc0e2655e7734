package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/tradeups-go/internal/adapters/persistence"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
)

// StoreFactory opens one database connection per Store
type StoreFactory struct {
	cfg      config.DatabaseConfig
	cacheTTL time.Duration
}

// NewStoreFactory creates a factory; cacheTTL bounds per-store catalog cache entries
func NewStoreFactory(cfg config.DatabaseConfig, cacheTTL time.Duration) *StoreFactory {
	return &StoreFactory{cfg: cfg, cacheTTL: cacheTTL}
}

// Open connects to the database and returns a Store owning that connection
func (f *StoreFactory) Open(ctx context.Context) (commands.Store, error) {
	db, err := NewConnection(&f.cfg)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return NewStore(db, f.cacheTTL), nil
}

// Store bundles the repositories of one connection
type Store struct {
	db       *gorm.DB
	catalog  *persistence.CachedCatalog
	tradeUps *persistence.GormTradeUpRepository
}

// NewStore wraps an open connection
func NewStore(db *gorm.DB, cacheTTL time.Duration) *Store {
	return &Store{
		db:       db,
		catalog:  persistence.NewCachedCatalog(persistence.NewGormCatalogRepository(db), cacheTTL),
		tradeUps: persistence.NewGormTradeUpRepository(db),
	}
}

func (s *Store) Catalog() catalog.Reader {
	return s.catalog
}

func (s *Store) TradeUps() tradeup.Repository {
	return s.tradeUps
}

// Close drops the cache and closes the connection
func (s *Store) Close() error {
	s.catalog.Flush()
	return Close(s.db)
}
