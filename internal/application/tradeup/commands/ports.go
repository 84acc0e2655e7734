package commands

import (
	"context"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/tradeup"
)

// Store is one exclusive connection to the catalog and result tables.
// A worker owns its Store for its whole partition.
type Store interface {
	Catalog() catalog.Reader
	TradeUps() tradeup.Repository
	Close() error
}

// StoreFactory opens Stores; each call yields an independent connection
type StoreFactory interface {
	Open(ctx context.Context) (Store, error)
}
