package inventory

import (
	"context"

	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// Store is the persistence boundary for stock records, keyed by SKU.
// Get and Update return an apperror.NotFoundError for unknown SKUs.
type Store interface {
	Get(ctx context.Context, sku string) (*inventoryEntity.StockRecord, error)
	List(ctx context.Context) ([]inventoryEntity.StockRecord, error)
	Create(ctx context.Context, rec *inventoryEntity.StockRecord) error
	// Quantities returns quantity on hand for the known SKUs among skus.
	Quantities(ctx context.Context, skus []string) (map[string]int64, error)
	// Update loads the record under a row lock, applies fn and writes the result in
	// one transaction. When fn returns an error nothing is written.
	Update(ctx context.Context, sku string, fn func(rec *inventoryEntity.StockRecord) error) (*inventoryEntity.StockRecord, error)
}
