package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketstock.GO/core/apperror"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// InventoryRepository is the gorm-backed inventory Store.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Get returns the stock record for a SKU.
func (r *InventoryRepository) Get(ctx context.Context, sku string) (*inventoryEntity.StockRecord, error) {
	var rec inventoryEntity.StockRecord
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("stock record", sku)
	}
	if err != nil {
		return nil, fmt.Errorf("stock get %s: %w", sku, err)
	}
	return &rec, nil
}

func (r *InventoryRepository) List(ctx context.Context) ([]inventoryEntity.StockRecord, error) {
	var recs []inventoryEntity.StockRecord
	if err := r.db.WithContext(ctx).Order("sku").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("stock list: %w", err)
	}
	return recs, nil
}

func (r *InventoryRepository) Create(ctx context.Context, rec *inventoryEntity.StockRecord) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&inventoryEntity.StockRecord{}).Where("sku = ?", rec.SKU).Count(&n).Error; err != nil {
		return fmt.Errorf("stock create %s: %w", rec.SKU, err)
	}
	if n > 0 {
		return apperror.Validation("sku", "%q is already registered", rec.SKU)
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("stock create %s: %w", rec.SKU, err)
	}
	return nil
}

// Update reads the row under SELECT ... FOR UPDATE (MySQL) inside a
// transaction, applies fn and saves. SQLite serializes writers on its own.
func (r *InventoryRepository) Update(ctx context.Context, sku string, fn func(rec *inventoryEntity.StockRecord) error) (*inventoryEntity.StockRecord, error) {
	var out inventoryEntity.StockRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("sku = ?", sku).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("stock record", sku)
			}
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		if apperror.IsDomain(err) {
			return nil, err
		}
		return nil, fmt.Errorf("stock update %s: %w", sku, err)
	}
	return &out, nil
}

// Quantities fetches quantities for multiple SKUs in one query
func (r *InventoryRepository) Quantities(ctx context.Context, skus []string) (map[string]int64, error) {
	result := make(map[string]int64, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	rows, err := r.db.WithContext(ctx).Table("stock_record").
		Select("sku, quantity_on_hand").
		Where("sku IN ?", skus).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("stock quantities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		var qty int64
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("stock quantities scan: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}
