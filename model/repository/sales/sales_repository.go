package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketstock.GO/core/apperror"
	salesEntity "marketstock.GO/model/entity/sales"
	"marketstock.GO/service/inventory"
	salesService "marketstock.GO/service/sales"
)

// SalesRepository is the gorm-backed sales ledger.
type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

func (r *SalesRepository) Find(ctx context.Context, orderID string) (*salesEntity.SaleRecord, error) {
	var rec salesEntity.SaleRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("sale record", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sale find %s: %w", orderID, err)
	}
	return &rec, nil
}

// Insert adds a new order. An existing order id is left untouched and reported
// as apperror.ErrConflict.
func (r *SalesRepository) Insert(ctx context.Context, rec *salesEntity.SaleRecord) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return fmt.Errorf("sale insert %s: %w", rec.OrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order_id %s: %w", rec.OrderID, apperror.ErrConflict)
	}
	return nil
}

// Update overwrites the stored row for rec.OrderID.
func (r *SalesRepository) Update(ctx context.Context, rec *salesEntity.SaleRecord) error {
	existing, err := r.Find(ctx, rec.OrderID)
	if err != nil {
		return err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("sale update %s: %w", rec.OrderID, err)
	}
	return nil
}

// List returns matching rows, newest order first.
func (r *SalesRepository) List(ctx context.Context, f salesService.Filter) ([]salesEntity.SaleRecord, error) {
	q := r.db.WithContext(ctx).Model(&salesEntity.SaleRecord{})
	if f.SKU != "" {
		q = q.Where("sku = ?", f.SKU)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("order_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("order_date <= ?", f.To)
	}
	var recs []salesEntity.SaleRecord
	if err := q.Order("order_date DESC, order_id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("sale list: %w", err)
	}
	return recs, nil
}

// StatsSince counts completed-sale orders and units per SKU from since onwards.
func (r *SalesRepository) StatsSince(ctx context.Context, since time.Time) (map[string]inventory.SalesStats, error) {
	type row struct {
		SKU    string
		Orders int64
		Units  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&salesEntity.SaleRecord{}).
		Select("sku, COUNT(*) AS orders, COALESCE(SUM(units), 0) AS units").
		Where("order_date >= ? AND status NOT IN ?", since, salesService.NonSaleStatuses()).
		Group("sku").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sale stats: %w", err)
	}
	out := make(map[string]inventory.SalesStats, len(rows))
	for _, rw := range rows {
		out[rw.SKU] = inventory.SalesStats{Orders: rw.Orders, Units: rw.Units}
	}
	return out, nil
}
