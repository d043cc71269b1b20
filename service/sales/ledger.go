package sales

import (
	"context"
	"time"

	salesEntity "marketstock.GO/model/entity/sales"
	"marketstock.GO/service/inventory"
)

// Filter narrows a ledger listing. Zero values match everything.
type Filter struct {
	SKU    string
	Status string
	From   time.Time
	To     time.Time
}

func (f Filter) match(r *salesEntity.SaleRecord) bool {
	if f.SKU != "" && r.SKU != f.SKU {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && r.OrderDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.OrderDate.After(f.To) {
		return false
	}
	return true
}

// Ledger is the persistence boundary for sale records, keyed by order id.
// Find returns an apperror.NotFoundError for unknown ids and Insert returns
// apperror.ErrConflict when the order id already exists.
type Ledger interface {
	Find(ctx context.Context, orderID string) (*salesEntity.SaleRecord, error)
	Insert(ctx context.Context, rec *salesEntity.SaleRecord) error
	Update(ctx context.Context, rec *salesEntity.SaleRecord) error
	List(ctx context.Context, f Filter) ([]salesEntity.SaleRecord, error)
	inventory.SalesWindow
}
