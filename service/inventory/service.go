package inventory

import (
	"context"
	"math"
	"time"

	"marketstock.GO/core/apperror"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

const unitsWindowDays = 15

// SalesStats is the per-SKU sales count inside a trailing window.
type SalesStats struct {
	Orders int64
	Units  int64
}

// SalesWindow reports ledger activity per SKU since a point in time.
type SalesWindow interface {
	StatsSince(ctx context.Context, since time.Time) (map[string]SalesStats, error)
}

// Service is the read side over a Store: every record it returns carries a
// freshly derived status and, when a SalesWindow is set, its sales velocity.
type Service struct {
	store      Store
	sales      SalesWindow
	windowDays int
	now        func() time.Time
}

func NewService(store Store, sales SalesWindow, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Service{store: store, sales: sales, windowDays: windowDays, now: time.Now}
}

func (s *Service) Get(ctx context.Context, sku string) (*inventoryEntity.StockRecord, error) {
	rec, err := s.store.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	reclassify(rec)
	return rec, nil
}

// Quantities is a bulk quantity lookup; unknown SKUs are absent from the map.
func (s *Service) Quantities(ctx context.Context, skus []string) (map[string]int64, error) {
	if len(skus) == 0 {
		return map[string]int64{}, nil
	}
	return s.store.Quantities(ctx, skus)
}

// Snapshot reads every record, derives status and attaches the trailing-window
// read model. It holds no lock; concurrent mutations land in a later snapshot.
func (s *Service) Snapshot(ctx context.Context) ([]inventoryEntity.StockRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var window, recent map[string]SalesStats
	if s.sales != nil {
		now := s.now()
		window, err = s.sales.StatsSince(ctx, now.AddDate(0, 0, -s.windowDays))
		if err != nil {
			return nil, err
		}
		recent, err = s.sales.StatsSince(ctx, now.AddDate(0, 0, -unitsWindowDays))
		if err != nil {
			return nil, err
		}
	}
	for i := range records {
		r := &records[i]
		reclassify(r)
		r.SalesVelocity = float64(window[r.SKU].Orders) / float64(s.windowDays)
		r.UnitsLast15Days = recent[r.SKU].Units
		if r.SalesVelocity > 0 {
			days := int64(math.Round(float64(r.QuantityOnHand) / r.SalesVelocity))
			r.DaysOfCover = &days
		}
	}
	return records, nil
}

// ListByStatus filters a snapshot by derived status.
func (s *Service) ListByStatus(ctx context.Context, status inventoryEntity.Status) ([]inventoryEntity.StockRecord, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status", "unknown status %q", status)
	}
	records, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// Critical returns records that are out of stock or need replenishment.
func (s *Service) Critical(ctx context.Context) ([]inventoryEntity.StockRecord, error) {
	records, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		if r.Status == inventoryEntity.StatusOutOfStock || r.Status == inventoryEntity.StatusReplenish {
			out = append(out, r)
		}
	}
	return out, nil
}

// Metrics aggregates a fresh snapshot.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	records, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(records)
}
