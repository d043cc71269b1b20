package sales

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketstock.GO/core/apperror"
	salesEntity "marketstock.GO/model/entity/sales"
	"marketstock.GO/service/inventory"
)

// MemoryLedger is an in-process Ledger for tests and dry runs.
type MemoryLedger struct {
	mu      sync.RWMutex
	records map[string]salesEntity.SaleRecord
	nextID  uint
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]salesEntity.SaleRecord), now: time.Now}
}

func (l *MemoryLedger) Find(_ context.Context, orderID string) (*salesEntity.SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[orderID]
	if !ok {
		return nil, apperror.NotFound("sale record", orderID)
	}
	return &r, nil
}

func (l *MemoryLedger) Insert(_ context.Context, rec *salesEntity.SaleRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[rec.OrderID]; ok {
		return fmt.Errorf("order_id %s: %w", rec.OrderID, apperror.ErrConflict)
	}
	l.nextID++
	now := l.now()
	rec.ID = l.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	l.records[rec.OrderID] = *rec
	return nil
}

func (l *MemoryLedger) Update(_ context.Context, rec *salesEntity.SaleRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	old, ok := l.records[rec.OrderID]
	if !ok {
		return apperror.NotFound("sale record", rec.OrderID)
	}
	rec.ID = old.ID
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = l.now()
	l.records[rec.OrderID] = *rec
	return nil
}

func (l *MemoryLedger) List(_ context.Context, f Filter) ([]salesEntity.SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]salesEntity.SaleRecord, 0, len(l.records))
	for _, r := range l.records {
		if f.match(&r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func (l *MemoryLedger) StatsSince(_ context.Context, since time.Time) (map[string]inventory.SalesStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]inventory.SalesStats)
	for _, r := range l.records {
		if r.OrderDate.Before(since) || !CountsAsSale(r.Status) {
			continue
		}
		s := out[r.SKU]
		s.Orders++
		s.Units += r.Units
		out[r.SKU] = s
	}
	return out, nil
}

// Len returns the number of ledger rows.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
