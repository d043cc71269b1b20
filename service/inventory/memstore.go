package inventory

import (
	"context"
	"sort"
	"sync"

	"marketstock.GO/core/apperror"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// MemoryStore is an in-process Store used by tests and the dry-run import.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]inventoryEntity.StockRecord
	nextID  uint
}

func NewMemoryStore(seed ...inventoryEntity.StockRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[string]inventoryEntity.StockRecord)}
	for _, r := range seed {
		s.nextID++
		r.ID = s.nextID
		s.records[r.SKU] = copyRecord(r)
	}
	return s
}

func copyRecord(r inventoryEntity.StockRecord) inventoryEntity.StockRecord {
	if r.LastSaleDate != nil {
		t := *r.LastSaleDate
		r.LastSaleDate = &t
	}
	r.DaysOfCover = nil
	return r
}

func (s *MemoryStore) Get(_ context.Context, sku string) (*inventoryEntity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[sku]
	if !ok {
		return nil, apperror.NotFound("stock record", sku)
	}
	out := copyRecord(r)
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]inventoryEntity.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]inventoryEntity.StockRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (s *MemoryStore) Quantities(_ context.Context, skus []string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(skus))
	for _, sku := range skus {
		if r, ok := s.records[sku]; ok {
			out[sku] = r.QuantityOnHand
		}
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, rec *inventoryEntity.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.SKU]; ok {
		return apperror.Validation("sku", "%q is already registered", rec.SKU)
	}
	s.nextID++
	rec.ID = s.nextID
	s.records[rec.SKU] = copyRecord(*rec)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, sku string, fn func(rec *inventoryEntity.StockRecord) error) (*inventoryEntity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[sku]
	if !ok {
		return nil, apperror.NotFound("stock record", sku)
	}
	working := copyRecord(r)
	if err := fn(&working); err != nil {
		return nil, err
	}
	s.records[sku] = copyRecord(working)
	return &working, nil
}
