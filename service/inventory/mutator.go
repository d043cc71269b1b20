package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"marketstock.GO/core/apperror"
	"marketstock.GO/core/lock"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// StockFields carries the attributes SetAbsolute replaces. Nil fields are kept.
type StockFields struct {
	Description      *string          `json:"description"`
	QuantityOnHand   *int64           `json:"quantity_on_hand"`
	MinimumThreshold *int64           `json:"minimum_threshold"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	NetUnitValue     *decimal.Decimal `json:"net_unit_value"`
	// TotalUnitsSold is an explicit correction of the sold counter.
	TotalUnitsSold *int64 `json:"total_units_sold"`
}

func (f StockFields) empty() bool {
	return f.Description == nil && f.QuantityOnHand == nil && f.MinimumThreshold == nil &&
		f.UnitCost == nil && f.NetUnitValue == nil && f.TotalUnitsSold == nil
}

func (f StockFields) validate() error {
	if f.empty() {
		return apperror.Validation("", "no fields to update")
	}
	if f.QuantityOnHand != nil && (*f.QuantityOnHand < 0 || *f.QuantityOnHand > MaxQuantity) {
		return apperror.Validation("quantity_on_hand", "must be between 0 and %d, got %d", MaxQuantity, *f.QuantityOnHand)
	}
	if f.MinimumThreshold != nil && (*f.MinimumThreshold < 0 || *f.MinimumThreshold > MaxQuantity) {
		return apperror.Validation("minimum_threshold", "must be between 0 and %d, got %d", MaxQuantity, *f.MinimumThreshold)
	}
	if f.TotalUnitsSold != nil && *f.TotalUnitsSold < 0 {
		return apperror.Validation("total_units_sold", "must be >= 0, got %d", *f.TotalUnitsSold)
	}
	if f.UnitCost != nil && f.UnitCost.IsNegative() {
		return apperror.Validation("unit_cost", "must be >= 0, got %s", f.UnitCost)
	}
	if f.NetUnitValue != nil && f.NetUnitValue.IsNegative() {
		return apperror.Validation("net_unit_value", "must be >= 0, got %s", f.NetUnitValue)
	}
	return nil
}

// Mutator is the only writer of quantity on hand. Every mutation of one SKU runs
// under that SKU's lock and inside a single store transaction.
type Mutator struct {
	store    Store
	locker   lock.Locker
	log      logrus.FieldLogger
	now      func() time.Time
	onChange []func(sku string)
}

func NewMutator(store Store, locker lock.Locker, log logrus.FieldLogger) *Mutator {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Mutator{store: store, locker: locker, log: log, now: time.Now}
}

// OnChange registers a callback fired after every committed mutation.
// Call during wiring, before the mutator is shared.
func (m *Mutator) OnChange(fn func(sku string)) {
	m.onChange = append(m.onChange, fn)
}

// Register creates a new stock record. Catalog registration normally happens
// outside this service; the CLI and API use it to seed SKUs.
func (m *Mutator) Register(ctx context.Context, rec inventoryEntity.StockRecord) (*inventoryEntity.StockRecord, error) {
	rec.SKU = strings.TrimSpace(rec.SKU)
	if rec.SKU == "" {
		return nil, apperror.Validation("sku", "is required")
	}
	fields := StockFields{
		QuantityOnHand:   &rec.QuantityOnHand,
		MinimumThreshold: &rec.MinimumThreshold,
		UnitCost:         &rec.UnitCost,
		NetUnitValue:     &rec.NetUnitValue,
		TotalUnitsSold:   &rec.TotalUnitsSold,
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	release, err := m.locker.Lock(ctx, rec.SKU)
	if err != nil {
		return nil, err
	}
	defer release()

	now := m.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	reclassify(&rec)
	if err := m.store.Create(ctx, &rec); err != nil {
		return nil, err
	}
	m.notify(rec.SKU)
	return &rec, nil
}

// SetAbsolute replaces the supplied fields of sku with caller values.
func (m *Mutator) SetAbsolute(ctx context.Context, sku string, fields StockFields) (*inventoryEntity.StockRecord, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}
	return m.mutate(ctx, sku, func(rec *inventoryEntity.StockRecord) error {
		if fields.Description != nil {
			rec.Description = *fields.Description
		}
		if fields.QuantityOnHand != nil {
			rec.QuantityOnHand = *fields.QuantityOnHand
		}
		if fields.MinimumThreshold != nil {
			rec.MinimumThreshold = *fields.MinimumThreshold
		}
		if fields.UnitCost != nil {
			rec.UnitCost = *fields.UnitCost
		}
		if fields.NetUnitValue != nil {
			rec.NetUnitValue = *fields.NetUnitValue
		}
		if fields.TotalUnitsSold != nil {
			rec.TotalUnitsSold = *fields.TotalUnitsSold
		}
		return nil
	})
}

// ApplyDelta adds delta to the quantity on hand. A result below zero is rejected
// with an InvalidStateError and nothing is written.
func (m *Mutator) ApplyDelta(ctx context.Context, sku string, delta int64) (*inventoryEntity.StockRecord, error) {
	return m.mutate(ctx, sku, func(rec *inventoryEntity.StockRecord) error {
		return applyDelta(rec, delta)
	})
}

// RecordSale removes units sold at the given time and advances the sold counter
// and last sale date in the same transaction.
func (m *Mutator) RecordSale(ctx context.Context, sku string, units int64, soldAt time.Time) (*inventoryEntity.StockRecord, error) {
	if units <= 0 {
		return nil, apperror.Validation("units", "must be > 0, got %d", units)
	}
	return m.mutate(ctx, sku, func(rec *inventoryEntity.StockRecord) error {
		if err := applyDelta(rec, -units); err != nil {
			return err
		}
		rec.TotalUnitsSold += units
		if rec.LastSaleDate == nil || soldAt.After(*rec.LastSaleDate) {
			t := soldAt
			rec.LastSaleDate = &t
		}
		return nil
	})
}

// RevertSale undoes a RecordSale whose ledger write failed. The last sale date
// is left as is.
func (m *Mutator) RevertSale(ctx context.Context, sku string, units int64) (*inventoryEntity.StockRecord, error) {
	return m.mutate(ctx, sku, func(rec *inventoryEntity.StockRecord) error {
		if err := applyDelta(rec, units); err != nil {
			return err
		}
		rec.TotalUnitsSold -= units
		if rec.TotalUnitsSold < 0 {
			rec.TotalUnitsSold = 0
		}
		return nil
	})
}

func applyDelta(rec *inventoryEntity.StockRecord, delta int64) error {
	if delta > MaxQuantity-rec.QuantityOnHand {
		return apperror.Validation("delta", "quantity would exceed %d", MaxQuantity)
	}
	next := rec.QuantityOnHand + delta
	if next < 0 {
		return &apperror.InvalidStateError{SKU: rec.SKU, Current: rec.QuantityOnHand, Requested: delta}
	}
	rec.QuantityOnHand = next
	return nil
}

func (m *Mutator) mutate(ctx context.Context, sku string, fn func(rec *inventoryEntity.StockRecord) error) (*inventoryEntity.StockRecord, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, apperror.Validation("sku", "is required")
	}

	release, err := m.locker.Lock(ctx, sku)
	if err != nil {
		return nil, err
	}
	defer release()

	rec, err := m.store.Update(ctx, sku, func(rec *inventoryEntity.StockRecord) error {
		if err := fn(rec); err != nil {
			return err
		}
		rec.UpdatedAt = m.now()
		reclassify(rec)
		return nil
	})
	if err != nil {
		if apperror.IsDomain(err) {
			m.log.WithField("sku", sku).Debug(err.Error())
		}
		return nil, err
	}
	m.notify(sku)
	return rec, nil
}

func (m *Mutator) notify(sku string) {
	for _, fn := range m.onChange {
		fn(sku)
	}
}
