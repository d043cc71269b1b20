package inventory

import (
	"github.com/shopspring/decimal"

	"marketstock.GO/core/apperror"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// Metrics summarizes a full snapshot of stock records.
type Metrics struct {
	TotalRecords         int                            `json:"total_records"`
	TotalUnits           int64                          `json:"total_units"`
	TotalValue           decimal.Decimal                `json:"total_value"`
	CountReplenish       int                            `json:"count_replenish"`
	CountOutOfStock      int                            `json:"count_out_of_stock"`
	AverageSalesVelocity float64                        `json:"average_sales_velocity"`
	ByStatus             map[inventoryEntity.Status]int `json:"by_status"`
}

// Aggregate folds the complete set of records into fleet metrics. Callers pass
// every record; a partial page would silently skew the totals. Status is derived
// from quantity and threshold, not read from the record. Each record contributes
// its SalesVelocity (zero without history) to the average.
func Aggregate(records []inventoryEntity.StockRecord) (*Metrics, error) {
	if len(records) == 0 {
		return nil, &apperror.EmptyInputError{Op: "aggregate"}
	}
	m := &Metrics{
		TotalRecords: len(records),
		TotalValue:   decimal.Zero,
		ByStatus:     make(map[inventoryEntity.Status]int, len(inventoryEntity.Statuses)),
	}
	var velocitySum float64
	for i := range records {
		r := &records[i]
		m.TotalUnits += r.QuantityOnHand
		m.TotalValue = m.TotalValue.Add(r.StockValue())
		status := Classify(r.QuantityOnHand, r.MinimumThreshold)
		m.ByStatus[status]++
		switch status {
		case inventoryEntity.StatusReplenish:
			m.CountReplenish++
		case inventoryEntity.StatusOutOfStock:
			m.CountOutOfStock++
		}
		velocitySum += r.SalesVelocity
	}
	m.AverageSalesVelocity = velocitySum / float64(len(records))
	return m, nil
}
