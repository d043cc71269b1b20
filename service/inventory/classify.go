package inventory

import (
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

// Band multipliers over the minimum threshold, in tenths: NEGOTIATING ends below
// 1.2 x minimum and IN_STOCK ends at 1.5 x minimum inclusive.
const (
	negotiatingCeilTenths = 12
	inStockCeilTenths     = 15
)

// MaxQuantity bounds quantity on hand and minimum threshold so the scaled
// comparisons in Classify stay within int64.
const MaxQuantity int64 = 1_000_000_000_000_000

// Classify maps quantity on hand and minimum threshold to a supply status.
// Both arguments must be in [0, MaxQuantity]. The comparisons are done in tenths so the
// 1.2 and 1.5 boundaries are exact. A zero minimum sends any positive quantity
// straight to OVERSTOCKED.
func Classify(quantityOnHand, minimumThreshold int64) inventoryEntity.Status {
	q10 := quantityOnHand * 10
	switch {
	case quantityOnHand == 0:
		return inventoryEntity.StatusOutOfStock
	case quantityOnHand < minimumThreshold:
		return inventoryEntity.StatusReplenish
	case q10 < minimumThreshold*negotiatingCeilTenths:
		return inventoryEntity.StatusNegotiating
	case q10 <= minimumThreshold*inStockCeilTenths:
		return inventoryEntity.StatusInStock
	default:
		return inventoryEntity.StatusOverstocked
	}
}

// reclassify overwrites the stored status with the derived one.
func reclassify(rec *inventoryEntity.StockRecord) {
	rec.Status = Classify(rec.QuantityOnHand, rec.MinimumThreshold)
}
