package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the supply classification of a StockRecord. It is stored for
// filtering but always recomputed from QuantityOnHand and MinimumThreshold.
type Status string

const (
	StatusOutOfStock  Status = "OUT_OF_STOCK"
	StatusReplenish   Status = "REPLENISH"
	StatusNegotiating Status = "NEGOTIATING"
	StatusInStock     Status = "IN_STOCK"
	StatusOverstocked Status = "OVERSTOCKED"
)

// Statuses lists the vocabulary in band order.
var Statuses = []Status{StatusOutOfStock, StatusReplenish, StatusNegotiating, StatusInStock, StatusOverstocked}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StockRecord represents the stock_record table, one row per SKU.
type StockRecord struct {
	ID               uint            `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SKU              string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Description      string          `gorm:"column:description;type:varchar(255);not null;default:''" json:"description"`
	QuantityOnHand   int64           `gorm:"column:quantity_on_hand;not null;default:0" json:"quantity_on_hand"`
	MinimumThreshold int64           `gorm:"column:minimum_threshold;not null;default:0" json:"minimum_threshold"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:decimal(12,2);not null;default:0" json:"unit_cost"`
	NetUnitValue     decimal.Decimal `gorm:"column:net_unit_value;type:decimal(12,2);not null;default:0" json:"net_unit_value"`
	TotalUnitsSold   int64           `gorm:"column:total_units_sold;not null;default:0" json:"total_units_sold"`
	LastSaleDate     *time.Time      `gorm:"column:last_sale_date" json:"last_sale_date,omitempty"`
	Status           Status          `gorm:"column:status;type:varchar(32);not null;default:'OUT_OF_STOCK';index" json:"status"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`

	// Read model, filled from the sales ledger; never persisted.
	SalesVelocity   float64 `gorm:"-" json:"sales_velocity"`
	UnitsLast15Days int64   `gorm:"-" json:"units_last_15_days"`
	DaysOfCover     *int64  `gorm:"-" json:"days_of_cover,omitempty"`
}

func (StockRecord) TableName() string {
	return "stock_record"
}

// StockValue is QuantityOnHand x NetUnitValue.
func (r *StockRecord) StockValue() decimal.Decimal {
	return r.NetUnitValue.Mul(decimal.NewFromInt(r.QuantityOnHand))
}
