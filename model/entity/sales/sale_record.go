package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord represents the sale_record table, one row per marketplace order line.
// NetValue, Profit, MarkupPercent and MarginPercent are derived on ingestion.
type SaleRecord struct {
	ID              uint            `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	OrderID         string          `gorm:"column:order_id;type:varchar(64);not null;uniqueIndex" json:"order_id"`
	Marketplace     string          `gorm:"column:marketplace;type:varchar(64);not null" json:"marketplace"`
	SKU             string          `gorm:"column:sku;type:varchar(64);not null;index" json:"sku"`
	OrderDate       time.Time       `gorm:"column:order_date;not null;index" json:"order_date"`
	Units           int64           `gorm:"column:units;not null" json:"units"`
	Status          string          `gorm:"column:status;type:varchar(32);not null" json:"status"`
	GrossSaleValue  decimal.Decimal `gorm:"column:gross_sale_value;type:decimal(12,2);not null;default:0" json:"gross_sale_value"`
	PurchaseCost    decimal.Decimal `gorm:"column:purchase_cost;type:decimal(12,2);not null;default:0" json:"purchase_cost"`
	Fees            decimal.Decimal `gorm:"column:fees;type:decimal(12,2);not null;default:0" json:"fees"`
	Shipping        decimal.Decimal `gorm:"column:shipping;type:decimal(12,2);not null;default:0" json:"shipping"`
	Discounts       decimal.Decimal `gorm:"column:discounts;type:decimal(12,2);not null;default:0" json:"discounts"`
	ShippingRevenue decimal.Decimal `gorm:"column:shipping_revenue;type:decimal(12,2);not null;default:0" json:"shipping_revenue"`
	Tax             decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null;default:0" json:"tax"`
	NetValue        decimal.Decimal `gorm:"column:net_value;type:decimal(12,2);not null;default:0" json:"net_value"`
	Profit          decimal.Decimal `gorm:"column:profit;type:decimal(12,2);not null;default:0" json:"profit"`
	MarkupPercent   decimal.Decimal `gorm:"column:markup_percent;type:decimal(10,2);not null;default:0" json:"markup_percent"`
	MarginPercent   decimal.Decimal `gorm:"column:margin_percent;type:decimal(10,2);not null;default:0" json:"margin_percent"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (SaleRecord) TableName() string {
	return "sale_record"
}
