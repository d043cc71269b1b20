package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	salesEntity "marketstock.GO/model/entity/sales"
)

const (
	DefaultMarketplace = "Mercado Livre"
	DefaultStatus      = "completed"
)

var hundred = decimal.NewFromInt(100)

// nonSaleStatuses never move inventory. Anything else, including unknown
// marketplace wording, counts as a completed sale.
var nonSaleStatuses = map[string]bool{
	"cancelled": true, "canceled": true, "cancelado": true, "cancelada": true,
	"refunded": true, "reembolsado": true, "reembolsada": true,
	"returned": true, "devolvido": true, "devolvida": true, "devolução": true,
	"in dispute": true, "em disputa": true, "disputa": true,
}

// NonSaleStatuses returns the status values excluded from inventory effect and velocity.
func NonSaleStatuses() []string {
	out := make([]string, 0, len(nonSaleStatuses))
	for s := range nonSaleStatuses {
		out = append(out, s)
	}
	return out
}

// CountsAsSale reports whether a ledger status represents a completed sale.
func CountsAsSale(status string) bool {
	return !nonSaleStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// Finance holds the derived per-row figures.
type Finance struct {
	NetValue      decimal.Decimal
	Profit        decimal.Decimal
	MarkupPercent decimal.Decimal
	MarginPercent decimal.Decimal
}

// Derive computes net value, profit, markup and margin. Percentages are zero
// when their base is zero and are rounded to two places.
func Derive(gross, purchaseCost, fees, shipping, discounts, shippingRevenue, tax decimal.Decimal) Finance {
	net := gross.Sub(fees).Sub(shipping).Sub(discounts).Add(shippingRevenue).Sub(tax)
	profit := net.Sub(purchaseCost)
	f := Finance{
		NetValue:      net,
		Profit:        profit,
		MarkupPercent: decimal.Zero,
		MarginPercent: decimal.Zero,
	}
	if purchaseCost.IsPositive() {
		f.MarkupPercent = profit.Div(purchaseCost).Mul(hundred).Round(2)
	}
	if gross.IsPositive() {
		f.MarginPercent = profit.Div(gross).Mul(hundred).Round(2)
	}
	return f
}

// Normalize applies defaults to a decoded row and returns the ledger record with
// derived fields filled in. A missing order date falls back to now.
func Normalize(in SaleInput, now time.Time) salesEntity.SaleRecord {
	rec := salesEntity.SaleRecord{
		OrderID:         in.OrderID,
		Marketplace:     strings.TrimSpace(in.Marketplace),
		SKU:             in.SKU,
		OrderDate:       in.OrderDate,
		Units:           in.Units,
		Status:          strings.ToLower(strings.TrimSpace(in.Status)),
		GrossSaleValue:  in.GrossSaleValue,
		PurchaseCost:    in.PurchaseCost,
		Fees:            in.Fees,
		Shipping:        in.Shipping,
		Discounts:       in.Discounts,
		ShippingRevenue: in.ShippingRevenue,
		Tax:             in.Tax,
	}
	if rec.Marketplace == "" {
		rec.Marketplace = DefaultMarketplace
	}
	if rec.Status == "" {
		rec.Status = DefaultStatus
	}
	if rec.OrderDate.IsZero() {
		rec.OrderDate = now
	}
	f := Derive(rec.GrossSaleValue, rec.PurchaseCost, rec.Fees, rec.Shipping, rec.Discounts, rec.ShippingRevenue, rec.Tax)
	rec.NetValue = f.NetValue
	rec.Profit = f.Profit
	rec.MarkupPercent = f.MarkupPercent
	rec.MarginPercent = f.MarginPercent
	return rec
}

// sameContent compares the ingestible fields of two ledger rows.
func sameContent(a, b *salesEntity.SaleRecord) bool {
	return a.OrderID == b.OrderID &&
		a.Marketplace == b.Marketplace &&
		a.SKU == b.SKU &&
		a.OrderDate.Equal(b.OrderDate) &&
		a.Units == b.Units &&
		a.Status == b.Status &&
		a.GrossSaleValue.Equal(b.GrossSaleValue) &&
		a.PurchaseCost.Equal(b.PurchaseCost) &&
		a.Fees.Equal(b.Fees) &&
		a.Shipping.Equal(b.Shipping) &&
		a.Discounts.Equal(b.Discounts) &&
		a.ShippingRevenue.Equal(b.ShippingRevenue) &&
		a.Tax.Equal(b.Tax)
}
