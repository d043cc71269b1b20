package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	salesEntity "marketstock.GO/model/entity/sales"
)

// Summary is the rolled-up view of a set of ledger rows.
type Summary struct {
	Orders          int             `json:"orders"`
	Units           int64           `json:"units"`
	GrossSaleValue  decimal.Decimal `json:"gross_sale_value"`
	PurchaseCost    decimal.Decimal `json:"purchase_cost"`
	Fees            decimal.Decimal `json:"fees"`
	Shipping        decimal.Decimal `json:"shipping"`
	Discounts       decimal.Decimal `json:"discounts"`
	ShippingRevenue decimal.Decimal `json:"shipping_revenue"`
	Tax             decimal.Decimal `json:"tax"`
	NetValue        decimal.Decimal `json:"net_value"`
	Profit          decimal.Decimal `json:"profit"`
	// TicketAverage is net value per order.
	TicketAverage decimal.Decimal `json:"ticket_average"`
	// Averages only count rows where the percentage is positive.
	AverageMarkup decimal.Decimal `json:"average_markup"`
	AverageMargin decimal.Decimal `json:"average_margin"`
}

// Summarize totals the rows. An empty slice gives a zero summary.
func Summarize(records []salesEntity.SaleRecord) Summary {
	s := Summary{}
	var markupSum, marginSum decimal.Decimal
	var markupN, marginN int64
	for _, r := range records {
		s.Orders++
		s.Units += r.Units
		s.GrossSaleValue = s.GrossSaleValue.Add(r.GrossSaleValue)
		s.PurchaseCost = s.PurchaseCost.Add(r.PurchaseCost)
		s.Fees = s.Fees.Add(r.Fees)
		s.Shipping = s.Shipping.Add(r.Shipping)
		s.Discounts = s.Discounts.Add(r.Discounts)
		s.ShippingRevenue = s.ShippingRevenue.Add(r.ShippingRevenue)
		s.Tax = s.Tax.Add(r.Tax)
		s.NetValue = s.NetValue.Add(r.NetValue)
		s.Profit = s.Profit.Add(r.Profit)
		if r.MarkupPercent.IsPositive() {
			markupSum = markupSum.Add(r.MarkupPercent)
			markupN++
		}
		if r.MarginPercent.IsPositive() {
			marginSum = marginSum.Add(r.MarginPercent)
			marginN++
		}
	}
	if s.Orders > 0 {
		s.TicketAverage = s.NetValue.Div(decimal.NewFromInt(int64(s.Orders))).Round(2)
	}
	if markupN > 0 {
		s.AverageMarkup = markupSum.Div(decimal.NewFromInt(markupN)).Round(2)
	}
	if marginN > 0 {
		s.AverageMargin = marginSum.Div(decimal.NewFromInt(marginN)).Round(2)
	}
	return s
}

type SKUSummary struct {
	SKU string `json:"sku"`
	Summary
}

// GroupBySKU summarizes per SKU, ordered by units sold descending then SKU.
func GroupBySKU(records []salesEntity.SaleRecord) []SKUSummary {
	bySKU := make(map[string][]salesEntity.SaleRecord)
	for _, r := range records {
		bySKU[r.SKU] = append(bySKU[r.SKU], r)
	}
	out := make([]SKUSummary, 0, len(bySKU))
	for sku, rows := range bySKU {
		out = append(out, SKUSummary{SKU: sku, Summary: Summarize(rows)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
