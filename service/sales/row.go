package sales

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"marketstock.GO/core/apperror"
)

// RawSaleRow is one staged sale as field name to value, straight from a
// spreadsheet row or an API payload.
type RawSaleRow map[string]any

// SaleInput is a decoded row before defaults and derivation.
// Derived columns present in the source (net value, profit, markup, margin) are
// ignored; they are always recomputed.
type SaleInput struct {
	OrderID         string          `mapstructure:"order_id" validate:"required"`
	Marketplace     string          `mapstructure:"marketplace"`
	SKU             string          `mapstructure:"sku" validate:"required"`
	OrderDate       time.Time       `mapstructure:"order_date"`
	Units           int64           `mapstructure:"units" validate:"gt=0"`
	Status          string          `mapstructure:"status"`
	GrossSaleValue  decimal.Decimal `mapstructure:"gross_sale_value"`
	PurchaseCost    decimal.Decimal `mapstructure:"purchase_cost"`
	Fees            decimal.Decimal `mapstructure:"fees"`
	Shipping        decimal.Decimal `mapstructure:"shipping"`
	Discounts       decimal.Decimal `mapstructure:"discounts"`
	ShippingRevenue decimal.Decimal `mapstructure:"shipping_revenue"`
	Tax             decimal.Decimal `mapstructure:"tax"`
}

// fieldAliases maps a folded header (lowercase, letters and digits only) to the
// canonical key. Portuguese headers come from the marketplace sheets.
var fieldAliases = map[string]string{
	"orderid": "order_id", "order": "order_id", "pedido": "order_id", "pedidos": "order_id",
	"marketplace": "marketplace", "canal": "marketplace",
	"sku":       "sku",
	"orderdate": "order_date", "date": "order_date", "data": "order_date", "datapedido": "order_date",
	"units": "units", "quantity": "units", "qty": "units", "unidades": "units", "quantidade": "units",
	"status":         "status",
	"grosssalevalue": "gross_sale_value", "gross": "gross_sale_value", "valorvendido": "gross_sale_value", "valorpedidos": "gross_sale_value",
	"purchasecost": "purchase_cost", "cost": "purchase_cost", "valorcomprado": "purchase_cost",
	"fees": "fees", "taxas": "fees",
	"shipping": "shipping", "frete": "shipping",
	"discounts": "discounts", "discount": "discounts", "descontos": "discounts", "desconto": "discounts",
	"shippingrevenue": "shipping_revenue", "receitapenvio": "shipping_revenue", "receitaenvio": "shipping_revenue",
	"tax": "tax", "imposto": "tax",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

func foldKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonical renames known headers and drops blank values and unknown columns.
func canonical(raw RawSaleRow) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		key, ok := fieldAliases[foldKey(k)]
		if !ok || isBlank(v) {
			continue
		}
		if s, isStr := v.(string); isStr {
			v = strings.TrimSpace(s)
		}
		out[key] = v
	}
	return out
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// IsBlankRow reports whether every value in the row is empty.
func IsBlankRow(raw RawSaleRow) bool {
	for _, v := range raw {
		if !isBlank(v) {
			return false
		}
	}
	return true
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"02/01/06 15:04:05",
	"02/01/06",
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// wholeNumber accepts numeric cells such as 3 or 3.0 and rejects fractions.
func wholeNumber(data any) (any, error) {
	var f float64
	switch v := data.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", string(v))
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("%v is not a whole number", data)
	}
	return int64(f), nil
}

func decodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case decimalType:
		switch v := data.(type) {
		case string:
			return parseMoney(v)
		case json.Number:
			return decimal.NewFromString(string(v))
		case float64:
			return decimal.NewFromFloat(v), nil
		case float32:
			return decimal.NewFromFloat32(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		}
	case timeType:
		if s, ok := data.(string); ok {
			return parseDate(s)
		}
	}
	switch to.Kind() {
	case reflect.String:
		if n, ok := data.(json.Number); ok {
			return string(n), nil
		}
	case reflect.Int, reflect.Int64:
		return wholeNumber(data)
	}
	return data, nil
}

// DecodeRow maps a raw row onto a SaleInput and validates required fields and
// sign rules. Every failure is an apperror.ValidationError.
func DecodeRow(raw RawSaleRow) (SaleInput, error) {
	var in SaleInput
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook,
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return in, err
	}
	if err := dec.Decode(canonical(raw)); err != nil {
		return in, apperror.Validation("", "%v", err)
	}
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.SKU = strings.TrimSpace(in.SKU)

	if err := validate.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return in, apperror.Validation(fe.Field(), "is required")
			}
			return in, apperror.Validation(fe.Field(), "must be %s %s, got %v", fe.Tag(), fe.Param(), fe.Value())
		}
		return in, apperror.Validation("", "%v", err)
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"gross_sale_value", in.GrossSaleValue},
		{"purchase_cost", in.PurchaseCost},
		{"fees", in.Fees},
		{"shipping", in.Shipping},
		{"discounts", in.Discounts},
		{"shipping_revenue", in.ShippingRevenue},
		{"tax", in.Tax},
	} {
		if f.v.IsNegative() {
			return in, apperror.Validation(f.name, "must be >= 0, got %s", f.v)
		}
	}
	return in, nil
}
