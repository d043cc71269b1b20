package stock

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"marketstock.GO/app"
	"marketstock.GO/config"
	inventoryEntity "marketstock.GO/model/entity/inventory"
)

func stockTestServer(t *testing.T) (*echo.Echo, *app.App) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	a := app.NewInMemory(&config.Config{AppName: "test", AffectInventory: true, ReconcileWorkers: 2}, log)
	e := echo.New()
	RegisterStockRoutes(e.Group("/api"), a)
	return e, a
}

func doRequest(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestStock_RegisterAndGet(t *testing.T) {
	e, _ := stockTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{
		"sku": "A1", "quantity_on_hand": 100, "minimum_threshold": 50, "net_unit_value": "12.50",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/api/stock/A1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got inventoryEntity.StockRecord
	decode(t, rec, &got)
	if got.Status != inventoryEntity.StatusOverstocked {
		t.Errorf("status = %s, want OVERSTOCKED", got.Status)
	}

	rec = doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "A1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", rec.Code)
	}
	rec = doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "B2", "quantity_on_hand": -1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative register status = %d, want 400", rec.Code)
	}
	rec = doRequest(e, http.MethodGet, "/api/stock/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
}

func TestStock_DeltaAndSet(t *testing.T) {
	e, _ := stockTestServer(t)
	doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "A1", "quantity_on_hand": 10, "minimum_threshold": 5})

	rec := doRequest(e, http.MethodPost, "/api/stock/A1/delta", map[string]interface{}{"delta": -11})
	if rec.Code != http.StatusConflict {
		t.Fatalf("over-draw status = %d, want 409", rec.Code)
	}

	rec = doRequest(e, http.MethodPost, "/api/stock/A1/delta", map[string]interface{}{"delta": -10})
	if rec.Code != http.StatusOK {
		t.Fatalf("delta status = %d body=%s", rec.Code, rec.Body.String())
	}
	var got inventoryEntity.StockRecord
	decode(t, rec, &got)
	if got.QuantityOnHand != 0 || got.Status != inventoryEntity.StatusOutOfStock {
		t.Errorf("after delta = %d %s", got.QuantityOnHand, got.Status)
	}

	rec = doRequest(e, http.MethodPut, "/api/stock/A1", map[string]interface{}{"quantity_on_hand": 5, "description": "Widget"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d body=%s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &got)
	if got.QuantityOnHand != 5 || got.Description != "Widget" || got.Status != inventoryEntity.StatusNegotiating {
		t.Errorf("after set = %+v", got)
	}

	rec = doRequest(e, http.MethodPut, "/api/stock/A1", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty set status = %d, want 400", rec.Code)
	}
}

func TestStock_MetricsAndCritical(t *testing.T) {
	e, _ := stockTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/stock/metrics", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty metrics status = %d, want 422", rec.Code)
	}

	doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "A1", "quantity_on_hand": 0, "minimum_threshold": 5, "net_unit_value": "2"})
	doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "B2", "quantity_on_hand": 3, "minimum_threshold": 5, "net_unit_value": "2"})
	doRequest(e, http.MethodPost, "/api/stock", map[string]interface{}{"sku": "C3", "quantity_on_hand": 100, "minimum_threshold": 5, "net_unit_value": "2"})

	rec = doRequest(e, http.MethodGet, "/api/stock/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	var m struct {
		TotalRecords    int    `json:"total_records"`
		TotalUnits      int64  `json:"total_units"`
		TotalValue      string `json:"total_value"`
		CountReplenish  int    `json:"count_replenish"`
		CountOutOfStock int    `json:"count_out_of_stock"`
	}
	decode(t, rec, &m)
	if m.TotalRecords != 3 || m.TotalUnits != 103 || m.TotalValue != "206" || m.CountReplenish != 1 || m.CountOutOfStock != 1 {
		t.Errorf("metrics = %+v", m)
	}

	rec = doRequest(e, http.MethodGet, "/api/stock/critical", nil)
	var crit struct {
		Count int `json:"count"`
	}
	decode(t, rec, &crit)
	if crit.Count != 2 {
		t.Errorf("critical count = %d, want 2", crit.Count)
	}

	rec = doRequest(e, http.MethodGet, "/api/stock?status=overstocked", nil)
	decode(t, rec, &crit)
	if crit.Count != 1 {
		t.Errorf("overstocked count = %d, want 1", crit.Count)
	}
	rec = doRequest(e, http.MethodGet, "/api/stock?status=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus status filter = %d, want 400", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/stock/quantities?skus=A1,C3,ZZ", nil)
	var q map[string]int64
	decode(t, rec, &q)
	if len(q) != 2 || q["C3"] != 100 {
		t.Errorf("quantities = %v", q)
	}
}
