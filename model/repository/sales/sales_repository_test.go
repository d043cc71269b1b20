package sales

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketstock.GO/core/apperror"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	salesEntity "marketstock.GO/model/entity/sales"
	inventoryRepo "marketstock.GO/model/repository/inventory"
	"marketstock.GO/service/inventory"
	salesService "marketstock.GO/service/sales"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("sales_repo_test_%d.db", time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&salesEntity.SaleRecord{}, &inventoryEntity.StockRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sale(orderID, sku, status string, units int64, at time.Time) *salesEntity.SaleRecord {
	return &salesEntity.SaleRecord{
		OrderID: orderID, SKU: sku, Status: status, Units: units, OrderDate: at,
		Marketplace: salesService.DefaultMarketplace, GrossSaleValue: decimal.NewFromInt(100),
	}
}

func TestSalesRepository_InsertFindConflict(t *testing.T) {
	repo := NewSalesRepository(testDB(t))
	ctx := context.Background()
	now := time.Now()

	if err := repo.Insert(ctx, sale("O1", "A1", "completed", 2, now)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := repo.Insert(ctx, sale("O1", "A1", "completed", 9, now))
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Insert err = %v, want conflict", err)
	}

	got, err := repo.Find(ctx, "O1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Units != 2 {
		t.Errorf("Units = %d, conflicting insert must not overwrite", got.Units)
	}
	if _, err := repo.Find(ctx, "nope"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Find missing err = %v", err)
	}
}

func TestSalesRepository_Update(t *testing.T) {
	repo := NewSalesRepository(testDB(t))
	ctx := context.Background()
	if err := repo.Insert(ctx, sale("O1", "A1", "completed", 2, time.Now())); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	upd := sale("O1", "A1", "completed", 2, time.Now())
	upd.GrossSaleValue = decimal.NewFromInt(120)
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.Find(ctx, "O1")
	if !got.GrossSaleValue.Equal(decimal.NewFromInt(120)) {
		t.Errorf("GrossSaleValue = %s, want 120", got.GrossSaleValue)
	}
	var n int64
	repo.db.Model(&salesEntity.SaleRecord{}).Count(&n)
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	if err := repo.Update(ctx, sale("missing", "A1", "completed", 1, time.Now())); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update missing err = %v", err)
	}
}

func TestSalesRepository_ListAndStats(t *testing.T) {
	repo := NewSalesRepository(testDB(t))
	ctx := context.Background()
	now := time.Now()
	for _, s := range []*salesEntity.SaleRecord{
		sale("O1", "A1", "completed", 2, now.AddDate(0, 0, -1)),
		sale("O2", "A1", "completed", 3, now.AddDate(0, 0, -20)),
		sale("O3", "A1", "cancelled", 5, now.AddDate(0, 0, -2)),
		sale("O4", "B2", "completed", 1, now.AddDate(0, 0, -40)),
	} {
		if err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("Insert %s: %v", s.OrderID, err)
		}
	}

	recs, err := repo.List(ctx, salesService.Filter{SKU: "A1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 || recs[0].OrderID != "O1" {
		t.Errorf("List = %d rows, first %q", len(recs), recs[0].OrderID)
	}

	recs, _ = repo.List(ctx, salesService.Filter{Status: "cancelled"})
	if len(recs) != 1 {
		t.Errorf("status filter rows = %d, want 1", len(recs))
	}

	stats, err := repo.StatsSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("StatsSince: %v", err)
	}
	if got := stats["A1"]; got.Orders != 2 || got.Units != 5 {
		t.Errorf("A1 stats = %+v, want 2 orders / 5 units", got)
	}
	if _, ok := stats["B2"]; ok {
		t.Error("B2 sold outside the window")
	}
}

// End to end over SQLite: reconciling the same batch twice moves stock once.
func TestReconcileOverSQLite(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	stock := inventoryRepo.NewInventoryRepository(db)
	if err := stock.Create(ctx, &inventoryEntity.StockRecord{SKU: "A1", QuantityOnHand: 100, MinimumThreshold: 50}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	rc := salesService.NewReconciler(NewSalesRepository(db), inventory.NewMutator(stock, nil, log),
		salesService.Options{AffectInventory: true, Workers: 2}, log)

	batch := []salesService.RawSaleRow{{
		"order_id": "O1", "sku": "A1", "units": "2",
		"gross_sale_value": "100", "purchase_cost": "40", "fees": "10", "order_date": "2024-03-15",
	}}
	for i := 0; i < 2; i++ {
		if _, err := rc.Reconcile(ctx, batch); err != nil {
			t.Fatalf("Reconcile #%d: %v", i+1, err)
		}
	}

	got, _ := stock.Get(ctx, "A1")
	if got.QuantityOnHand != 98 {
		t.Errorf("QuantityOnHand = %d, want 98", got.QuantityOnHand)
	}
	rec, err := NewSalesRepository(db).Find(ctx, "O1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !rec.MarkupPercent.Equal(decimal.NewFromInt(125)) || !rec.NetValue.Equal(decimal.NewFromInt(90)) {
		t.Errorf("derived = markup %s net %s", rec.MarkupPercent, rec.NetValue)
	}
}
