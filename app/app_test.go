package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketstock.GO/config"
	"marketstock.GO/core/cache"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	"marketstock.GO/service/inventory"
	"marketstock.GO/service/sales"
)

func testApp(t *testing.T) *App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewInMemory(&config.Config{
		AppName:          "test",
		AffectInventory:  true,
		ReconcileWorkers: 2,
		MetricsCacheTTL:  time.Minute,
	}, log)
}

func TestMetricsCacheDroppedOnMutation(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	_, err := a.Mutator.Register(ctx, inventoryEntity.StockRecord{SKU: "A1", QuantityOnHand: 10, MinimumThreshold: 5})
	require.NoError(t, err)

	m, err := a.Metrics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, m.TotalUnits)
	_, cached := a.Cache.Get(metricsCacheKey)
	assert.True(t, cached)

	_, err = a.Mutator.ApplyDelta(ctx, "A1", -4)
	require.NoError(t, err)
	_, cached = a.Cache.Get(metricsCacheKey)
	assert.False(t, cached)

	m, err = a.Metrics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, m.TotalUnits)
}

// racingStore commits a mutation after List has taken its snapshot.
type racingStore struct {
	inventory.Store
	afterList func()
}

func (s *racingStore) List(ctx context.Context) ([]inventoryEntity.StockRecord, error) {
	recs, err := s.Store.List(ctx)
	if s.afterList != nil {
		fn := s.afterList
		s.afterList = nil
		fn()
	}
	return recs, err
}

func TestMetricsNotCachedAcrossConcurrentMutation(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := &racingStore{Store: inventory.NewMemoryStore()}
	a := build(store, sales.NewMemoryLedger(), nil, cache.NewCache(), &config.Config{
		AppName:         "test",
		MetricsCacheTTL: time.Minute,
	}, log)
	ctx := context.Background()
	_, err := a.Mutator.Register(ctx, inventoryEntity.StockRecord{SKU: "A1", QuantityOnHand: 10, MinimumThreshold: 5})
	require.NoError(t, err)

	store.afterList = func() {
		_, err := a.Mutator.ApplyDelta(ctx, "A1", -4)
		require.NoError(t, err)
	}
	m, err := a.Metrics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, m.TotalUnits)

	_, cached := a.Cache.Get(metricsCacheKey)
	assert.False(t, cached)

	m, err = a.Metrics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, m.TotalUnits)
}

func TestReconcileFeedsVelocity(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	_, err := a.Mutator.Register(ctx, inventoryEntity.StockRecord{SKU: "A1", QuantityOnHand: 30, MinimumThreshold: 5})
	require.NoError(t, err)

	report, err := a.Reconcile(ctx, []sales.RawSaleRow{
		{"order_id": "O1", "sku": "A1", "units": 3},
		{"order_id": "O2", "sku": "A1", "units": 3},
		{"order_id": "O3", "sku": "A1", "units": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted)

	rec, err := a.Stock.Get(ctx, "A1")
	require.NoError(t, err)
	assert.EqualValues(t, 21, rec.QuantityOnHand)

	snap, err := a.Stock.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.InDelta(t, 0.1, snap[0].SalesVelocity, 1e-9)
	assert.EqualValues(t, 9, snap[0].UnitsLast15Days)
	require.NotNil(t, snap[0].DaysOfCover)
	assert.EqualValues(t, 210, *snap[0].DaysOfCover)
}
