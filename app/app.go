// Package app wires stores, locks and services for the server, the CLI and
// cron jobs.
package app

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketstock.GO/config"
	"marketstock.GO/core/cache"
	"marketstock.GO/core/lock"
	inventoryRepo "marketstock.GO/model/repository/inventory"
	salesRepo "marketstock.GO/model/repository/sales"
	"marketstock.GO/service/inventory"
	"marketstock.GO/service/sales"
)

// TagStockMetrics tags cached fleet metrics; any stock or ledger change drops them.
const TagStockMetrics = "stock_metrics"

const metricsCacheKey = "stock:metrics"

type App struct {
	Config     *config.Config
	Log        logrus.FieldLogger
	Cache      *cache.Cache
	Stock      *inventory.Service
	Mutator    *inventory.Mutator
	Sales      *sales.Service
	Reconciler *sales.Reconciler

	// metricsGen counts invalidations; a snapshot computed across one is not cached.
	metricsGen atomic.Uint64
}

// New wires the gorm-backed stores. When rdb is non-nil SKU and order locks are
// shared through Redis.
func New(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log logrus.FieldLogger) *App {
	return build(inventoryRepo.NewInventoryRepository(db), salesRepo.NewSalesRepository(db), rdb, cache.GetInstance(), cfg, log)
}

// NewInMemory wires in-process stores, for dry runs and tests.
func NewInMemory(cfg *config.Config, log logrus.FieldLogger) *App {
	return build(inventory.NewMemoryStore(), sales.NewMemoryLedger(), nil, cache.NewCache(), cfg, log)
}

func build(store inventory.Store, ledger sales.Ledger, rdb *redis.Client, c *cache.Cache, cfg *config.Config, log logrus.FieldLogger) *App {
	var skuLocks, orderLocks lock.Locker
	if rdb != nil {
		skuLocks = lock.NewRedisLocker(rdb, cfg.AppName+":sku")
		orderLocks = lock.NewRedisLocker(rdb, cfg.AppName+":order")
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Cache:  c,
		Stock:  inventory.NewService(store, ledger, cfg.VelocityWindowDays),
		Sales:  sales.NewService(ledger),
	}
	a.Mutator = inventory.NewMutator(store, skuLocks, log.WithField("module", "inventory"))
	a.Mutator.OnChange(func(string) { a.invalidateMetrics() })

	a.Reconciler = sales.NewReconciler(ledger, a.Mutator, sales.Options{
		AffectInventory: cfg.AffectInventory,
		Workers:         cfg.ReconcileWorkers,
	}, log.WithField("module", "sales"))
	a.Reconciler.UseOrderLocker(orderLocks)
	return a
}

// Reconcile ingests a batch and drops cached metrics, since velocity depends on
// the ledger even when no stock moved.
func (a *App) Reconcile(ctx context.Context, batch []sales.RawSaleRow) (*sales.Report, error) {
	report, err := a.Reconciler.Reconcile(ctx, batch)
	a.invalidateMetrics()
	return report, err
}

func (a *App) invalidateMetrics() {
	a.metricsGen.Add(1)
	a.Cache.DeleteByTag(TagStockMetrics)
}

// Metrics returns fleet metrics, cached for Config.MetricsCacheTTL.
func (a *App) Metrics(ctx context.Context) (*inventory.Metrics, error) {
	if v, ok := a.Cache.Get(metricsCacheKey); ok {
		return v.(*inventory.Metrics), nil
	}
	gen := a.metricsGen.Load()
	m, err := a.Stock.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	if a.Config.MetricsCacheTTL > 0 && a.metricsGen.Load() == gen {
		a.Cache.Set(metricsCacheKey, m, a.Config.MetricsCacheTTL, []string{TagStockMetrics})
	}
	return m, nil
}
