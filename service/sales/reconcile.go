package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketstock.GO/core/apperror"
	"marketstock.GO/core/lock"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	salesEntity "marketstock.GO/model/entity/sales"
)

// StockMutator is the inventory side the reconciler drives.
type StockMutator interface {
	RecordSale(ctx context.Context, sku string, units int64, soldAt time.Time) (*inventoryEntity.StockRecord, error)
	RevertSale(ctx context.Context, sku string, units int64) (*inventoryEntity.StockRecord, error)
}

type Options struct {
	// AffectInventory applies -units to the SKU for new completed sales.
	AffectInventory bool
	Workers         int
}

type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// RowResult is the tagged result of one input row.
type RowResult struct {
	Row     int     `json:"row"`
	OrderID string  `json:"order_id,omitempty"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	// InventoryApplied is set when the row moved stock.
	InventoryApplied bool   `json:"inventory_applied,omitempty"`
	Warning          string `json:"warning,omitempty"`
}

type RowFailure struct {
	Row     int    `json:"row"`
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Report folds the row results of one batch.
type Report struct {
	TotalRows        int           `json:"total_rows"`
	Inserted         int           `json:"inserted"`
	Updated          int           `json:"updated"`
	Skipped          int           `json:"skipped"`
	Failed           []RowFailure  `json:"failed"`
	Warnings         []string      `json:"warnings,omitempty"`
	InventoryApplied int           `json:"inventory_applied"`
	Rows             []RowResult   `json:"rows"`
	Duration         time.Duration `json:"duration"`
}

func (r *Report) add(res RowResult) {
	r.Rows = append(r.Rows, res)
	switch res.Outcome {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed = append(r.Failed, RowFailure{Row: res.Row, OrderID: res.OrderID, Reason: res.Reason})
	}
	if res.InventoryApplied {
		r.InventoryApplied++
	}
	if res.Warning != "" {
		r.Warnings = append(r.Warnings, res.Warning)
	}
}

// Reconciler ingests sale batches into the ledger and the stock counts.
type Reconciler struct {
	ledger Ledger
	stock  StockMutator
	orders lock.Locker
	opts   Options
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewReconciler(ledger Ledger, stock StockMutator, opts Options, log logrus.FieldLogger) *Reconciler {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Reconciler{
		ledger: ledger,
		stock:  stock,
		orders: lock.NewKeyedMutex(),
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// UseOrderLocker swaps the per-order lock, e.g. for a Redis-backed one shared
// between an API process and a cron worker.
func (rc *Reconciler) UseOrderLocker(l lock.Locker) {
	if l != nil {
		rc.orders = l
	}
}

// Reconcile processes every row of the batch. Row problems land in the report;
// an error is returned only when the store fails underneath the batch, in which
// case rows already committed stay committed.
//
// Rows sharing an order id run in input order on one worker; distinct order ids
// run concurrently up to Options.Workers.
func (rc *Reconciler) Reconcile(ctx context.Context, batch []RawSaleRow) (*Report, error) {
	start := rc.now()
	results := make([]RowResult, len(batch))
	decoded := make([]*SaleInput, len(batch))

	// group row indexes by order id; undecodable rows are settled here
	groups := make(map[string][]int)
	var order []string
	for i, raw := range batch {
		results[i].Row = i + 1
		if IsBlankRow(raw) {
			results[i].Outcome = OutcomeSkipped
			results[i].Reason = "blank row"
			continue
		}
		in, err := DecodeRow(raw)
		results[i].OrderID = in.OrderID
		if err != nil {
			results[i].Outcome = OutcomeFailed
			results[i].Reason = err.Error()
			continue
		}
		decoded[i] = &in
		if _, ok := groups[in.OrderID]; !ok {
			order = append(order, in.OrderID)
		}
		groups[in.OrderID] = append(groups[in.OrderID], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.opts.Workers)
	for _, orderID := range order {
		idxs := groups[orderID]
		g.Go(func() error {
			for _, i := range idxs {
				res, err := rc.reconcileRow(gctx, *decoded[i])
				if err != nil {
					return fmt.Errorf("row %d (order %s): %w", i+1, orderID, err)
				}
				res.Row = i + 1
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	report := &Report{TotalRows: len(batch), Failed: []RowFailure{}, Rows: make([]RowResult, 0, len(batch))}
	for _, res := range results {
		report.add(res)
	}
	report.Duration = rc.now().Sub(start)

	rc.log.WithFields(logrus.Fields{
		"total":    report.TotalRows,
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"skipped":  report.Skipped,
		"failed":   len(report.Failed),
		"applied":  report.InventoryApplied,
	}).Info("sales batch reconciled")
	return report, nil
}

// reconcileRow upserts one decoded row. Domain failures come back as a failed
// RowResult; a returned error is structural.
func (rc *Reconciler) reconcileRow(ctx context.Context, in SaleInput) (RowResult, error) {
	res := RowResult{OrderID: in.OrderID}
	rec := Normalize(in, rc.now())

	release, err := rc.orders.Lock(ctx, in.OrderID)
	if err != nil {
		return res, err
	}
	defer release()

	existing, err := rc.ledger.Find(ctx, in.OrderID)
	switch {
	case err == nil:
		return rc.correct(ctx, res, in, &rec, existing)
	case !errors.Is(err, apperror.ErrNotFound):
		return res, err
	}

	if rc.opts.AffectInventory && CountsAsSale(rec.Status) {
		_, err := rc.stock.RecordSale(ctx, rec.SKU, rec.Units, rec.OrderDate)
		switch {
		case err == nil:
			res.InventoryApplied = true
		case errors.Is(err, apperror.ErrNotFound):
			res.Warning = fmt.Sprintf("order %s: sku %s not in inventory, sale recorded without stock effect", rec.OrderID, rec.SKU)
			rc.log.WithFields(logrus.Fields{"order_id": rec.OrderID, "sku": rec.SKU}).Warn("unknown sku in sales batch")
		case apperror.IsDomain(err):
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			return res, nil
		default:
			return res, err
		}
	}

	if err := rc.ledger.Insert(ctx, &rec); err != nil {
		if res.InventoryApplied {
			if _, rerr := rc.stock.RevertSale(ctx, rec.SKU, rec.Units); rerr != nil {
				rc.log.WithFields(logrus.Fields{"order_id": rec.OrderID, "sku": rec.SKU}).Error("revert after failed ledger insert: " + rerr.Error())
				return res, errors.Join(err, rerr)
			}
			res.InventoryApplied = false
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return res, err
		}
		// another writer inserted the order first; treat this row as its correction
		existing, ferr := rc.ledger.Find(ctx, in.OrderID)
		if ferr != nil {
			return res, ferr
		}
		return rc.correct(ctx, res, in, &rec, existing)
	}
	res.Outcome = OutcomeInserted
	return res, nil
}

// correct replaces a stored row without touching inventory.
func (rc *Reconciler) correct(ctx context.Context, res RowResult, in SaleInput, rec, existing *salesEntity.SaleRecord) (RowResult, error) {
	if in.OrderDate.IsZero() {
		rec.OrderDate = existing.OrderDate
	}
	if sameContent(existing, rec) {
		res.Outcome = OutcomeSkipped
		res.Reason = "unchanged"
		return res, nil
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	if err := rc.ledger.Update(ctx, rec); err != nil {
		if apperror.IsDomain(err) {
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			return res, nil
		}
		return res, err
	}
	res.Outcome = OutcomeUpdated
	return res, nil
}
