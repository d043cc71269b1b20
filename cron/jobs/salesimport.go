// Package jobs holds the scheduled jobs; import it for side effects.
package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"marketstock.GO/app"
	"marketstock.GO/config"
	"marketstock.GO/cron"
	salesService "marketstock.GO/service/sales"
)

// SalesImportJob is the cron name of the periodic sales re-import.
const SalesImportJob = "salesimport"

func init() {
	cron.Register(SalesImportJob, "@every 10m", func(args ...string) {
		file := config.LoadAppConfig().SalesImportFile
		if len(args) > 0 && args[0] != "" {
			file = args[0]
		}
		ctx, cancel := context.WithTimeout(context.Background(), 9*time.Minute)
		defer cancel()
		a, closeFn, err := app.Open(ctx, nil)
		if err != nil {
			config.LogError(config.GetLogger(), "cron/jobs", "salesimport", "open", nil, err)
			return
		}
		defer closeFn()
		RunSalesImport(ctx, a, file)
	})
}

// RunSalesImport re-reads file and reconciles it. Re-ingesting the same export
// is a no-op for rows that did not change.
func RunSalesImport(ctx context.Context, a *app.App, file string) *salesService.Report {
	log := a.Log.WithFields(logrus.Fields{"job": SalesImportJob, "file": file})
	if file == "" {
		log.Warn("SALES_IMPORT_FILE not set, skipping")
		return nil
	}
	rows, err := salesService.ReadFile(file)
	if err != nil {
		config.LogError(a.Log, "cron/jobs", "salesimport", "read", file, err)
		return nil
	}
	report, err := a.Reconcile(ctx, rows)
	if err != nil {
		config.LogError(a.Log, "cron/jobs", "salesimport", "reconcile", file, err)
		return nil
	}
	log.WithFields(logrus.Fields{
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"failed":   len(report.Failed),
	}).Info("scheduled sales import finished")
	return report
}
