package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marketstock.GO/app"
	"marketstock.GO/config"
	salesService "marketstock.GO/service/sales"
)

var (
	salesFile        string
	salesDryRun      bool
	salesNoInventory bool
	salesWorkers     int
)

var salesImportCmd = &cobra.Command{
	Use:   "sales:import",
	Short: "Reconcile a marketplace sales export (.xlsx or .csv) into the ledger and stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := salesService.ReadFile(salesFile)
		if err != nil {
			return err
		}

		cfg := *config.LoadAppConfig()
		if salesNoInventory {
			cfg.AffectInventory = false
		}
		if salesWorkers > 0 {
			cfg.ReconcileWorkers = salesWorkers
		}

		var a *app.App
		if salesDryRun {
			a = app.NewInMemory(&cfg, config.GetLogger())
		} else {
			opened, closeFn, err := app.Open(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			a = opened
		}

		report, err := a.Reconcile(cmd.Context(), rows)
		if err != nil {
			return fmt.Errorf("import aborted: %w", err)
		}
		printReport(cmd, report, salesDryRun)
		return nil
	},
}

func printReport(cmd *cobra.Command, r *salesService.Report, dryRun bool) {
	for _, w := range r.Warnings {
		cmd.Printf("  [warn] %s\n", w)
	}
	for _, f := range r.Failed {
		cmd.Printf("  [fail] row %d order %q: %s\n", f.Row, f.OrderID, f.Reason)
	}
	cmd.Printf(`
=== Sales Reconcile Report ===
Rows:           %d
Inserted:       %d
Updated:        %d
Skipped:        %d
Failed:         %d
Stock applied:  %d
Mode:           %s
Total time:     %s
==============================
`, r.TotalRows, r.Inserted, r.Updated, r.Skipped, len(r.Failed), r.InventoryApplied,
		map[bool]string{true: "dry run (in-memory)", false: "database"}[dryRun],
		r.Duration.Round(time.Millisecond))
}

func init() {
	salesImportCmd.Flags().StringVarP(&salesFile, "file", "f", "", "Sales export (.xlsx or .csv)")
	salesImportCmd.Flags().BoolVar(&salesDryRun, "dry-run", false, "Reconcile into in-memory stores and print the report")
	salesImportCmd.Flags().BoolVar(&salesNoInventory, "no-inventory", false, "Record sales without moving stock")
	salesImportCmd.Flags().IntVarP(&salesWorkers, "workers", "w", 0, "Concurrent order groups (default RECONCILE_WORKERS)")
	salesImportCmd.MarkFlagRequired("file")
	Register(salesImportCmd)
}
