package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"marketstock.GO/app"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	"marketstock.GO/service/inventory"
)

var (
	stockQty      int64
	stockMin      int64
	stockCost     string
	stockNetValue string
	stockDesc     string
	stockStatus   string
)

// withApp opens the database-backed services for one command run.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, closeFn, err := app.Open(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}

func parseMoneyFlag(name, v string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

// fieldsFromFlags collects only the flags the user actually set.
func fieldsFromFlags(cmd *cobra.Command) (inventory.StockFields, error) {
	var f inventory.StockFields
	flags := cmd.Flags()
	if flags.Changed("qty") {
		f.QuantityOnHand = &stockQty
	}
	if flags.Changed("min") {
		f.MinimumThreshold = &stockMin
	}
	if flags.Changed("desc") {
		f.Description = &stockDesc
	}
	if flags.Changed("cost") {
		d, err := parseMoneyFlag("cost", stockCost)
		if err != nil {
			return f, err
		}
		f.UnitCost = d
	}
	if flags.Changed("net") {
		d, err := parseMoneyFlag("net", stockNetValue)
		if err != nil {
			return f, err
		}
		f.NetUnitValue = d
	}
	return f, nil
}

var stockRegisterCmd = &cobra.Command{
	Use:   "stock:register SKU",
	Short: "Register a SKU with its initial quantity and threshold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fieldsFromFlags(cmd)
		if err != nil {
			return err
		}
		rec := inventoryEntity.StockRecord{SKU: args[0], QuantityOnHand: stockQty, MinimumThreshold: stockMin, Description: stockDesc}
		if f.UnitCost != nil {
			rec.UnitCost = *f.UnitCost
		}
		if f.NetUnitValue != nil {
			rec.NetUnitValue = *f.NetUnitValue
		}
		return withApp(cmd, func(a *app.App) error {
			out, err := a.Mutator.Register(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		})
	},
}

var stockSetCmd = &cobra.Command{
	Use:   "stock:set SKU",
	Short: "Set quantity, threshold, cost, net value or description of a SKU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fieldsFromFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			out, err := a.Mutator.SetAbsolute(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		})
	},
}

var stockDeltaCmd = &cobra.Command{
	Use:   "stock:delta SKU DELTA",
	Short: "Add a signed delta to the quantity on hand (e.g. -2 or 10)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("DELTA must be an integer: %w", err)
		}
		return withApp(cmd, func(a *app.App) error {
			out, err := a.Mutator.ApplyDelta(cmd.Context(), args[0], delta)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		})
	},
}

var stockMetricsCmd = &cobra.Command{
	Use:   "stock:metrics",
	Short: "Print fleet metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			m, err := a.Metrics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, m)
		})
	},
}

var stockListCmd = &cobra.Command{
	Use:   "stock:list",
	Short: "List stock records, optionally by status or only critical ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			var (
				recs []inventoryEntity.StockRecord
				err  error
			)
			switch stockStatus {
			case "":
				recs, err = a.Stock.Snapshot(cmd.Context())
			case "critical":
				recs, err = a.Stock.Critical(cmd.Context())
			default:
				recs, err = a.Stock.ListByStatus(cmd.Context(), inventoryEntity.Status(stockStatus))
			}
			if err != nil {
				return err
			}
			for _, r := range recs {
				cover := "-"
				if r.DaysOfCover != nil {
					cover = strconv.FormatInt(*r.DaysOfCover, 10)
				}
				cmd.Printf("%-20s %-13s qty=%-6d min=%-6d velocity=%.2f cover=%s\n",
					r.SKU, r.Status, r.QuantityOnHand, r.MinimumThreshold, r.SalesVelocity, cover)
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{stockRegisterCmd, stockSetCmd} {
		c.Flags().Int64Var(&stockQty, "qty", 0, "Quantity on hand")
		c.Flags().Int64Var(&stockMin, "min", 0, "Minimum threshold")
		c.Flags().StringVar(&stockCost, "cost", "0", "Unit cost")
		c.Flags().StringVar(&stockNetValue, "net", "0", "Net unit value")
		c.Flags().StringVar(&stockDesc, "desc", "", "Description")
	}
	stockListCmd.Flags().StringVarP(&stockStatus, "status", "s", "", "OUT_OF_STOCK, REPLENISH, NEGOTIATING, IN_STOCK, OVERSTOCKED or critical")
	for _, c := range []*cobra.Command{stockRegisterCmd, stockSetCmd, stockDeltaCmd, stockMetricsCmd, stockListCmd} {
		Register(c)
	}
}
