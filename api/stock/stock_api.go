package stock

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketstock.GO/api"
	"marketstock.GO/app"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	"marketstock.GO/service/inventory"
)

const module = "api/stock"

var validate = validator.New()

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

type registerRequest struct {
	SKU              string          `json:"sku" validate:"required,max=64"`
	Description      string          `json:"description" validate:"max=255"`
	QuantityOnHand   int64           `json:"quantity_on_hand" validate:"gte=0"`
	MinimumThreshold int64           `json:"minimum_threshold" validate:"gte=0"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	NetUnitValue     decimal.Decimal `json:"net_unit_value"`
}

type deltaRequest struct {
	Delta int64 `json:"delta"`
}

func RegisterStockRoutes(apiGroup *echo.Group, a *app.App) {
	g := apiGroup.Group("/stock")

	// GET /api/stock?status=REPLENISH – snapshot with derived status and velocity
	g.GET("", func(c echo.Context) error {
		var (
			recs []inventoryEntity.StockRecord
			err  error
		)
		if status := c.QueryParam("status"); status != "" {
			recs, err = a.Stock.ListByStatus(c.Request().Context(), inventoryEntity.Status(strings.ToUpper(status)))
		} else {
			recs, err = a.Stock.Snapshot(c.Request().Context())
		}
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/stock/metrics – cached fleet metrics
	g.GET("/metrics", func(c echo.Context) error {
		start := time.Now()
		m, err := a.Metrics(c.Request().Context())
		if err != nil {
			return api.Error(c, module, err)
		}
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		return c.JSON(http.StatusOK, m)
	})

	// GET /api/stock/critical – OUT_OF_STOCK and REPLENISH records
	g.GET("/critical", func(c echo.Context) error {
		recs, err := a.Stock.Critical(c.Request().Context())
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/stock/quantities?skus=A1,B2 – bulk quantity lookup
	g.GET("/quantities", func(c echo.Context) error {
		var skus []string
		for _, s := range strings.Split(c.QueryParam("skus"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				skus = append(skus, s)
			}
		}
		if len(skus) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "skus query parameter is required"})
		}
		q, err := a.Stock.Quantities(c.Request().Context(), skus)
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, q)
	})

	g.GET("/:sku", func(c echo.Context) error {
		rec, err := a.Stock.Get(c.Request().Context(), c.Param("sku"))
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, rec)
	})

	// POST /api/stock – register a SKU
	g.POST("", func(c echo.Context) error {
		var body registerRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := validate.Struct(body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := a.Mutator.Register(c.Request().Context(), inventoryEntity.StockRecord{
			SKU:              body.SKU,
			Description:      body.Description,
			QuantityOnHand:   body.QuantityOnHand,
			MinimumThreshold: body.MinimumThreshold,
			UnitCost:         body.UnitCost,
			NetUnitValue:     body.NetUnitValue,
		})
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusCreated, rec)
	})

	// PUT /api/stock/:sku – absolute set of any subset of fields
	g.PUT("/:sku", func(c echo.Context) error {
		var fields inventory.StockFields
		if err := c.Bind(&fields); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := a.Mutator.SetAbsolute(c.Request().Context(), c.Param("sku"), fields)
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, rec)
	})

	// POST /api/stock/:sku/delta – signed relative change
	g.POST("/:sku/delta", func(c echo.Context) error {
		var body deltaRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := a.Mutator.ApplyDelta(c.Request().Context(), c.Param("sku"), body.Delta)
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, rec)
	})
}
