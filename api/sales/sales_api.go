package sales

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"marketstock.GO/api"
	"marketstock.GO/app"
	"marketstock.GO/config"
	"marketstock.GO/core/apperror"
	salesService "marketstock.GO/service/sales"
)

const module = "api/sales"

func init() {
	api.RegisterModule(RegisterSalesRoutes)
}

func RegisterSalesRoutes(apiGroup *echo.Group, a *app.App) {
	g := apiGroup.Group("/sales")

	// POST /api/sales/reconcile – JSON {"rows": [...]} or a multipart "file" (.xlsx/.csv)
	g.POST("/reconcile", func(c echo.Context) error {
		start := time.Now()

		batch, err := readBatch(c)
		if err != nil {
			return api.Error(c, module, err)
		}
		if len(batch) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows array is required and must not be empty"})
		}

		report, err := a.Reconcile(c.Request().Context(), batch)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			config.LogError(config.GetLogger(), module, "reconcile", "batch", echo.Map{"rows": len(batch)}, err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "reconcile aborted: store unavailable", "request_duration_ms": duration})
		}
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, report)
	})

	// GET /api/sales?sku=&status=&from=2024-01-01&to=2024-01-31
	g.GET("", func(c echo.Context) error {
		f, err := parseFilter(c)
		if err != nil {
			return api.Error(c, module, err)
		}
		recs, err := a.Sales.List(c.Request().Context(), f)
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/sales/summary[?group=sku]
	g.GET("/summary", func(c echo.Context) error {
		f, err := parseFilter(c)
		if err != nil {
			return api.Error(c, module, err)
		}
		if c.QueryParam("group") == "sku" {
			groups, err := a.Sales.SummaryBySKU(c.Request().Context(), f)
			if err != nil {
				return api.Error(c, module, err)
			}
			return c.JSON(http.StatusOK, echo.Map{"items": groups})
		}
		s, err := a.Sales.Summary(c.Request().Context(), f)
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, s)
	})

	g.GET("/:order_id", func(c echo.Context) error {
		rec, err := a.Sales.Find(c.Request().Context(), c.Param("order_id"))
		if err != nil {
			return api.Error(c, module, err)
		}
		return c.JSON(http.StatusOK, rec)
	})
}

func readBatch(c echo.Context) ([]salesService.RawSaleRow, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, apperror.Validation("file", "%v", err)
		}
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		var rows []salesService.RawSaleRow
		switch strings.ToLower(filepath.Ext(fh.Filename)) {
		case ".xlsx":
			rows, err = salesService.ReadXLSX(src)
		case ".csv":
			rows, err = salesService.ReadCSV(src)
		default:
			return nil, apperror.Validation("file", "only .xlsx and .csv uploads are accepted")
		}
		if err != nil {
			return nil, apperror.Validation("file", "%v", err)
		}
		return rows, nil
	}

	var body struct {
		Rows []salesService.RawSaleRow `json:"rows"`
	}
	// Numbers stay json.Number so long order ids and fractional units reach
	// DecodeRow as written.
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, apperror.Validation("rows", "%v", err)
	}
	return body.Rows, nil
}

func parseFilter(c echo.Context) (salesService.Filter, error) {
	f := salesService.Filter{
		SKU:    c.QueryParam("sku"),
		Status: strings.ToLower(c.QueryParam("status")),
	}
	for _, p := range []struct {
		name string
		dst  *time.Time
		end  bool
	}{{"from", &f.From, false}, {"to", &f.To, true}} {
		v := c.QueryParam(p.name)
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, apperror.Validation(p.name, "expected YYYY-MM-DD, got %q", v)
		}
		if p.end {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		*p.dst = t
	}
	return f, nil
}
