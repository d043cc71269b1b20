package health

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketstock.GO/api"
	"marketstock.GO/app"
)

func init() {
	api.RegisterRoute(func(e *echo.Echo, a *app.App) {
		e.GET("/health", func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{"status": "ok", "app": a.Config.AppName})
		})
	})
}
