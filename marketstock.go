//go:build !cli

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"marketstock.GO/api"
	_ "marketstock.GO/api/health"
	_ "marketstock.GO/api/sales"
	_ "marketstock.GO/api/stock"
	"marketstock.GO/app"
	"marketstock.GO/config"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadAppConfig()
	log := config.GetLogger()

	a, closeFn, err := app.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closeFn()
	log.Info("Database connection successful.")

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}).Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	api.ApplyRoutes(e, a)
	api.ApplyModules(e.Group("/api"), a)

	figure.NewFigure("marketstock", "small", true).Print()
	fmt.Println()
	log.Infof("Server running on :%s (env=%s, affect_inventory=%v, workers=%d)",
		cfg.Port, cfg.Env, cfg.AffectInventory, cfg.ReconcileWorkers)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
