package config

import (
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool
	// DBDriver selects mysql (default) or sqlite.
	DBDriver string

	// Reconciliation
	AffectInventory  bool
	ReconcileWorkers int

	// Metrics
	VelocityWindowDays int
	MetricsCacheTTL    time.Duration

	// Scheduled import (cron job "salesimport")
	SalesImportFile     string
	SalesImportSchedule string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = &Config{
			AppName:             GetEnv("APP_NAME", "marketstock"),
			Port:                GetEnv("PORT", "8080"),
			Env:                 GetEnv("APP_ENV", "dev"),
			Debug:               getEnvBool("DEBUG", false),
			DBDriver:            GetEnv("DB_DRIVER", "mysql"),
			AffectInventory:     getEnvBool("RECONCILE_AFFECT_INVENTORY", true),
			ReconcileWorkers:    getEnvInt("RECONCILE_WORKERS", 4),
			VelocityWindowDays:  getEnvInt("VELOCITY_WINDOW_DAYS", 30),
			MetricsCacheTTL:     time.Duration(getEnvInt("METRICS_CACHE_TTL_SECONDS", 30)) * time.Second,
			SalesImportFile:     GetEnv("SALES_IMPORT_FILE", ""),
			SalesImportSchedule: GetEnv("SALES_IMPORT_SCHEDULE", "@every 10m"),
		}
	})
	return AppConfig
}
