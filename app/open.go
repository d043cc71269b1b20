package app

import (
	"context"
	"fmt"
	"time"

	"marketstock.GO/config"
)

// Open connects to the configured database and Redis and wires the services.
// A nil cfg means the process-wide config. The returned close func releases the
// database pool.
func Open(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	if cfg == nil {
		cfg = config.LoadAppConfig()
	}
	log := config.GetLogger()

	db, err := config.NewDB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get DB instance: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	config.InitRedis()
	log.Info(config.PingRedis(pingCtx))

	closeFn := func() {
		sqlDB.Close()
		if config.RedisClient != nil {
			config.RedisClient.Close()
		}
	}
	return New(db, config.RedisClient, cfg, log), closeFn, nil
}
