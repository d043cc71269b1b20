package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSN() string {
	dsn := GetEnv("MYSQL_DSN", "")
	if dsn == "" {
		user := GetEnv("MYSQL_USER", "")
		pass := GetEnv("MYSQL_PASS", "")
		host := GetEnv("MYSQL_HOST", "127.0.0.1")
		port := GetEnv("MYSQL_PORT", "3306")
		db := GetEnv("MYSQL_DB", "")
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local", user, pass, host, port, db)
	}
	return dsn
}

// MySQLDSN is exported for the migrate command, which opens its own connection.
func MySQLDSN() string {
	return mysqlDSN()
}

func NewDB() (*gorm.DB, error) {
	logMode := logger.Warn
	switch GetEnv("GORM_LOG", "") {
	case "off":
		logMode = logger.Silent
	case "info":
		logMode = logger.Info
	}

	gormLogger := logger.New(
		GetLogger(), // logrus implements Printf
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logMode,
			Colorful:      false,
		},
	)

	var dialector gorm.Dialector
	switch GetEnv("DB_DRIVER", "mysql") {
	case "sqlite":
		dialector = sqlite.Open(GetEnv("SQLITE_PATH", "marketstock.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	default:
		dialector = mysql.Open(mysqlDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
