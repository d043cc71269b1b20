package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"marketstock.GO/config"
	"marketstock.GO/migrations"
	inventoryEntity "marketstock.GO/model/entity/inventory"
	salesEntity "marketstock.GO/model/entity/sales"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply schema migrations (MySQL) or auto-migrate (SQLite)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.GetEnv("DB_DRIVER", "mysql") == "sqlite" {
			db, err := config.NewDB()
			if err != nil {
				return fmt.Errorf("connect DB: %w", err)
			}
			if err := db.AutoMigrate(&inventoryEntity.StockRecord{}, &salesEntity.SaleRecord{}); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
			cmd.Println("SQLite schema up to date.")
			return nil
		}

		src, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return fmt.Errorf("load migrations: %w", err)
		}
		m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(config.MySQLDSN()))
		if err != nil {
			return fmt.Errorf("open migrator: %w", err)
		}
		defer m.Close()

		if migrateDown {
			err = m.Down()
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate: %w", err)
		}
		version, dirty, _ := m.Version()
		cmd.Printf("Schema at version %d (dirty=%v)\n", version, dirty)
		return nil
	},
}

// migrateURL turns a go-sql-driver DSN into the mysql:// URL golang-migrate expects.
func migrateURL(dsn string) string {
	if !strings.Contains(dsn, "multiStatements=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "multiStatements=true"
	}
	return "mysql://" + dsn
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back every migration")
	Register(migrateCmd)
}
