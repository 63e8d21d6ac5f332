package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divron/attendance/db"
	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/storage/gormstore"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations for the configured driver",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "print the current schema version and exit")
}

// openMigrationDB returns a plain *sql.DB for goose. Postgres goes through
// the pgx stdlib driver; sqlite reuses the gorm connection.
func openMigrationDB(cfg internal.StorageConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case internal.StorageDriverPostgres:
		return goose.OpenDBWithDriver("pgx", cfg.Source)
	case internal.StorageDriverSQLite:
		gdb, err := gormstore.OpenDB(gormstore.Options{Driver: cfg.Driver, Source: cfg.Source})
		if err != nil {
			return nil, err
		}
		return gdb.DB()
	}
	return nil, fmt.Errorf("driver %q has no sql migrations", cfg.Driver)
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	sqlDB, err := openMigrationDB(cfg.Storage)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	switch {
	case migrateStatus:
	case migrateRollback:
		if err := db.Down(ctx, sqlDB, cfg.Storage.Driver); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	default:
		if err := db.Up(ctx, sqlDB, cfg.Storage.Driver); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	}

	version, err := db.Version(ctx, sqlDB, cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	cmd.Printf("schema version: %d\n", version)
	return nil
}
