package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
	factdomain "github.com/smallbiznis/salesdw/internal/fact/domain"
	pipelinedomain "github.com/smallbiznis/salesdw/internal/pipeline/domain"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"github.com/smallbiznis/salesdw/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table the warehouse owns, in creation order.
func Models() []any {
	return []any{
		&stagingdomain.Customer{},
		&stagingdomain.Product{},
		&stagingdomain.Order{},
		&stagingdomain.OrderDetail{},
		&dimensiondomain.Customer{},
		&dimensiondomain.Product{},
		&referencedomain.Status{},
		&referencedomain.Calendar{},
		&factdomain.Sales{},
		&pipelinedomain.Run{},
	}
}

// Run creates the warehouse schema. Postgres uses the versioned SQL
// migrations; other dialects are created from the models.
func Run(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if dbType == db.TypePostgres {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "salesdw_schema_migrations"})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Closing the migrator would close the shared *sql.DB.

	return nil
}
