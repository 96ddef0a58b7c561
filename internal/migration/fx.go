package migration

import (
	"github.com/smallbiznis/salesdw/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module applies the schema at startup when AUTO_MIGRATE is set.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.AutoMigrate {
			return nil
		}
		if err := Run(conn, cfg.DBType); err != nil {
			return err
		}
		log.Named("migration").Info("migration.applied", zap.String("dialect", cfg.DBType))
		return nil
	}),
)
