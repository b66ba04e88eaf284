package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(func(db *gorm.DB, log *zap.Logger) error {
		if err := RunMigrations(db); err != nil {
			log.Error("migrations failed", zap.Error(err))
			return err
		}
		log.Info("migrations applied")
		return nil
	}),
)
