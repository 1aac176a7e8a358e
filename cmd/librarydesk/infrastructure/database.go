package infrastructure

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library-desk/internal/config"
	"library-desk/pkg/logger"
)

// NewDatabase opens the fixture database for the configured driver.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	var dialector gorm.Dialector
	switch cfg.Fixture.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Fixture.DSN())
	case config.DriverPostgres:
		dialector = pgdriver.Open(cfg.Fixture.DSN())
	default:
		return nil, fmt.Errorf("unsupported fixture driver %q", cfg.Fixture.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to fixture database: %w", err)
	}

	l.Info("fixture database connected", zap.String("driver", cfg.Fixture.Driver))

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
