package migration

import (
	"fmt"

	"gorm.io/gorm"

	"paydesk/internal/infrastructure/persistence/models"
	"paydesk/internal/shared/logger"
)

// AutoMigrateModels returns every model the schema carries.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PaymentMethodModel{},
		&models.BillingEventModel{},
		&models.SubscriptionModel{},
	}
}

// GormAutoMigrateStrategy migrates the schema from the struct definitions.
// Development only: it cannot express destructive changes.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM AutoMigrate strategy.
func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

// Migrate runs gorm AutoMigrate over the given models.
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

// GetName returns the strategy name.
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
