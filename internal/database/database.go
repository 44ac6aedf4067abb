package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/storyforge/sharing-service/internal/config"
	"github.com/storyforge/sharing-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique violations surface as gorm.ErrDuplicatedKey; the report
		// intake and token collision retry depend on this.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate and creates the indexes AutoMigrate cannot express.
func Migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Scenario{},
		&models.ShareLink{},
		&models.Report{},
		&models.SystemLog{},
	); err != nil {
		return err
	}

	// At most one open report per (target, reporter identity). The
	// application-level duplicate check alone is racy; this index is the
	// backstop that makes concurrent duplicate submissions lose cleanly.
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_open_per_identity
		ON reports (target_type, target_id, reporter_identity)
		WHERE status IN ('pending', 'under_review')`).Error; err != nil {
		return fmt.Errorf("failed to create open-report uniqueness index: %w", err)
	}

	// Moderation queue ordering.
	return DB.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_queue
		ON reports (priority_score DESC, created_at ASC)
		WHERE status IN ('pending', 'under_review')`).Error
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
