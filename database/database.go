package database

import (
	"fmt"

	"github.com/ntquang/learnhub/config"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
	)

	// TranslateError turns driver unique violations into
	// gorm.ErrDuplicatedKey, which the services branch on for conflicts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("Connected to database")
	return db, nil
}

// Migrate runs AutoMigrate plus the constraints AutoMigrate cannot express.
// The partial unique index is load-bearing: it is what turns a concurrent
// double-start into a duplicate-key conflict instead of two IN_PROGRESS rows.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.Enrollment{},
		&model.QuizAttempt{},
		&model.StudentAnswer{},
		&model.Certificate{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// One IN_PROGRESS attempt per (student, quiz). Works on postgres and the
	// sqlite test databases alike.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_one_in_progress
		 ON quiz_attempts (student_id, quiz_id)
		 WHERE status = 'IN_PROGRESS' AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("failed to create in-progress attempt index: %w", err)
	}

	return nil
}
