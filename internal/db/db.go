package db

import (
	"backend/internal/app/board"
	"backend/internal/app/message"
	"backend/internal/app/user"
	"backend/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.PostgresDSN()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)

	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&user.User{},
		&board.Board{},
		&board.BoardMembership{},
		&message.Message{},
		&message.MessageBoard{},
	); err != nil {
		return err
	}

	// Shared board names are globally unique; private names are only unique
	// per owner (covered by the composite index on the model). AutoMigrate
	// cannot express a partial index, so it is created directly.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_boards_shared_name
		ON boards (name) WHERE visibility = 'shared'
	`).Error; err != nil {
		return err
	}

	logger.Info("Database migrated")
	return nil
}
