package postgres

import (
	"github.com/dom/sleep-tracker/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection applies pending migrations and opens a gorm connection.
func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		AuthSession:  NewAuthSessionRepository(db),
		SleepSession: NewSleepSessionRepository(db),
		Follow:       NewFollowRepository(db),
	}
}
