package config

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/olfat123/profile-creator/internal/logger"
)

var DB *gorm.DB

// InitDatabase opens the relational store selected by DATABASE_DRIVER.
func InitDatabase(s *Settings, l *logrus.Logger) error {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Gorm(l),
	}

	var dialector gorm.Dialector
	switch s.DatabaseDriver {
	case "postgres":
		if s.PostgresURI == "" {
			return errors.New("POSTGRES_URI environment variable is not set")
		}
		dialector = postgres.Open(s.PostgresURI)
	case "sqlite":
		dialector = sqlite.Open(s.SQLitePath)
	default:
		return errors.New("unsupported DATABASE_DRIVER " + s.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	if s.DatabaseDriver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	return nil
}
