package db

import (
	"agency-workspace/internal/config"
	appLogger "agency-workspace/internal/logger"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var AppDb *gorm.DB

func ConnectDb() error {
	dsn := fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	level := logger.Info
	if config.AppConfig.Environment == "production" {
		level = logger.Error
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      config.AppConfig.Environment != "production",
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}

	AppDb = db
	appLogger.Log.Info().Str("host", config.AppConfig.DBHost).Str("db", config.AppConfig.DBName).Msg("connected to database")
	return nil
}

func CloseDb() {
	sqlDB, err := AppDb.DB()
	if err != nil {
		appLogger.Log.Error().Err(err).Msg("failed to get underlying db")
		return
	}
	if err := sqlDB.Close(); err != nil {
		appLogger.Log.Error().Err(err).Msg("failed to close db")
		return
	}
	appLogger.Log.Info().Msg("database connection closed")
}
