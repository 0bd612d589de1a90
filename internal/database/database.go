package database

import (
	"fmt"

	"contextAgent/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(cfg *config.Cfg, log *zap.Logger) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к postgres: %w", err)
	}

	log.Info("Подключение к БД установлено",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.Name),
	)

	return &Database{DB: db}, nil
}

func (d *Database) Close(log *zap.Logger) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Warn("Не удалось получить соединение БД", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Ошибка закрытия БД", zap.Error(err))
	}
}
