// Package migrations применяет SQL-миграции из каталога migrations/.
package migrations

import (
	"errors"
	"fmt"

	"contextAgent/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func Run(cfg *config.Cfg, log *zap.Logger) error {
	m, err := migrate.New(cfg.Migrations.Path, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer closeMigrate(m, log)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Миграции не требуются")
			return nil
		}
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}
	log.Info("Миграции применены", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func closeMigrate(m *migrate.Migrate, log *zap.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Warn("Ошибка закрытия источника миграций", zap.Error(srcErr))
	}
	if dbErr != nil {
		log.Warn("Ошибка закрытия БД миграций", zap.Error(dbErr))
	}
}
