// Package logger создает zap-логгер в зависимости от окружения.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Zap struct {
	*zap.Logger
}

// New: env=prod - JSON в stderr, иначе консольный формат для разработки.
func New(env, level string) (*Zap, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("неверный уровень логирования %q: %w", level, err)
	}

	var cfg zap.Config
	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	return &Zap{Logger: l}, nil
}

// Nop - логгер для тестов и демо-команд без вывода.
func Nop() *Zap {
	return &Zap{Logger: zap.NewNop()}
}
