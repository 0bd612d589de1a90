package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contextAgent/internal/cli"
	"contextAgent/internal/cli/commands"
	"contextAgent/internal/config"
	"contextAgent/internal/database"
	"contextAgent/internal/llm"
	"contextAgent/internal/logger"
	"contextAgent/internal/migrations"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("загрузка конфигурации: %w", err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		promptLogger llm.PromptLogger
		logs         commands.PromptLogLister
	)
	if cfg.Database.Enabled() {
		if err := migrations.Run(cfg, log.Logger); err != nil {
			log.Error("Ошибка миграций", zap.Error(err))
			return err
		}

		db, err := database.New(cfg, log.Logger)
		if err != nil {
			log.Error("Ошибка подключения к БД", zap.Error(err))
			return err
		}
		defer db.Close(log.Logger)

		repo := database.NewPromptLogRepository(db.DB)
		promptLogger = repo
		logs = repo
	}

	var gen llm.Generator
	if cfg.OpenAI.KeyAI != "" {
		gen = llm.NewResilient(llm.NewClient(cfg.OpenAI, promptLogger, log.Logger), log.Logger)
	}

	console := cli.New(cfg, log, gen, logs, os.Stdout)
	return console.Execute(ctx, os.Args[1:])
}
