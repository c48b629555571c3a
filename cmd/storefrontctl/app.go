package main

import (
	"fmt"
	"log/slog"
	"os"

	"storefront-backend/internal/client"
	"storefront-backend/internal/config"
	"storefront-backend/internal/logging"

	"gorm.io/gorm"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func newApp() (*app, error) {
	cfg, _, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log)

	db, err := client.InitDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
