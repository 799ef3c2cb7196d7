package commands

import (
	"context"
	"fmt"

	"github.com/taskboard-api/config"
	"github.com/taskboard-api/database"
	"github.com/taskboard-api/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrap loads configuration, initializes the logger and opens the database
// The returned cleanup closes the database and flushes the logger
func bootstrap(ctx context.Context) (*config.Config, *gorm.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
		logger.Sync()
	}
	return cfg, db, cleanup, nil
}
