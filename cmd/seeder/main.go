package main

import (
	"context"

	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/seeds"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}

	if err := seeds.Run(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Seeding failed")
	}

	logger.Info().Str("password", seeds.DemoPassword).Msg("Seeding complete")
}
