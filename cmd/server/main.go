package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/migrations"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	"github.com/pushp314/devconnect-chat/internal/routes"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/pushp314/devconnect-chat/pkg/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Env, cfg.LogLevel)
	logger.Info().Str("environment", cfg.Env).Msg("Starting chat backend...")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.NewMigrator(db).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Info().Msg("Database migrations complete")

	rdb := database.NewRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// Local transports
	allowOrigin := originChecker(cfg.FrontendURL)
	socketServer := realtime.NewSocketServer(utils.Authenticate, allowOrigin)
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error().Err(err).Msg("socket.io server stopped")
		}
	}()
	defer socketServer.Close()

	hub := realtime.NewHub(allowOrigin)
	defer hub.Close()

	local := realtime.MultiPublisher{socketServer, hub}

	// With redis, publish through it so every instance delivers to its own clients
	var publisher realtime.Publisher = local
	if rdb != nil {
		relay := realtime.NewRedisRelay(rdb, cfg.RedisChannelPrefix, local)
		if err := relay.Subscribe(ctx); err != nil {
			logger.Warn().Err(err).Msg("Redis relay unavailable, delivering in-process only")
		} else {
			go func() {
				if err := relay.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("Redis relay stopped")
				}
			}()
			publisher = realtime.NewRedisPublisher(rdb, cfg.RedisChannelPrefix)
		}
	}

	chat := services.NewChatService(db, publisher, services.WithPublishTimeout(cfg.PublishTimeout))

	r := routes.NewRouter(routes.Deps{
		DB:          db,
		Redis:       rdb,
		Chat:        chat,
		Socket:      socketServer,
		Hub:         hub,
		FrontendURL: cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}

// originChecker accepts same-origin requests, the configured frontend and the
// local dev server
func originChecker(frontendURL string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == frontendURL || origin == "http://localhost:5173"
	}
}
