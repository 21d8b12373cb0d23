// @title           Signal Service API
// @version         1.0
// @description     Presence and call-signaling coordination API

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"signal-service/internal/bus"
	"signal-service/internal/config"
	"signal-service/internal/database"
	"signal-service/internal/handler"
	"signal-service/internal/job"
	"signal-service/internal/media"
	"signal-service/internal/middleware"
	"signal-service/internal/poll"
	"signal-service/internal/repository"
	"signal-service/internal/router"
	"signal-service/internal/service"
	"signal-service/internal/ws"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting Signal Service",
		zap.Int("port", cfg.Server.Port),
		zap.String("basePath", cfg.Server.BasePath),
		zap.String("env", cfg.Server.Env),
		zap.String("notifyMode", cfg.Signaling.NotifyMode))

	db, err := database.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	logger.Info("PostgreSQL connected")

	// The bus degrades to the poll fallback when Redis is down, so a
	// failed connection is not fatal.
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.Warn("Failed to connect to Redis, push transport degraded", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("Redis connected")
	}

	// Transports
	publisher := bus.NewRedisPublisher(redisClient, logger)
	notifier := poll.NewNotifier(logger)
	rooms := media.NewRoomManager(media.NewLiveKitFactory(cfg.LiveKit), logger)

	// Repositories
	presenceRepo := repository.NewPresenceRepository(db)

	// Services
	presenceService := service.NewPresenceService(presenceRepo, publisher, logger)
	callService := service.NewCallService(publisher, rooms, logger)
	memberService := service.NewMemberService(publisher, notifier, cfg.Signaling, logger)

	// Validator
	validator := middleware.NewAuthServiceValidator(cfg.Auth.ServiceURL, cfg.Auth.SecretKey, logger)

	// WebSocket hub
	wsHub := ws.NewHub(validator, redisClient, logger)

	// Handlers
	presenceHandler := handler.NewPresenceHandler(presenceService, logger)
	callHandler := handler.NewCallHandler(callService, logger)
	memberHandler := handler.NewMemberHandler(memberService, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	r := router.Setup(cfg, logger, validator, presenceHandler, callHandler, memberHandler, healthHandler, wsHub)

	// Background sweep of stale presences
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := job.NewStalePresenceJob(
		presenceRepo,
		presenceService,
		time.Duration(cfg.Signaling.StaleAfterMin)*time.Minute,
		logger,
	)
	sweeper.Start(ctx, time.Duration(cfg.Signaling.SweepIntervalMin)*time.Minute)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Signal Service started", zap.String("address", addr))

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
