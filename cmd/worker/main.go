package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/config"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/logger"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/cache"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/postgres"
	redisRepo "github.com/developmentseed/ml-tm-utils-pub/internal/repository/redis"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
	"github.com/developmentseed/ml-tm-utils-pub/internal/worker"
	"github.com/developmentseed/ml-tm-utils-pub/internal/worker/augment"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "ml-tm-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting project augment worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Int("tile_max_zoom", cfg.Tile.MaxZoom))

	// 3. Connect to database
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Repositories
	projectRepo := postgres.NewProjectRepository(db, log)
	tileAreaRepo := postgres.NewTileAreaRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 6. Use cases
	areaUC := usecase.NewAreaUseCase(tileAreaRepo, cacheRepo, cfg.Tile.MaxZoom, cfg.Cache.AreaCacheTTL, log)
	projectUC := usecase.NewProjectUseCase(projectRepo, tileAreaRepo, cacheRepo, log)

	// 7. Workers
	augmentWorker := augment.NewProjectAugmentWorker(
		streamRepo,
		areaUC,
		projectUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		cfg.Worker.StreamReadTimeout,
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(augmentWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Сначала Stop: текущий батч дорабатывается и ACK-ается, потом отменяем ctx
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
