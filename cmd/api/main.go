package main

// @title ML TM Utils API
// @version 1.0.0
// @description Сервис площадей зданий по тайлам для проектов Tasking Manager.
// @description
// @description Основные возможности:
// @description - Адресация тайлов: дети, границы, пирамида до листового зума
// @description - Суммы площадей зданий (ML и OSM) по тайлу задачи или списку тайлов
// @description - Обогащение документа проекта TM площадями по задачам
// @description - Регистрация проектов, синхронизация геометрии, загрузка площадей

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/developmentseed/ml-tm-utils-pub/docs"
	"github.com/developmentseed/ml-tm-utils-pub/internal/config"
	httpDelivery "github.com/developmentseed/ml-tm-utils-pub/internal/delivery/http"
	"github.com/developmentseed/ml-tm-utils-pub/internal/delivery/http/handler"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/logger"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/metrics"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/cache"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/postgres"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
)

const dbStatsInterval = 15 * time.Second

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "ml-tm-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting ML TM Utils API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Int("tile_max_zoom", cfg.Tile.MaxZoom),
	)

	tileFormat := domain.TileFormat(cfg.Tile.Format)
	if err := tileFormat.Validate(); err != nil {
		log.Fatal("Invalid TILE_FORMAT", zap.Error(err))
	}

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

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("Database health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Repositories
	projectRepo := postgres.NewProjectRepository(db, log)
	tileAreaRepo := postgres.NewTileAreaRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)

	// 7. Use cases
	tileUC := usecase.NewTileUseCase(tileFormat, cfg.Tile.MaxZoom, cfg.Tile.MaxPyramidDelta, log)
	areaUC := usecase.NewAreaUseCase(tileAreaRepo, cacheRepo, cfg.Tile.MaxZoom, cfg.Cache.AreaCacheTTL, log)
	projectUC := usecase.NewProjectUseCase(projectRepo, tileAreaRepo, cacheRepo, log)

	// 8. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewTileHandler(tileUC, areaUC, log),
		handler.NewAreaHandler(areaUC, log),
		handler.NewProjectHandler(projectUC, log),
		map[string]httpDelivery.HealthCheck{
			"database": db.Health,
			"redis":    redisClient.Health,
		},
	)

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	if cfg.Metrics.Enabled {
		go reportDBStats(statsCtx, db)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	stopStats()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// reportDBStats периодически выгружает статистику пула соединений в метрики
func reportDBStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()

	for {
		metrics.UpdateDBStats(db.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
