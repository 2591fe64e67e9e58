// Command ingest загружает CSV-выгрузки площадей зданий (ML и OSM) в БД проекта.
//
//	ingest -project 26 -ml ml_preds.csv -osm osm_areas.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/config"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/areacsv"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/logger"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/cache"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/postgres"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

func main() {
	tmIndex := flag.Int64("project", 0, "TM index of the project")
	mlPath := flag.String("ml", "", "CSV with ML building area predictions")
	osmPath := flag.String("osm", "", "CSV with OSM building areas")
	create := flag.Bool("create", false, "register the project if it does not exist")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall ingest timeout")
	flag.Parse()

	if *tmIndex <= 0 || (*mlPath == "" && *osmPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, "ml-tm-ingest")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ml, err := readAreas(*mlPath)
	if err != nil {
		log.Fatal("Failed to read ML predictions", zap.String("path", *mlPath), zap.Error(err))
	}
	osm, err := readAreas(*osmPath)
	if err != nil {
		log.Fatal("Failed to read OSM areas", zap.String("path", *osmPath), zap.Error(err))
	}

	areas := areacsv.Merge(ml, osm)
	log.Info("CSV files parsed",
		zap.Int("ml_tiles", len(ml)),
		zap.Int("osm_tiles", len(osm)),
		zap.Int("tiles", len(areas)))

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Без Redis загрузка работает, просто кеш сумм не будет сброшен
	var projectUC *usecase.ProjectUseCase
	projectRepo := postgres.NewProjectRepository(db, log)
	tileAreaRepo := postgres.NewTileAreaRepository(db, log)
	if redisClient, err := cache.NewRedis(&cfg.Redis, log); err != nil {
		log.Warn("Redis unavailable, area cache will not be invalidated", zap.Error(err))
		projectUC = usecase.NewProjectUseCase(projectRepo, tileAreaRepo, nil, log)
	} else {
		defer redisClient.Close()
		projectUC = usecase.NewProjectUseCase(projectRepo, tileAreaRepo, cache.NewCacheRepository(redisClient), log)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *create {
		if err := ensureProject(ctx, projectUC, *tmIndex); err != nil {
			log.Fatal("Failed to register project", zap.Int64("tm_index", *tmIndex), zap.Error(err))
		}
	}

	result, err := projectUC.IngestTileAreas(ctx, *tmIndex, areas)
	if err != nil {
		log.Fatal("Failed to ingest tile areas", zap.Int64("tm_index", *tmIndex), zap.Error(err))
	}

	log.Info("Ingest complete",
		zap.Int64("tm_index", result.TMIndex),
		zap.Int("upserted", result.Upserted))
}

func readAreas(path string) (map[string]float64, error) {
	if path == "" {
		return map[string]float64{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return areacsv.Read(f)
}

// ensureProject регистрирует проект без геометрии, существующий проект не трогает
func ensureProject(ctx context.Context, uc *usecase.ProjectUseCase, tmIndex int64) error {
	_, err := uc.CreateProject(ctx, dto.CreateProjectRequest{TMIndex: tmIndex})
	if err != nil && !apperrors.HasCode(err, apperrors.CodeProjectExists) {
		return err
	}
	return nil
}
