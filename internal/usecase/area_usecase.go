package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/metrics"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/taskgeom"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

// areaBatchSize - число листьев в одном запросе к репозиторию при обходе пирамиды
const areaBatchSize = 1000

// AreaUseCase суммирует площади зданий по листовым тайлам
type AreaUseCase struct {
	tileAreaRepo repository.TileAreaRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
	maxZoom      int
	cacheTTL     time.Duration
}

// NewAreaUseCase создает AreaUseCase. cacheRepo может быть nil, тогда кеш не используется.
func NewAreaUseCase(
	tileAreaRepo repository.TileAreaRepository,
	cacheRepo repository.CacheRepository,
	maxZoom int,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AreaUseCase {
	return &AreaUseCase{
		tileAreaRepo: tileAreaRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
		maxZoom:      maxZoom,
		cacheTTL:     cacheTTL,
	}
}

// MaxZoom - зум листовых тайлов, на котором хранятся площади
func (uc *AreaUseCase) MaxZoom() int {
	return uc.maxZoom
}

// TotalBuildingArea суммирует площади по идентификаторам тайлов.
// Тайлы без записи в БД дают ноль, повторяющиеся идентификаторы учитываются один раз.
func (uc *AreaUseCase) TotalBuildingArea(ctx context.Context, tileIDs []string) (*domain.AreaTotals, error) {
	tileIDs = domain.UniqueTileIDs(tileIDs)

	areas, err := uc.tileAreaRepo.AreasForTiles(ctx, tileIDs)
	if err != nil {
		uc.logger.Error("Failed to fetch tile areas", zap.Int("tiles", len(tileIDs)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
	}

	totals := &domain.AreaTotals{Tiles: len(tileIDs)}
	for _, a := range areas {
		totals.Add(a)
	}

	return totals, nil
}

// TaskTotals разворачивает тайл задачи до maxZoom и суммирует площади листьев
func (uc *AreaUseCase) TaskTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*dto.AreaTotalsResponse, error) {
	if err := tile.Validate(); err != nil {
		return nil, err
	}

	tileResp := dto.NewTileResponse(tile)

	if cached := uc.getCached(ctx, tile, maxZoom); cached != nil {
		return &dto.AreaTotalsResponse{Tile: &tileResp, AreaTotals: *cached, Cached: true}, nil
	}

	if err := domain.ValidatePyramid(tile, maxZoom); err != nil {
		return nil, err
	}
	warnLargePyramid(tile, maxZoom, uc.logger)
	metrics.PyramidTiles.Observe(float64(domain.PyramidSize(tile, maxZoom)))

	var totals *domain.AreaTotals
	var err error
	if maxZoom-tile.Zoom <= domain.LargePyramidDelta {
		totals, err = uc.sumPyramid(ctx, tile, maxZoom)
	} else {
		totals, err = uc.sumZoomScan(ctx, tile, maxZoom)
	}
	if err != nil {
		return nil, err
	}
	totals.MaxZoom = maxZoom

	uc.setCached(ctx, tile, maxZoom, totals)

	return &dto.AreaTotalsResponse{Tile: &tileResp, AreaTotals: *totals}, nil
}

// sumPyramid обходит листья и запрашивает их площади пачками по areaBatchSize
func (uc *AreaUseCase) sumPyramid(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*domain.AreaTotals, error) {
	totals := &domain.AreaTotals{}
	batch := make([]string, 0, areaBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sum, err := uc.TotalBuildingArea(ctx, batch)
		if err != nil {
			return err
		}
		totals.Merge(sum)
		batch = make([]string, 0, areaBatchSize)
		return nil
	}

	// В БД tile_index всегда в формате {z}-{x}-{y}
	err := domain.WalkPyramid(tile, maxZoom, func(leaf domain.TileCoordinate) error {
		batch = append(batch, domain.FormatTileID(leaf))
		if len(batch) < areaBatchSize {
			return nil
		}
		return flush()
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return totals, nil
}

// sumZoomScan суммирует записи зума maxZoom, попадающие под tile.
// Для глубоких пирамид записей в таблице на порядки меньше, чем листьев.
func (uc *AreaUseCase) sumZoomScan(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*domain.AreaTotals, error) {
	totals := &domain.AreaTotals{Tiles: domain.PyramidSize(tile, maxZoom)}

	err := uc.tileAreaRepo.WalkZoom(ctx, maxZoom, func(area domain.TileArea) error {
		leaf, err := domain.ParseTileID(area.TileIndex)
		if err != nil || !tile.Contains(leaf) {
			return nil
		}
		totals.Add(area)
		return nil
	})
	if err != nil {
		uc.logger.Error("Failed to scan tile areas",
			zap.String("tile", domain.FormatTileID(tile)),
			zap.Int("max_zoom", maxZoom),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
	}

	return totals, nil
}

// AugmentProject дописывает в свойства каждой задачи площади ML и OSM.
// Задачи без корректных taskX/taskY/taskZoom пропускаются.
func (uc *AreaUseCase) AugmentProject(ctx context.Context, document []byte) (*dto.AugmentResponse, error) {
	doc, err := taskgeom.ParseDocument(document)
	if err != nil {
		return nil, err
	}

	resp := &dto.AugmentResponse{}
	for i, f := range doc.Tasks.Features {
		tile, ok := taskTile(f.Properties)
		if !ok {
			uc.logger.Warn("Task has no valid tile properties, skipping",
				zap.Int("feature", i),
				zap.Any("task_id", f.Properties[domain.PropTaskID]))
			metrics.TasksAugmented.WithLabelValues("skipped").Inc()
			resp.Skipped++
			continue
		}

		totals, err := uc.TaskTotals(ctx, tile, uc.maxZoom)
		if err != nil {
			metrics.TasksAugmented.WithLabelValues("failed").Inc()
			return nil, err
		}

		f.Properties[domain.PropBuildingAreaML] = totals.ML
		f.Properties[domain.PropBuildingAreaOSM] = totals.OSM
		metrics.TasksAugmented.WithLabelValues("ok").Inc()
		resp.Tasks++
	}

	out, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode augmented document: %w", err)
	}
	resp.Document = json.RawMessage(out)

	uc.logger.Info("Project document augmented",
		zap.Int("tasks", resp.Tasks),
		zap.Int("skipped", resp.Skipped))

	return resp, nil
}

func (uc *AreaUseCase) getCached(ctx context.Context, tile domain.TileCoordinate, maxZoom int) *domain.AreaTotals {
	if uc.cacheRepo == nil {
		return nil
	}

	totals, err := uc.cacheRepo.GetAreaTotals(ctx, tile, maxZoom)
	if err != nil {
		// Кеш не обязателен, идём в БД
		uc.logger.Warn("Failed to read area totals from cache", zap.Error(err))
		return nil
	}
	if totals == nil {
		metrics.CacheMisses.WithLabelValues("area_totals").Inc()
		return nil
	}

	metrics.CacheHits.WithLabelValues("area_totals").Inc()
	return totals
}

func (uc *AreaUseCase) setCached(ctx context.Context, tile domain.TileCoordinate, maxZoom int, totals *domain.AreaTotals) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.SetAreaTotals(ctx, tile, maxZoom, totals, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache area totals",
			zap.String("tile", domain.FormatTileID(tile)),
			zap.Error(err))
	}
}

// taskTile читает taskX, taskY, taskZoom из свойств задачи
func taskTile(props geojson.Properties) (domain.TileCoordinate, bool) {
	x, okX := intProperty(props, domain.PropTaskX)
	y, okY := intProperty(props, domain.PropTaskY)
	z, okZ := intProperty(props, domain.PropTaskZoom)
	if !okX || !okY || !okZ {
		return domain.TileCoordinate{}, false
	}

	tile, err := domain.NewTileCoordinate(x, y, z)
	if err != nil {
		return domain.TileCoordinate{}, false
	}
	return tile, true
}

func intProperty(props geojson.Properties, key string) (int, bool) {
	switch v := props[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
