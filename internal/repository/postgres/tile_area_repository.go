package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
)

// maxInListSize - максимум идентификаторов в одном IN (...)
const maxInListSize = 1000

type tileAreaRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTileAreaRepository создает новый экземпляр tile area repository
func NewTileAreaRepository(db *DB, logger *zap.Logger) repository.TileAreaRepository {
	return &tileAreaRepository{
		db:     db,
		logger: logger,
	}
}

// AreasForTiles возвращает записи тайлов, запрашивая их пачками.
// Повторы в tileIDs схлопываются, иначе запись из разных пачек попала бы в ответ дважды.
func (r *tileAreaRepository) AreasForTiles(ctx context.Context, tileIDs []string) ([]domain.TileArea, error) {
	tileIDs = domain.UniqueTileIDs(tileIDs)
	result := make([]domain.TileArea, 0)

	for start := 0; start < len(tileIDs); start += maxInListSize {
		end := start + maxInListSize
		if end > len(tileIDs) {
			end = len(tileIDs)
		}

		query, args, err := sqlx.In(`
			SELECT id, project_id, tile_index, building_area_ml, building_area_osm
			FROM tile_pred_buildings
			WHERE tile_index IN (?)
		`, tileIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("build tile areas query: %w", err)
		}

		var chunk []domain.TileArea
		if err := r.db.SelectContext(ctx, &chunk, r.db.Rebind(query), args...); err != nil {
			r.logger.Error("failed to query tile areas",
				zap.Int("chunk_size", end-start),
				zap.Error(err))
			return nil, fmt.Errorf("query tile areas: %w", err)
		}

		result = append(result, chunk...)
	}

	r.logger.Debug("tile areas fetched",
		zap.Int("requested", len(tileIDs)),
		zap.Int("found", len(result)))

	return result, nil
}

// WalkZoom обходит записи зума zoom курсором, по одной строке за раз
func (r *tileAreaRepository) WalkZoom(ctx context.Context, zoom int, fn func(domain.TileArea) error) error {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(`
		SELECT id, project_id, tile_index, building_area_ml, building_area_osm
		FROM tile_pred_buildings
		WHERE tile_index LIKE ?
	`), fmt.Sprintf("%d-%%", zoom))
	if err != nil {
		r.logger.Error("failed to scan tile areas", zap.Int("zoom", zoom), zap.Error(err))
		return fmt.Errorf("scan tile areas: %w", err)
	}
	defer rows.Close()

	scanned := 0
	for rows.Next() {
		var area domain.TileArea
		if err := rows.StructScan(&area); err != nil {
			return fmt.Errorf("scan tile area row: %w", err)
		}
		scanned++
		if err := fn(area); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tile areas: %w", err)
	}

	r.logger.Debug("tile areas scanned",
		zap.Int("zoom", zoom),
		zap.Int("rows", scanned))

	return nil
}

// ListByProject возвращает записи тайлов проекта по его TM index
func (r *tileAreaRepository) ListByProject(ctx context.Context, tmIndex int64) ([]domain.TileArea, error) {
	query := r.db.Rebind(`
		SELECT t.id, t.project_id, t.tile_index, t.building_area_ml, t.building_area_osm
		FROM tile_pred_buildings t
		JOIN ml_projects p ON p.id = t.project_id
		WHERE p.tm_index = ?
		ORDER BY t.id
	`)

	areas := make([]domain.TileArea, 0)
	if err := r.db.SelectContext(ctx, &areas, query, tmIndex); err != nil {
		return nil, fmt.Errorf("list tile areas by project: %w", err)
	}

	return areas, nil
}

// Upsert сохраняет записи в одной транзакции
func (r *tileAreaRepository) Upsert(ctx context.Context, projectID int64, areas []domain.TileArea) (int, error) {
	if len(areas) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, r.db.Rebind(`
		INSERT INTO tile_pred_buildings (project_id, tile_index, building_area_ml, building_area_osm)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, tile_index) DO UPDATE
		SET building_area_ml = excluded.building_area_ml,
			building_area_osm = excluded.building_area_osm
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range areas {
		if _, err := stmt.ExecContext(ctx, projectID, a.TileIndex, a.BuildingAreaML, a.BuildingAreaOSM); err != nil {
			return 0, fmt.Errorf("upsert tile %s: %w", a.TileIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tile areas: %w", err)
	}

	r.logger.Info("tile areas upserted",
		zap.Int64("project_id", projectID),
		zap.Int("count", len(areas)))

	return len(areas), nil
}
