package repository

import (
	"context"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// TileAreaRepository интерфейс для работы с площадями зданий по тайлам
type TileAreaRepository interface {
	// AreasForTiles возвращает записи для указанных идентификаторов тайлов.
	// Неизвестные идентификаторы пропускаются.
	AreasForTiles(ctx context.Context, tileIDs []string) ([]domain.TileArea, error)

	// WalkZoom последовательно передает в fn все записи тайлов зума zoom,
	// не загружая таблицу в память. Ошибка fn останавливает обход.
	WalkZoom(ctx context.Context, zoom int, fn func(domain.TileArea) error) error

	// ListByProject возвращает все записи тайлов проекта по его TM index
	ListByProject(ctx context.Context, tmIndex int64) ([]domain.TileArea, error)

	// Upsert сохраняет записи проекта, обновляя существующие по (project_id, tile_index)
	Upsert(ctx context.Context, projectID int64, areas []domain.TileArea) (int, error)
}
