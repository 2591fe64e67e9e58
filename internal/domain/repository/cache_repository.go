package repository

import (
	"context"
	"time"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу, nil при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetAreaTotals получает суммы площадей для тайла задачи
	GetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*domain.AreaTotals, error)

	// SetAreaTotals сохраняет суммы площадей для тайла задачи
	SetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int, totals *domain.AreaTotals, ttl time.Duration) error

	// InvalidateAreaTotals удаляет все закешированные суммы площадей
	InvalidateAreaTotals(ctx context.Context) error
}
