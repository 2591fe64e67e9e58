package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
)

const (
	areaKeyPrefix = "area:"
	scanBatchSize = 500
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetAreaTotals получает суммы площадей из кеша, nil при промахе
func (r *cacheRepository) GetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*domain.AreaTotals, error) {
	data, err := r.Get(ctx, AreaTotalsKey(tile, maxZoom))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var totals domain.AreaTotals
	if err := json.Unmarshal(data, &totals); err != nil {
		r.logger.Error("Failed to unmarshal area totals from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal area totals: %w", err)
	}

	return &totals, nil
}

// SetAreaTotals сохраняет суммы площадей в кеше
func (r *cacheRepository) SetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int, totals *domain.AreaTotals, ttl time.Duration) error {
	data, err := json.Marshal(totals)
	if err != nil {
		r.logger.Error("Failed to marshal area totals", zap.Error(err))
		return fmt.Errorf("marshal area totals: %w", err)
	}

	return r.Set(ctx, AreaTotalsKey(tile, maxZoom), data, ttl)
}

// InvalidateAreaTotals удаляет все ключи area:*
func (r *cacheRepository) InvalidateAreaTotals(ctx context.Context) error {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, areaKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			r.logger.Error("Failed to scan area totals keys", zap.Error(err))
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.logger.Error("Failed to delete area totals keys", zap.Error(err))
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("Area totals invalidated", zap.Int("keys", deleted))
	return nil
}

// AreaTotalsKey возвращает ключ вида area:{z}-{x}-{y}:{maxZoom}
func AreaTotalsKey(tile domain.TileCoordinate, maxZoom int) string {
	return fmt.Sprintf("%s%s:%d", areaKeyPrefix, domain.FormatTileID(tile), maxZoom)
}
