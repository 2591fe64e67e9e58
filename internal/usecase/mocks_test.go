package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// MockProjectRepository is a mock of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByTMIndex(ctx context.Context, tmIndex int64) (*domain.Project, error) {
	args := m.Called(ctx, tmIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) UpdateGeometry(ctx context.Context, tmIndex int64, geometry, hash string) error {
	args := m.Called(ctx, tmIndex, geometry, hash)
	return args.Error(0)
}

// MockTileAreaRepository is a mock of TileAreaRepository
type MockTileAreaRepository struct {
	mock.Mock
}

func (m *MockTileAreaRepository) AreasForTiles(ctx context.Context, tileIDs []string) ([]domain.TileArea, error) {
	args := m.Called(ctx, tileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TileArea), args.Error(1)
}

func (m *MockTileAreaRepository) WalkZoom(ctx context.Context, zoom int, fn func(domain.TileArea) error) error {
	args := m.Called(ctx, zoom)
	if rows, ok := args.Get(0).([]domain.TileArea); ok {
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockTileAreaRepository) ListByProject(ctx context.Context, tmIndex int64) ([]domain.TileArea, error) {
	args := m.Called(ctx, tmIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TileArea), args.Error(1)
}

func (m *MockTileAreaRepository) Upsert(ctx context.Context, projectID int64, areas []domain.TileArea) (int, error) {
	args := m.Called(ctx, projectID, areas)
	return args.Int(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int) (*domain.AreaTotals, error) {
	args := m.Called(ctx, tile, maxZoom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AreaTotals), args.Error(1)
}

func (m *MockCacheRepository) SetAreaTotals(ctx context.Context, tile domain.TileCoordinate, maxZoom int, totals *domain.AreaTotals, ttl time.Duration) error {
	args := m.Called(ctx, tile, maxZoom, totals, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateAreaTotals(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixtureAreas - площади тестового проекта 26
func fixtureAreas() []domain.TileArea {
	return []domain.TileArea{
		{ID: 1, ProjectID: 1, TileIndex: "18-1241-23141", BuildingAreaML: 5.9, BuildingAreaOSM: 10.0},
		{ID: 2, ProjectID: 1, TileIndex: "18-2825-7041", BuildingAreaML: 0, BuildingAreaOSM: 1.0},
		{ID: 3, ProjectID: 1, TileIndex: "18-2824-7041", BuildingAreaML: 0.99, BuildingAreaOSM: 5.1},
		{ID: 4, ProjectID: 1, TileIndex: "18-2824-7040", BuildingAreaML: 0, BuildingAreaOSM: 0},
		{ID: 5, ProjectID: 1, TileIndex: "18-2825-7040", BuildingAreaML: 99.01, BuildingAreaOSM: 0.9},
	}
}

// areasLookup отбирает из fixtureAreas записи с указанными ids
func areasLookup(ids []string) []domain.TileArea {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []domain.TileArea
	for _, a := range fixtureAreas() {
		if _, ok := want[a.TileIndex]; ok {
			out = append(out, a)
		}
	}
	return out
}
