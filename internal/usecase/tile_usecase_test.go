package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
)

func TestTileUseCase_Children(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	resp, err := uc.Children(domain.TileCoordinate{X: 1412, Y: 3520, Zoom: 17})
	require.NoError(t, err)

	ids := make([]string, 0, len(resp.Children))
	for _, c := range resp.Children {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, "17-1412-3520", resp.Tile.ID)
	assert.ElementsMatch(t, []string{"18-2824-7040", "18-2824-7041", "18-2825-7040", "18-2825-7041"}, ids)
}

func TestTileUseCase_Children_MaxZoom(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	_, err := uc.Children(domain.TileCoordinate{X: 0, Y: 0, Zoom: domain.MaxZoom})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
}

func TestTileUseCase_Bounds(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	resp, err := uc.Bounds(domain.TileCoordinate{X: 0, Y: 0, Zoom: 0})
	require.NoError(t, err)

	assert.InDelta(t, -180.0, resp.West, 1e-9)
	assert.InDelta(t, 180.0, resp.East, 1e-9)
	assert.InDelta(t, -85.0511287798, resp.South, 1e-6)
	assert.InDelta(t, 85.0511287798, resp.North, 1e-6)
	assert.InDelta(t, 0.0, resp.CenterLat, 1e-9)
	assert.InDelta(t, 156543.03*156543.03, resp.PixelArea, 1e-3)
}

func TestTileUseCase_Pyramid(t *testing.T) {
	tests := []struct {
		name    string
		format  domain.TileFormat
		tile    domain.TileCoordinate
		maxZoom int
		want    []string
	}{
		{
			name:    "default format",
			tile:    domain.TileCoordinate{X: 1412, Y: 3520, Zoom: 17},
			maxZoom: 18,
			want:    []string{"18-2824-7040", "18-2824-7041", "18-2825-7040", "18-2825-7041"},
		},
		{
			name:    "custom format",
			format:  "{z}/{x}/{y}",
			tile:    domain.TileCoordinate{X: 1412, Y: 3520, Zoom: 17},
			maxZoom: 18,
			want:    []string{"18/2824/7040", "18/2824/7041", "18/2825/7040", "18/2825/7041"},
		},
		{
			name:    "degenerate",
			tile:    domain.TileCoordinate{X: 3, Y: 5, Zoom: 10},
			maxZoom: 10,
			want:    []string{"10-3-5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewTileUseCase(tt.format, 18, 0, zap.NewNop())

			resp, err := uc.Pyramid(tt.tile, tt.maxZoom)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), resp.Count)
			assert.Equal(t, tt.maxZoom, resp.MaxZoom)
			assert.ElementsMatch(t, tt.want, resp.TileIDs)
		})
	}
}

func TestTileUseCase_Pyramid_Invalid(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	_, err := uc.Pyramid(domain.TileCoordinate{X: 1, Y: 1, Zoom: 5}, 4)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))

	_, err = uc.Pyramid(domain.TileCoordinate{X: 1, Y: 1, Zoom: 5}, 20)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
}

func TestTileUseCase_Pyramid_DeltaLimit(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 2, zap.NewNop())

	resp, err := uc.Pyramid(domain.TileCoordinate{X: 5, Y: 314, Zoom: 16}, 18)
	require.NoError(t, err)
	assert.Equal(t, 16, resp.Count)

	_, err = uc.Pyramid(domain.TileCoordinate{X: 2, Y: 157, Zoom: 15}, 18)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgument))

	_, err = uc.Pyramid(domain.TileCoordinate{X: 2, Y: 157, Zoom: 15}, 20)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
}

func TestTileUseCase_Pyramid_DefaultDeltaLimit(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	_, err := uc.Pyramid(domain.TileCoordinate{X: 0, Y: 0, Zoom: 0}, 18)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgument))

	resp, err := uc.Pyramid(domain.TileCoordinate{X: 0, Y: 0, Zoom: 0}, usecase.DefaultMaxPyramidDelta)
	require.NoError(t, err)
	assert.Equal(t, 1<<(2*usecase.DefaultMaxPyramidDelta), resp.Count)
}

func TestTileUseCase_PixelArea(t *testing.T) {
	uc := usecase.NewTileUseCase("", 18, 0, zap.NewNop())

	resp, err := uc.PixelArea(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 156543.03*156543.03, resp.PixelArea, 1e-3)

	_, err = uc.PixelArea(91, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgument))
}
