package usecase

import (
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/metrics"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

// DefaultMaxPyramidDelta - предел глубины для выдачи идентификаторов пирамиды (4^10 листьев)
const DefaultMaxPyramidDelta = 10

// TileUseCase - операции над адресацией тайлов: дети, границы, пирамида, площадь пикселя
type TileUseCase struct {
	format          domain.TileFormat
	maxZoom         int
	maxPyramidDelta int
	logger          *zap.Logger
}

// NewTileUseCase создает TileUseCase. maxPyramidDelta ограничивает глубину пирамиды,
// идентификаторы которой отдаются целиком; значение <= 0 заменяется на DefaultMaxPyramidDelta.
func NewTileUseCase(format domain.TileFormat, maxZoom, maxPyramidDelta int, logger *zap.Logger) *TileUseCase {
	if format == "" {
		format = domain.DefaultTileFormat
	}
	if maxPyramidDelta <= 0 {
		maxPyramidDelta = DefaultMaxPyramidDelta
	}
	return &TileUseCase{
		format:          format,
		maxZoom:         maxZoom,
		maxPyramidDelta: maxPyramidDelta,
		logger:          logger,
	}
}

// MaxZoom - зум листьев пирамиды по умолчанию
func (uc *TileUseCase) MaxZoom() int {
	return uc.maxZoom
}

func (uc *TileUseCase) Children(tile domain.TileCoordinate) (*dto.ChildrenResponse, error) {
	children, err := tile.Children()
	if err != nil {
		return nil, err
	}

	resp := &dto.ChildrenResponse{
		Tile:     dto.NewTileResponse(tile),
		Children: make([]dto.TileResponse, 0, len(children)),
	}
	for _, child := range children {
		resp.Children = append(resp.Children, dto.NewTileResponse(child))
	}

	return resp, nil
}

// Bounds возвращает границы тайла и площадь пикселя на широте его центра
func (uc *TileUseCase) Bounds(tile domain.TileCoordinate) (*dto.BoundsResponse, error) {
	bounds, err := tile.Bounds()
	if err != nil {
		return nil, err
	}

	center := bounds.Center()
	pixelArea, err := domain.PixelArea(center.Lat(), tile.Zoom)
	if err != nil {
		return nil, err
	}

	return &dto.BoundsResponse{
		Tile:      dto.NewTileResponse(tile),
		West:      bounds.SouthWest.Lon(),
		South:     bounds.SouthWest.Lat(),
		East:      bounds.NorthEast.Lon(),
		North:     bounds.NorthEast.Lat(),
		CenterLon: center.Lon(),
		CenterLat: center.Lat(),
		PixelArea: pixelArea,
	}, nil
}

// Pyramid возвращает идентификаторы листьев. Пирамиды глубже maxPyramidDelta
// отклоняются: их нельзя отдать одним ответом.
func (uc *TileUseCase) Pyramid(tile domain.TileCoordinate, maxZoom int) (*dto.PyramidResponse, error) {
	if err := domain.ValidatePyramid(tile, maxZoom); err != nil {
		return nil, err
	}
	if delta := maxZoom - tile.Zoom; delta > uc.maxPyramidDelta {
		return nil, apperrors.ErrInvalidArgument.
			WithMessage("pyramid of %s down to zoom %d has delta %d, limit is %d", domain.FormatTileID(tile), maxZoom, delta, uc.maxPyramidDelta).
			WithDetails(map[string]interface{}{"max_zoom": maxZoom, "delta": delta, "max_delta": uc.maxPyramidDelta})
	}

	warnLargePyramid(tile, maxZoom, uc.logger)

	ids, err := domain.Pyramid(tile, maxZoom, uc.format)
	if err != nil {
		return nil, err
	}
	metrics.PyramidTiles.Observe(float64(len(ids)))

	return &dto.PyramidResponse{
		Tile:    dto.NewTileResponse(tile),
		MaxZoom: maxZoom,
		Count:   len(ids),
		TileIDs: ids,
	}, nil
}

func (uc *TileUseCase) PixelArea(latitude float64, zoom int) (*dto.PixelAreaResponse, error) {
	area, err := domain.PixelArea(latitude, zoom)
	if err != nil {
		return nil, err
	}

	return &dto.PixelAreaResponse{
		Latitude:  latitude,
		Zoom:      zoom,
		PixelArea: area,
	}, nil
}

// warnLargePyramid пишет предупреждение о глубоких пирамидах. Вход уже провалидирован.
func warnLargePyramid(top domain.TileCoordinate, maxZoom int, logger *zap.Logger) {
	delta := maxZoom - top.Zoom
	if delta <= domain.LargePyramidDelta {
		return
	}

	metrics.LargePyramids.Inc()
	logger.Warn("Large pyramid requested",
		zap.String("tile", domain.FormatTileID(top)),
		zap.Int("max_zoom", maxZoom),
		zap.Int("delta", delta),
		zap.Int("tiles", domain.PyramidSize(top, maxZoom)))
}
