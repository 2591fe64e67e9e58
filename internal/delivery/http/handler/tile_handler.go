package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/utils"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
)

// TileHandler - обработчик запросов по адресации тайлов
type TileHandler struct {
	tileUC *usecase.TileUseCase
	areaUC *usecase.AreaUseCase
	logger *zap.Logger
}

// NewTileHandler - создание нового TileHandler
func NewTileHandler(tileUC *usecase.TileUseCase, areaUC *usecase.AreaUseCase, logger *zap.Logger) *TileHandler {
	return &TileHandler{
		tileUC: tileUC,
		areaUC: areaUC,
		logger: logger,
	}
}

// GetChildren godoc
// @Summary Дочерние тайлы
// @Description Четыре дочерних тайла TMS на следующем зуме
// @Tags Tiles
// @Produce json
// @Param z path int true "Зум"
// @Param x path int true "X"
// @Param y path int true "Y (TMS)"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChildrenResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/tiles/{z}/{x}/{y}/children [get]
func (h *TileHandler) GetChildren(c *fiber.Ctx) error {
	tile, err := parseTile(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tileUC.Children(tile)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Children)})
}

// GetBounds godoc
// @Summary Границы тайла
// @Description Границы тайла в градусах и площадь пикселя на широте центра
// @Tags Tiles
// @Produce json
// @Param z path int true "Зум"
// @Param x path int true "X"
// @Param y path int true "Y (TMS)"
// @Success 200 {object} utils.SuccessResponse{data=dto.BoundsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/tiles/{z}/{x}/{y}/bounds [get]
func (h *TileHandler) GetBounds(c *fiber.Ctx) error {
	tile, err := parseTile(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tileUC.Bounds(tile)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetPyramid godoc
// @Summary Пирамида тайлов
// @Description Идентификаторы всех потомков тайла на зуме max_zoom. Разница зумов ограничена TILE_MAX_PYRAMID_DELTA.
// @Tags Tiles
// @Produce json
// @Param z path int true "Зум"
// @Param x path int true "X"
// @Param y path int true "Y (TMS)"
// @Param max_zoom query int false "Зум листьев" default(18)
// @Success 200 {object} utils.SuccessResponse{data=dto.PyramidResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/tiles/{z}/{x}/{y}/pyramid [get]
func (h *TileHandler) GetPyramid(c *fiber.Ctx) error {
	tile, err := parseTile(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	maxZoom, err := queryInt(c, "max_zoom", h.tileUC.MaxZoom())
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tileUC.Pyramid(tile, maxZoom)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Count})
}

// GetArea godoc
// @Summary Площадь зданий в тайле задачи
// @Description Суммы площадей ML и OSM по листовым тайлам пирамиды
// @Tags Tiles
// @Produce json
// @Param z path int true "Зум"
// @Param x path int true "X"
// @Param y path int true "Y (TMS)"
// @Param max_zoom query int false "Зум листьев" default(18)
// @Success 200 {object} utils.SuccessResponse{data=dto.AreaTotalsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/tiles/{z}/{x}/{y}/area [get]
func (h *TileHandler) GetArea(c *fiber.Ctx) error {
	tile, err := parseTile(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	maxZoom, err := queryInt(c, "max_zoom", h.areaUC.MaxZoom())
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.areaUC.TaskTotals(c.Context(), tile, maxZoom)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetPixelArea godoc
// @Summary Площадь пикселя
// @Description Площадь пикселя Web Mercator в м² для широты и зума
// @Tags Tiles
// @Produce json
// @Param lat query number true "Широта"
// @Param zoom query int true "Зум"
// @Success 200 {object} utils.SuccessResponse{data=dto.PixelAreaResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/pixel-area [get]
func (h *TileHandler) GetPixelArea(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidArgument.WithMessage("lat must be a number, got %q", c.Query("lat")))
	}

	zoom, err := strconv.Atoi(c.Query("zoom"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidArgument.WithMessage("zoom must be an integer, got %q", c.Query("zoom")))
	}

	result, err := h.tileUC.PixelArea(lat, zoom)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
