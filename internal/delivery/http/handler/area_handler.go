package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/utils"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

// AreaHandler - суммы площадей и обогащение документов проектов
type AreaHandler struct {
	areaUC *usecase.AreaUseCase
	logger *zap.Logger
}

func NewAreaHandler(areaUC *usecase.AreaUseCase, logger *zap.Logger) *AreaHandler {
	return &AreaHandler{
		areaUC: areaUC,
		logger: logger,
	}
}

// TotalArea godoc
// @Summary Сумма площадей по тайлам
// @Description Суммирует площади ML и OSM по списку идентификаторов {z}-{x}-{y}
// @Tags Areas
// @Accept json
// @Produce json
// @Param request body dto.TotalAreaRequest true "Идентификаторы тайлов"
// @Success 200 {object} utils.SuccessResponse{data=dto.AreaTotalsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/areas/total [post]
func (h *AreaHandler) TotalArea(c *fiber.Ctx) error {
	var req dto.TotalAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	totals, err := h.areaUC.TotalBuildingArea(c.Context(), req.TileIDs)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.AreaTotalsResponse{AreaTotals: *totals}, nil)
}

// Augment godoc
// @Summary Обогащение документа проекта
// @Description Дописывает building_area_ml_pred и building_area_osm в свойства каждой задачи
// @Tags Projects
// @Accept json
// @Produce json
// @Param document body object true "Документ проекта Tasking Manager"
// @Success 200 {object} utils.SuccessResponse{data=dto.AugmentResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/projects/augment [post]
func (h *AreaHandler) Augment(c *fiber.Ctx) error {
	result, err := h.areaUC.AugmentProject(c.Context(), c.Body())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Tasks})
}
