package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/utils"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

// ProjectHandler - обработчик запросов по проектам TM
type ProjectHandler struct {
	projectUC *usecase.ProjectUseCase
	logger    *zap.Logger
}

func NewProjectHandler(projectUC *usecase.ProjectUseCase, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectUC: projectUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Регистрация проекта
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Проект"
// @Success 201 {object} utils.SuccessResponse{data=dto.ProjectResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.projectUC.CreateProject(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, result)
}

// Get godoc
// @Summary Проект по TM index
// @Tags Projects
// @Produce json
// @Param tm_index path int true "ID проекта в Tasking Manager"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProjectResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/projects/{tm_index} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	tmIndex, err := parseTMIndex(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.projectUC.GetProject(c.Context(), tmIndex)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// SyncGeometry godoc
// @Summary Синхронизация геометрии проекта
// @Description Сохраняет очищенную геометрию задач, если её MD5 изменился
// @Tags Projects
// @Accept json
// @Produce json
// @Param tm_index path int true "ID проекта в Tasking Manager"
// @Param document body object true "Документ проекта Tasking Manager"
// @Success 200 {object} utils.SuccessResponse{data=dto.SyncGeometryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/projects/{tm_index}/geometry [put]
func (h *ProjectHandler) SyncGeometry(c *fiber.Ctx) error {
	tmIndex, err := parseTMIndex(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.projectUC.SyncGeometry(c.Context(), tmIndex, c.Body())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// IngestTileAreas godoc
// @Summary Загрузка площадей по тайлам
// @Tags Projects
// @Accept json
// @Produce json
// @Param tm_index path int true "ID проекта в Tasking Manager"
// @Param request body dto.IngestTileAreasRequest true "Площади"
// @Success 200 {object} utils.SuccessResponse{data=dto.IngestTileAreasResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/projects/{tm_index}/tile-areas [post]
func (h *ProjectHandler) IngestTileAreas(c *fiber.Ctx) error {
	tmIndex, err := parseTMIndex(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.IngestTileAreasRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}

	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	areas := make([]domain.TileArea, 0, len(req.Areas))
	for _, a := range req.Areas {
		areas = append(areas, domain.TileArea{
			TileIndex:       a.TileIndex,
			BuildingAreaML:  a.BuildingAreaML,
			BuildingAreaOSM: a.BuildingAreaOSM,
		})
	}

	result, err := h.projectUC.IngestTileAreas(c.Context(), tmIndex, areas)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ListTileAreas godoc
// @Summary Площади тайлов проекта
// @Tags Projects
// @Produce json
// @Param tm_index path int true "ID проекта в Tasking Manager"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.TileArea}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/projects/{tm_index}/tile-areas [get]
func (h *ProjectHandler) ListTileAreas(c *fiber.Ctx) error {
	tmIndex, err := parseTMIndex(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	areas, err := h.projectUC.ListTileAreas(c.Context(), tmIndex)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, areas, &utils.Meta{Total: len(areas)})
}
