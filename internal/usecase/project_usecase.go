package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/taskgeom"
	"github.com/developmentseed/ml-tm-utils-pub/internal/usecase/dto"
)

// ProjectUseCase - проекты TM: регистрация, синхронизация геометрии, загрузка площадей
type ProjectUseCase struct {
	projectRepo  repository.ProjectRepository
	tileAreaRepo repository.TileAreaRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
}

func NewProjectUseCase(
	projectRepo repository.ProjectRepository,
	tileAreaRepo repository.TileAreaRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *ProjectUseCase {
	return &ProjectUseCase{
		projectRepo:  projectRepo,
		tileAreaRepo: tileAreaRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// CreateProject регистрирует проект. Если передан документ, сразу сохраняется его геометрия.
func (uc *ProjectUseCase) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &domain.Project{TMIndex: req.TMIndex}

	if len(req.Document) > 0 {
		stripped, err := taskgeom.StripTasks(req.Document)
		if err != nil {
			return nil, err
		}
		project.JSONGeometry = stripped
		project.MD5Hash = taskgeom.Checksum(stripped)
	}

	if _, err := uc.projectRepo.GetByTMIndex(ctx, req.TMIndex); err == nil {
		return nil, apperrors.ErrProjectExists.
			WithMessage("project with TM index %d already exists", req.TMIndex)
	} else if !apperrors.HasCode(err, apperrors.CodeProjectNotFound) {
		return nil, uc.dbError("Failed to look up project", req.TMIndex, err)
	}

	created, err := uc.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, uc.dbError("Failed to create project", req.TMIndex, err)
	}

	uc.logger.Info("Project created", zap.Int64("tm_index", created.TMIndex), zap.Int64("id", created.ID))

	resp := dto.NewProjectResponse(created)
	return &resp, nil
}

func (uc *ProjectUseCase) GetProject(ctx context.Context, tmIndex int64) (*dto.ProjectResponse, error) {
	project, err := uc.getProject(ctx, tmIndex)
	if err != nil {
		return nil, err
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// SyncGeometry сравнивает очищенную геометрию документа с сохранённой
// и перезаписывает её, если MD5 изменился
func (uc *ProjectUseCase) SyncGeometry(ctx context.Context, tmIndex int64, document []byte) (*dto.SyncGeometryResponse, error) {
	stripped, err := taskgeom.StripTasks(document)
	if err != nil {
		return nil, err
	}
	hash := taskgeom.Checksum(stripped)

	project, err := uc.getProject(ctx, tmIndex)
	if err != nil {
		return nil, err
	}

	resp := &dto.SyncGeometryResponse{TMIndex: tmIndex, Hash: hash}
	if project.MD5Hash == hash {
		uc.logger.Debug("Project geometry unchanged", zap.Int64("tm_index", tmIndex))
		return resp, nil
	}

	if err := uc.projectRepo.UpdateGeometry(ctx, tmIndex, stripped, hash); err != nil {
		if apperrors.HasCode(err, apperrors.CodeProjectNotFound) {
			return nil, err
		}
		return nil, uc.dbError("Failed to update project geometry", tmIndex, err)
	}

	uc.logger.Info("Project geometry updated",
		zap.Int64("tm_index", tmIndex),
		zap.String("old_hash", project.MD5Hash),
		zap.String("new_hash", hash))

	resp.Changed = true
	return resp, nil
}

// IngestTileAreas сохраняет площади тайлов проекта и сбрасывает кеш сумм
func (uc *ProjectUseCase) IngestTileAreas(ctx context.Context, tmIndex int64, areas []domain.TileArea) (*dto.IngestTileAreasResponse, error) {
	for i, a := range areas {
		if _, err := domain.ParseTileID(a.TileIndex); err != nil {
			return nil, apperrors.ErrInvalidArgument.
				WithMessage("area %d: invalid tile index %q", i, a.TileIndex).
				WithDetails(map[string]interface{}{"index": i, "tile_index": a.TileIndex})
		}
		if a.BuildingAreaML < 0 || a.BuildingAreaOSM < 0 {
			return nil, apperrors.ErrInvalidArgument.
				WithMessage("area %d: building areas must be non-negative", i).
				WithDetails(map[string]interface{}{"index": i, "tile_index": a.TileIndex})
		}
	}

	project, err := uc.getProject(ctx, tmIndex)
	if err != nil {
		return nil, err
	}

	n, err := uc.tileAreaRepo.Upsert(ctx, project.ID, areas)
	if err != nil {
		return nil, uc.dbError("Failed to upsert tile areas", tmIndex, err)
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.InvalidateAreaTotals(ctx); err != nil {
			uc.logger.Warn("Failed to invalidate area totals cache", zap.Error(err))
		}
	}

	uc.logger.Info("Tile areas ingested", zap.Int64("tm_index", tmIndex), zap.Int("count", n))

	return &dto.IngestTileAreasResponse{TMIndex: tmIndex, Upserted: n}, nil
}

func (uc *ProjectUseCase) ListTileAreas(ctx context.Context, tmIndex int64) ([]domain.TileArea, error) {
	if _, err := uc.getProject(ctx, tmIndex); err != nil {
		return nil, err
	}

	areas, err := uc.tileAreaRepo.ListByProject(ctx, tmIndex)
	if err != nil {
		return nil, uc.dbError("Failed to list tile areas", tmIndex, err)
	}

	return areas, nil
}

func (uc *ProjectUseCase) getProject(ctx context.Context, tmIndex int64) (*domain.Project, error) {
	project, err := uc.projectRepo.GetByTMIndex(ctx, tmIndex)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeProjectNotFound) {
			return nil, err
		}
		return nil, uc.dbError("Failed to get project", tmIndex, err)
	}
	return project, nil
}

func (uc *ProjectUseCase) dbError(msg string, tmIndex int64, err error) error {
	uc.logger.Error(msg, zap.Int64("tm_index", tmIndex), zap.Error(err))
	return fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
}
