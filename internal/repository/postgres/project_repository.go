package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

type projectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository создает новый экземпляр project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repository.ProjectRepository {
	return &projectRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет проект в ml_projects
func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := r.db.Rebind(`
		INSERT INTO ml_projects (tm_index, md5_hash, json_geometry)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	created := *project
	err := r.db.QueryRowxContext(ctx, query,
		project.TMIndex,
		project.MD5Hash,
		project.JSONGeometry,
	).Scan(&created.ID)
	if err != nil {
		r.logger.Error("failed to create project",
			zap.Int64("tm_index", project.TMIndex),
			zap.Error(err))
		return nil, fmt.Errorf("insert project: %w", err)
	}

	r.logger.Debug("project created",
		zap.Int64("id", created.ID),
		zap.Int64("tm_index", created.TMIndex))

	return &created, nil
}

// GetByTMIndex возвращает проект по индексу Tasking Manager
func (r *projectRepository) GetByTMIndex(ctx context.Context, tmIndex int64) (*domain.Project, error) {
	query := r.db.Rebind(`
		SELECT id, tm_index, md5_hash, json_geometry
		FROM ml_projects
		WHERE tm_index = ?
	`)

	var project domain.Project
	if err := r.db.GetContext(ctx, &project, query, tmIndex); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, projectNotFound(tmIndex)
		}
		return nil, fmt.Errorf("get project by tm index: %w", err)
	}

	return &project, nil
}

// UpdateGeometry обновляет геометрию и хеш проекта
func (r *projectRepository) UpdateGeometry(ctx context.Context, tmIndex int64, geometry, hash string) error {
	query := r.db.Rebind(`
		UPDATE ml_projects
		SET json_geometry = ?, md5_hash = ?
		WHERE tm_index = ?
	`)

	res, err := r.db.ExecContext(ctx, query, geometry, hash, tmIndex)
	if err != nil {
		return fmt.Errorf("update project geometry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project geometry rows affected: %w", err)
	}
	if affected == 0 {
		return projectNotFound(tmIndex)
	}

	r.logger.Debug("project geometry updated",
		zap.Int64("tm_index", tmIndex),
		zap.String("md5_hash", hash))

	return nil
}

func projectNotFound(tmIndex int64) error {
	return apperrors.ErrProjectNotFound.
		WithMessage("project with TM index %d not found", tmIndex).
		WithDetails(map[string]interface{}{"tm_index": tmIndex})
}
