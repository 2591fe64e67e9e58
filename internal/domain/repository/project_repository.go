package repository

import (
	"context"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// ProjectRepository интерфейс для работы с проектами TM
type ProjectRepository interface {
	// Create создает проект и возвращает его с присвоенным ID
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)

	// GetByTMIndex возвращает проект по ID в Tasking Manager.
	// Если проект не найден, возвращает errors.ErrProjectNotFound.
	GetByTMIndex(ctx context.Context, tmIndex int64) (*domain.Project, error)

	// UpdateGeometry обновляет очищенную геометрию проекта и её MD5
	UpdateGeometry(ctx context.Context, tmIndex int64, geometry, hash string) error
}
