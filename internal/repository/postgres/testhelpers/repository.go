package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain/repository"
	"github.com/developmentseed/ml-tm-utils-pub/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewProjectRepositoryForTest creates a project repository with test database and logger
func NewProjectRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ProjectRepository {
	return postgres.NewProjectRepository(NewDBForTest(db, logger), logger)
}

// NewTileAreaRepositoryForTest creates a tile area repository with test database and logger
func NewTileAreaRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.TileAreaRepository {
	return postgres.NewTileAreaRepository(NewDBForTest(db, logger), logger)
}
