package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
)

// LoadFixtures loads SQL fixture files into the database
func LoadFixtures(db *sql.DB, fixturesPath string, files []string) error {
	for _, file := range files {
		if err := execFile(db, filepath.Join(fixturesPath, file)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
	}

	return nil
}

// GetProjectIDByTMIndex returns the internal ID for a project given its Tasking Manager index
func GetProjectIDByTMIndex(db *sql.DB, tmIndex int64) (int64, error) {
	var id int64
	err := db.QueryRowContext(context.Background(),
		"SELECT id FROM ml_projects WHERE tm_index = ?", tmIndex).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get project ID by TM index %d: %w", tmIndex, err)
	}
	return id, nil
}

// CountTileAreas returns the number of tile rows stored for a project
func CountTileAreas(db *sql.DB, projectID int64) (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM tile_pred_buildings WHERE project_id = ?", projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tile areas of project %d: %w", projectID, err)
	}
	return n, nil
}
