package dto

import "github.com/goccy/go-json"

// CreateProjectRequest - регистрация проекта Tasking Manager
type CreateProjectRequest struct {
	TMIndex  int64           `json:"tm_index" validate:"required,min=1"`
	Document json.RawMessage `json:"document,omitempty"`
}

// TotalAreaRequest - суммирование площадей по списку тайлов
type TotalAreaRequest struct {
	TileIDs []string `json:"tile_ids" validate:"required,min=1,max=100000,dive,tileid"`
}

// TileAreaInput - площади одного листового тайла
type TileAreaInput struct {
	TileIndex       string  `json:"tile_index" validate:"required,tileid"`
	BuildingAreaML  float64 `json:"building_area_ml" validate:"min=0"`
	BuildingAreaOSM float64 `json:"building_area_osm" validate:"min=0"`
}

// IngestTileAreasRequest - пакет площадей для проекта
type IngestTileAreasRequest struct {
	Areas []TileAreaInput `json:"areas" validate:"required,min=1,dive"`
}
