package dto

import (
	"github.com/goccy/go-json"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// TileResponse - тайл с идентификатором
type TileResponse struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Zoom int    `json:"z"`
}

// ChildrenResponse - четыре дочерних тайла
type ChildrenResponse struct {
	Tile     TileResponse   `json:"tile"`
	Children []TileResponse `json:"children"`
}

// BoundsResponse - географические границы тайла
type BoundsResponse struct {
	Tile      TileResponse `json:"tile"`
	West      float64      `json:"west"`
	South     float64      `json:"south"`
	East      float64      `json:"east"`
	North     float64      `json:"north"`
	CenterLon float64      `json:"center_lon"`
	CenterLat float64      `json:"center_lat"`
	// PixelArea - площадь пикселя в центре тайла, м²
	PixelArea float64 `json:"pixel_area"`
}

// PyramidResponse - листовые тайлы пирамиды
type PyramidResponse struct {
	Tile    TileResponse `json:"tile"`
	MaxZoom int          `json:"max_zoom"`
	Count   int          `json:"count"`
	TileIDs []string     `json:"tile_ids"`
}

// PixelAreaResponse - площадь пикселя
type PixelAreaResponse struct {
	Latitude  float64 `json:"lat"`
	Zoom      int     `json:"zoom"`
	PixelArea float64 `json:"pixel_area"`
}

// AreaTotalsResponse - суммы площадей, для задачи или произвольного набора тайлов
type AreaTotalsResponse struct {
	Tile *TileResponse `json:"tile,omitempty"`
	domain.AreaTotals
	Cached bool `json:"cached"`
}

// ProjectResponse - проект без тяжёлой геометрии
type ProjectResponse struct {
	ID          int64  `json:"id"`
	TMIndex     int64  `json:"tm_index"`
	MD5Hash     string `json:"md5_hash"`
	HasGeometry bool   `json:"has_geometry"`
}

// SyncGeometryResponse - результат сравнения геометрии с сохранённой
type SyncGeometryResponse struct {
	TMIndex int64  `json:"tm_index"`
	Hash    string `json:"hash"`
	Changed bool   `json:"changed"`
}

// IngestTileAreasResponse - итог загрузки площадей
type IngestTileAreasResponse struct {
	TMIndex  int64 `json:"tm_index"`
	Upserted int   `json:"upserted"`
}

// AugmentResponse - обогащённый документ проекта
type AugmentResponse struct {
	Document json.RawMessage `json:"document"`
	Tasks    int             `json:"tasks"`
	Skipped  int             `json:"skipped"`
}

// NewTileResponse собирает TileResponse из координаты
func NewTileResponse(t domain.TileCoordinate) TileResponse {
	return TileResponse{
		ID:   domain.FormatTileID(t),
		X:    t.X,
		Y:    t.Y,
		Zoom: t.Zoom,
	}
}

// NewProjectResponse собирает ProjectResponse из проекта
func NewProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		TMIndex:     p.TMIndex,
		MD5Hash:     p.MD5Hash,
		HasGeometry: p.JSONGeometry != "",
	}
}
