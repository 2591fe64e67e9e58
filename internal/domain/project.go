package domain

import "fmt"

// Project - проект Tasking Manager, геометрия которого отслеживается по MD5
type Project struct {
	ID           int64  `json:"id" db:"id"`
	TMIndex      int64  `json:"tm_index" db:"tm_index"`
	MD5Hash      string `json:"md5_hash" db:"md5_hash"`
	JSONGeometry string `json:"json_geometry" db:"json_geometry"`
}

func (p Project) String() string {
	return fmt.Sprintf("<Project(TM index=%d, md5_hash=%s)>", p.TMIndex, p.MD5Hash)
}

// TileArea - площадь зданий в листовом тайле: предсказание ML и разметка OSM
type TileArea struct {
	ID              int64   `json:"id" db:"id"`
	ProjectID       int64   `json:"project_id" db:"project_id"`
	TileIndex       string  `json:"tile_index" db:"tile_index"`
	BuildingAreaML  float64 `json:"building_area_ml" db:"building_area_ml"`
	BuildingAreaOSM float64 `json:"building_area_osm" db:"building_area_osm"`
}

// AreaTotals - суммарные площади по набору тайлов
type AreaTotals struct {
	ML      float64 `json:"building_area_ml"`
	OSM     float64 `json:"building_area_osm"`
	Tiles   int     `json:"tiles"`
	Matched int     `json:"matched"`
	MaxZoom int     `json:"max_zoom,omitempty"`
}

// Add добавляет запись тайла к сумме
func (a *AreaTotals) Add(area TileArea) {
	a.ML += area.BuildingAreaML
	a.OSM += area.BuildingAreaOSM
	a.Matched++
}

// Merge добавляет к сумме частичный результат другой пачки тайлов
func (a *AreaTotals) Merge(other *AreaTotals) {
	a.ML += other.ML
	a.OSM += other.OSM
	a.Tiles += other.Tiles
	a.Matched += other.Matched
}

// Task properties, которые читаются и пишутся при обогащении проекта
const (
	PropTaskID          = "taskId"
	PropTaskX           = "taskX"
	PropTaskY           = "taskY"
	PropTaskZoom        = "taskZoom"
	PropBuildingAreaML  = "building_area_ml_pred"
	PropBuildingAreaOSM = "building_area_osm"
)
