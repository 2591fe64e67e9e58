// Package areacsv читает выгрузки предсказаний площади зданий по тайлам.
//
// Формат строки: "(z, x, y)",area - первая колонка содержит кортеж координат
// тайла, вторая - площадь в квадратных метрах.
package areacsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

// Read возвращает площади по идентификаторам тайлов "{z}-{x}-{y}".
// Первая строка пропускается, если это заголовок.
func Read(r io.Reader) (map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	areas := make(map[string]float64)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("csv line %d: expected 2 columns, got %d", line, len(record))
		}

		tile, err := parseTuple(record[0])
		if err != nil {
			if line == 1 && isHeader(record) {
				continue
			}
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		area, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: parse area %q: %w", line, record[1], err)
		}
		if math.IsNaN(area) || math.IsInf(area, 0) {
			return nil, fmt.Errorf("csv line %d: area %q is not a finite number", line, record[1])
		}
		if area < 0 {
			return nil, fmt.Errorf("csv line %d: negative area %v", line, area)
		}

		areas[domain.FormatTileID(tile)] = area
	}

	return areas, nil
}

// parseTuple разбирает "(z, x, y)" и валидирует координату
func parseTuple(s string) (domain.TileCoordinate, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.TileCoordinate{}, fmt.Errorf("tile %q: expected (z, x, y)", s)
	}

	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.TileCoordinate{}, fmt.Errorf("tile %q: %w", s, err)
		}
		values[i] = v
	}

	return domain.NewTileCoordinate(values[1], values[2], values[0])
}

func isHeader(record []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	return err != nil
}

// Merge объединяет выгрузки ML и OSM в записи тайлов.
// Тайл, отсутствующий в одной из выгрузок, получает 0 для неё.
func Merge(ml, osm map[string]float64) []domain.TileArea {
	seen := make(map[string]struct{}, len(ml)+len(osm))
	areas := make([]domain.TileArea, 0, len(ml)+len(osm))

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		areas = append(areas, domain.TileArea{
			TileIndex:       id,
			BuildingAreaML:  ml[id],
			BuildingAreaOSM: osm[id],
		})
	}

	for id := range ml {
		add(id)
	}
	for id := range osm {
		add(id)
	}

	return areas
}
