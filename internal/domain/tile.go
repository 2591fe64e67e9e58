package domain

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

// Диапазон зумов slippy-map, в котором работает сервис
const (
	MinZoom = 0
	MaxZoom = 19

	// DefaultLeafZoom - зум листовых тайлов, на котором хранятся площади зданий
	DefaultLeafZoom = 18
)

// TileCoordinate - координата тайла в схеме TMS (начало координат внизу слева)
type TileCoordinate struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Zoom int `json:"z"`
}

// NewTileCoordinate создает и валидирует координату тайла
func NewTileCoordinate(x, y, zoom int) (TileCoordinate, error) {
	t := TileCoordinate{X: x, Y: y, Zoom: zoom}
	if err := t.Validate(); err != nil {
		return TileCoordinate{}, err
	}
	return t, nil
}

// Validate проверяет, что зум в [0, 19], а x и y в [0, 2^zoom-1]
func (t TileCoordinate) Validate() error {
	if t.Zoom < MinZoom || t.Zoom > MaxZoom {
		return invalidCoordinate(t, "zoom %d outside bounds of [%d, %d]", t.Zoom, MinZoom, MaxZoom)
	}

	n := 1 << uint(t.Zoom)
	if t.X < 0 || t.X >= n {
		return invalidCoordinate(t, "x %d outside bounds of [0, %d]", t.X, n-1)
	}
	if t.Y < 0 || t.Y >= n {
		return invalidCoordinate(t, "y %d outside bounds of [0, %d]", t.Y, n-1)
	}

	return nil
}

func (t TileCoordinate) String() string {
	return FormatTileID(t)
}

// Children возвращает четыре дочерних тайла на зуме zoom+1
func (t TileCoordinate) Children() ([4]TileCoordinate, error) {
	if err := t.Validate(); err != nil {
		return [4]TileCoordinate{}, err
	}
	if t.Zoom >= MaxZoom {
		return [4]TileCoordinate{}, invalidCoordinate(t, "tile at zoom %d has no children within [%d, %d]", t.Zoom, MinZoom, MaxZoom)
	}

	return t.children(), nil
}

// Contains сообщает, лежит ли c в поддереве t (сам t тоже входит).
// Схема TMS не мешает: родитель по y так же получается сдвигом.
func (t TileCoordinate) Contains(c TileCoordinate) bool {
	if c.Zoom < t.Zoom {
		return false
	}
	d := uint(c.Zoom - t.Zoom)
	return c.X>>d == t.X && c.Y>>d == t.Y
}

// children не валидирует вход, вызывающий отвечает за диапазон
func (t TileCoordinate) children() [4]TileCoordinate {
	x, y, z := t.X*2, t.Y*2, t.Zoom+1
	return [4]TileCoordinate{
		{X: x, Y: y, Zoom: z},
		{X: x, Y: y + 1, Zoom: z},
		{X: x + 1, Y: y, Zoom: z},
		{X: x + 1, Y: y + 1, Zoom: z},
	}
}

// Bounds возвращает географические границы тайла (обратная проекция Web Mercator)
func (t TileCoordinate) Bounds() (TileBounds, error) {
	if err := t.Validate(); err != nil {
		return TileBounds{}, err
	}

	b := t.xyz().Bound()
	return TileBounds{SouthWest: b.Min, NorthEast: b.Max}, nil
}

// xyz переводит TMS-координату в XYZ (Google) схему, которую использует maptile
func (t TileCoordinate) xyz() maptile.Tile {
	flipped := (1 << uint(t.Zoom)) - 1 - t.Y
	return maptile.New(uint32(t.X), uint32(flipped), maptile.Zoom(t.Zoom))
}

// TileBounds - прямоугольник в долготе/широте
type TileBounds struct {
	SouthWest orb.Point `json:"south_west"`
	NorthEast orb.Point `json:"north_east"`
}

// Bound возвращает границы в виде orb.Bound
func (b TileBounds) Bound() orb.Bound {
	return orb.Bound{Min: b.SouthWest, Max: b.NorthEast}
}

// Center - центр прямоугольника в градусах
func (b TileBounds) Center() orb.Point {
	return b.Bound().Center()
}

// FormatTileID сериализует тайл в каноническую строку "{zoom}-{x}-{y}"
func FormatTileID(t TileCoordinate) string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.Itoa(t.Zoom))
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(t.X))
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(t.Y))
	return sb.String()
}

// UniqueTileIDs убирает повторы, сохраняя порядок первых вхождений.
// Без повторов возвращается исходный срез.
func UniqueTileIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var unique []string
	for i, id := range ids {
		if _, ok := seen[id]; ok {
			if unique == nil {
				unique = make([]string, i, len(ids)-1)
				copy(unique, ids[:i])
			}
			continue
		}
		seen[id] = struct{}{}
		if unique != nil {
			unique = append(unique, id)
		}
	}
	if unique == nil {
		return ids
	}
	return unique
}

// ParseTileID разбирает строку "{zoom}-{x}-{y}" обратно в координату
func ParseTileID(id string) (TileCoordinate, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return TileCoordinate{}, apperrors.ErrInvalidCoordinate.
			WithMessage("tile id %q must have the form {zoom}-{x}-{y}", id).
			WithDetails(map[string]interface{}{"tile_id": id})
	}

	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return TileCoordinate{}, apperrors.ErrInvalidCoordinate.
				WithMessage("tile id %q: %q is not an integer", id, p).
				WithDetails(map[string]interface{}{"tile_id": id})
		}
		values[i] = v
	}

	return NewTileCoordinate(values[1], values[2], values[0])
}

// TileFormat - шаблон сериализации тайла с плейсхолдерами {z}, {x}, {y}
type TileFormat string

const DefaultTileFormat TileFormat = "{z}-{x}-{y}"

// Validate требует все три плейсхолдера, иначе строки не будут уникальны
func (f TileFormat) Validate() error {
	for _, p := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(string(f), p) {
			return apperrors.ErrInvalidArgument.
				WithMessage("tile format %q is missing placeholder %s", string(f), p).
				WithDetails(map[string]interface{}{"format": string(f)})
		}
	}
	return nil
}

// Format сериализует тайл по шаблону
func (f TileFormat) Format(t TileCoordinate) string {
	return f.renderer()(t)
}

func (f TileFormat) renderer() func(TileCoordinate) string {
	if f == DefaultTileFormat || f == "" {
		return FormatTileID
	}

	tmpl := string(f)
	return func(t TileCoordinate) string {
		r := strings.NewReplacer(
			"{z}", strconv.Itoa(t.Zoom),
			"{x}", strconv.Itoa(t.X),
			"{y}", strconv.Itoa(t.Y),
		)
		return r.Replace(tmpl)
	}
}

func invalidCoordinate(t TileCoordinate, format string, args ...interface{}) error {
	return apperrors.ErrInvalidCoordinate.
		WithMessage(format, args...).
		WithDetails(map[string]interface{}{"x": t.X, "y": t.Y, "z": t.Zoom})
}
