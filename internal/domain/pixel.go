package domain

import (
	"math"

	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

// EquatorResolution - ширина пикселя на экваторе при зуме 0, м/px
// (https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames#Resolution_and_Scale)
const EquatorResolution = 156543.03

// PixelArea вычисляет площадь одного пикселя тайла в квадратных метрах
// для заданной широты (градусы, [-90, 90]) и зума ([0, 19])
func PixelArea(latitude float64, zoom int) (float64, error) {
	if !(latitude >= -90 && latitude <= 90) {
		return 0, apperrors.ErrInvalidArgument.
			WithMessage("latitude of %v outside bounds of [-90, 90]", latitude).
			WithDetails(map[string]interface{}{"latitude": latitude})
	}
	if zoom < MinZoom || zoom > MaxZoom {
		return 0, apperrors.ErrInvalidArgument.
			WithMessage("zoom of %d outside bounds of [%d, %d]", zoom, MinZoom, MaxZoom).
			WithDetails(map[string]interface{}{"zoom": zoom})
	}

	width := EquatorResolution * math.Cos(latitude*math.Pi/180.0) / float64(uint64(1)<<uint(zoom))
	return width * width, nil
}
