package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
	"github.com/developmentseed/ml-tm-utils-pub/internal/pkg/validator"
)

// parseTile читает :z/:x/:y из пути и валидирует координату
func parseTile(c *fiber.Ctx) (domain.TileCoordinate, error) {
	var xyz [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Params(name))
		if err != nil {
			return domain.TileCoordinate{}, apperrors.ErrInvalidCoordinate.
				WithMessage("tile %s must be an integer, got %q", name, c.Params(name))
		}
		xyz[i] = v
	}
	return domain.NewTileCoordinate(xyz[0], xyz[1], xyz[2])
}

// parseTMIndex читает :tm_index из пути
func parseTMIndex(c *fiber.Ctx) (int64, error) {
	tmIndex, err := strconv.ParseInt(c.Params("tm_index"), 10, 64)
	if err != nil || tmIndex <= 0 {
		return 0, apperrors.ErrInvalidRequest.
			WithMessage("tm_index must be a positive integer, got %q", c.Params("tm_index"))
	}
	return tmIndex, nil
}

// queryInt читает необязательный целый query-параметр
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ErrInvalidArgument.WithMessage("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// validate прогоняет DTO через validator и переводит ошибку в AppError
func validate(req interface{}) error {
	if err := validator.Validate(req); err != nil {
		return apperrors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}
	return nil
}
