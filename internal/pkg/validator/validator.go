package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// tileid - строка "{zoom}-{x}-{y}" с координатами в допустимом диапазоне
	_ = validate.RegisterValidation("tileid", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTileID(fl.Field().String())
		return err == nil
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
