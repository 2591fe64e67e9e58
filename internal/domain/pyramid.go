package domain

import (
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

// LargePyramidDelta - разница зумов, после которой пирамида считается большой.
// Число листьев растёт как 4^delta: при delta=8 это уже 65536 тайлов.
const LargePyramidDelta = 8

// maxPyramidPrealloc ограничивает заранее резервируемую под идентификаторы память
const maxPyramidPrealloc = 1 << 16

// PyramidSize возвращает число листовых тайлов пирамиды: 4^(maxZoom-top.Zoom).
// Входные данные должны быть провалидированы заранее.
func PyramidSize(top TileCoordinate, maxZoom int) int {
	return 1 << uint(2*(maxZoom-top.Zoom))
}

// Pyramid возвращает идентификаторы всех потомков top на зуме maxZoom.
// Порядок элементов не определён, результат следует рассматривать как множество.
func Pyramid(top TileCoordinate, maxZoom int, format TileFormat) ([]string, error) {
	if format == "" {
		format = DefaultTileFormat
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePyramid(top, maxZoom); err != nil {
		return nil, err
	}

	size := PyramidSize(top, maxZoom)
	if size > maxPyramidPrealloc {
		size = maxPyramidPrealloc
	}

	render := format.renderer()
	ids := make([]string, 0, size)
	_ = walkPyramid(top, maxZoom, func(t TileCoordinate) error {
		ids = append(ids, render(t))
		return nil
	})

	return ids, nil
}

// WalkPyramid обходит листья пирамиды в глубину и вызывает fn для каждого.
// Обход останавливается на первой ошибке fn, она возвращается как есть.
func WalkPyramid(top TileCoordinate, maxZoom int, fn func(TileCoordinate) error) error {
	if err := ValidatePyramid(top, maxZoom); err != nil {
		return err
	}
	return walkPyramid(top, maxZoom, fn)
}

// walkPyramid - обход с явным стеком: глубина стека не превышает 3*delta+1,
// независимо от числа листьев
func walkPyramid(top TileCoordinate, maxZoom int, fn func(TileCoordinate) error) error {
	stack := make([]TileCoordinate, 1, 3*(maxZoom-top.Zoom)+1)
	stack[0] = top

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.Zoom >= maxZoom {
			if err := fn(t); err != nil {
				return err
			}
			continue
		}

		children := t.children()
		stack = append(stack, children[:]...)
	}

	return nil
}

// ValidatePyramid проверяет вершину и что maxZoom лежит в [top.Zoom, MaxZoom]
func ValidatePyramid(top TileCoordinate, maxZoom int) error {
	if err := top.Validate(); err != nil {
		return err
	}
	if maxZoom < top.Zoom || maxZoom > MaxZoom {
		return apperrors.ErrInvalidCoordinate.
			WithMessage("max zoom %d outside bounds of [%d, %d]", maxZoom, top.Zoom, MaxZoom).
			WithDetails(map[string]interface{}{"x": top.X, "y": top.Y, "z": top.Zoom, "max_zoom": maxZoom})
	}
	return nil
}
