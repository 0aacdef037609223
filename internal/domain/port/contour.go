package port

import (
	"image"

	"durian-grader/internal/domain/entity"
)

// ContourFinder ищет внешние контуры маски
type ContourFinder interface {
	// FindExternal возвращает внешние контуры (без вложенных), сжатые до точек смены направления
	FindExternal(mask *entity.Mask) [][]image.Point
}
