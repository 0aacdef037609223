package port

import "durian-grader/internal/domain/entity"

// OverlayRenderer интерфейс отрисовки диагностического оверлея
type OverlayRenderer interface {
	// Render рисует опорные точки, линии раздела и половины по статусам поверх изображения
	Render(imageData []byte, detection entity.ObjectDetection, view *entity.ViewGradeResult) ([]byte, error)
}
