package port

import (
	"context"

	"durian-grader/internal/domain/entity"
)

// Segmenter интерфейс внешней модели сегментации
type Segmenter interface {
	// Segment возвращает маски и рамки найденных объектов; пустой список, если объектов нет
	Segment(ctx context.Context, imageData []byte) ([]entity.ObjectDetection, error)
}
