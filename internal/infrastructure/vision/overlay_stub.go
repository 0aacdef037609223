//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// GoCVRenderer рендерер-заглушка (без OpenCV)
type GoCVRenderer struct {
	opts RenderOptions
}

// NewRenderer создаёт рендерер-заглушку
func NewRenderer(opts RenderOptions) *GoCVRenderer {
	return &GoCVRenderer{opts: opts.withDefaults()}
}

// Render возвращает ошибку, если сборка без тега gocv.
func (r *GoCVRenderer) Render(imageData []byte, det entity.ObjectDetection, view *entity.ViewGradeResult) ([]byte, error) {
	_ = imageData
	_ = det
	_ = view
	return nil, ErrRenderingDisabled
}

// RenderingEnabled сборка умеет рисовать оверлей
const RenderingEnabled = false

// ErrRenderingDisabled оверлей недоступен в сборке без gocv
var ErrRenderingDisabled = errors.New("gocv build tag is not enabled")

var _ port.OverlayRenderer = (*GoCVRenderer)(nil)
