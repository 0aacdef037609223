//go:build !gocv
// +build !gocv

package vision

import "durian-grader/internal/domain/port"

// NewContourFinder возвращает трассировщик на чистом Go (сборка без тега gocv).
func NewContourFinder() port.ContourFinder {
	return NewBorderTracer()
}
