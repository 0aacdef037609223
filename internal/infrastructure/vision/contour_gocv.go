//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// GoCVContourFinder ищет контуры через OpenCV
type GoCVContourFinder struct{}

// NewContourFinder возвращает поиск контуров на OpenCV (сборка с тегом gocv).
func NewContourFinder() port.ContourFinder {
	return &GoCVContourFinder{}
}

// FindExternal запускает findContours(RETR_EXTERNAL, CHAIN_APPROX_SIMPLE) по маске.
func (f *GoCVContourFinder) FindExternal(mask *entity.Mask) [][]image.Point {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil
	}

	mat := maskToMat(mask)
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	result := make([][]image.Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		result = append(result, contours.At(i).ToPoints())
	}
	return result
}

// maskToMat переводит маску в 8-битную gocv.Mat (0 или 255).
func maskToMat(mask *entity.Mask) gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Height, mask.Width, gocv.MatTypeCV8U)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] != 0 {
				mat.SetUCharAt(y, x, 255)
			}
		}
	}
	return mat
}

var _ port.ContourFinder = (*GoCVContourFinder)(nil)
