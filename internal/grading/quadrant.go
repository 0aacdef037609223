package grading

import (
	"fmt"

	"durian-grader/internal/domain/entity"
)

// Partition раскладывает пиксели маски по четвертям. Пиксель берётся по его центру
// (x+0.5, y+0.5); попадание точно на линию относит его влево и вверх.
func Partition(mask *entity.Mask, centerX, centerY float64) (entity.QuadrantCounts, error) {
	var q entity.QuadrantCounts
	if err := mask.Validate(); err != nil {
		return q, err
	}

	for y := 0; y < mask.Height; y++ {
		top := float64(y)+0.5 <= centerY
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			left := float64(x)+0.5 <= centerX
			switch {
			case left && top:
				q.LeftTop++
			case left:
				q.LeftBottom++
			case top:
				q.RightTop++
			default:
				q.RightBottom++
			}
		}
	}
	return q, nil
}

// CenterLines возвращает вертикальную и горизонтальную линии раздела.
// Горизонтальная проходит через середину между верхней и нижней геометрическими точками,
// вертикальная через центр рамки или через центр масс маски.
func CenterLines(mask *entity.Mask, box entity.BoundingBox, points *entity.ReferencePoints, split entity.SplitMode) (float64, float64, error) {
	centerY := (points.Top.Geometric.Y + points.Bottom.Geometric.Y) / 2

	switch split {
	case entity.SplitBoxCenter, "":
		return (points.Left.Geometric.X + points.Right.Geometric.X) / 2, centerY, nil
	case entity.SplitMaskCentroid:
		cx, ok := maskCentroidX(mask)
		if !ok {
			// Пустая маска: центра масс нет, остаётся центр рамки.
			cx = box.Center().X
		}
		return cx, centerY, nil
	}
	return 0, 0, fmt.Errorf("%w: unknown split mode %q", entity.ErrInvalidConfiguration, split)
}

// maskCentroidX средняя координата X центров пикселей маски
func maskCentroidX(mask *entity.Mask) (float64, bool) {
	var sum float64
	n := 0
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] != 0 {
				sum += float64(x) + 0.5
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
