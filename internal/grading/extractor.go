package grading

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// Extractor находит опорные точки по четырём сторонам рамки
type Extractor struct {
	contours port.ContourFinder
}

// NewExtractor создаёт экстрактор поверх поиска контуров
func NewExtractor(contours port.ContourFinder) *Extractor {
	return &Extractor{contours: contours}
}

// Extract строит пары опорных точек. Геометрическая точка: середина стороны рамки,
// наблюдаемая: среднее положение точек внешнего контура в полосе edgeBand у этой стороны.
// Точки контура берутся по центрам пикселей, как и в Partition.
// Если в полосе нет точек контура, наблюдаемая точка отсутствует.
func (e *Extractor) Extract(mask *entity.Mask, box entity.BoundingBox, edgeBand int) (*entity.ReferencePoints, error) {
	if err := validateGeometry(mask, box); err != nil {
		return nil, err
	}
	if edgeBand < 1 {
		return nil, fmt.Errorf("%w: edge band must be >= 1, got %d", entity.ErrInvalidGeometry, edgeBand)
	}

	var points []image.Point
	for _, c := range e.contours.FindExternal(mask) {
		points = append(points, c...)
	}

	x0, y0 := float64(box.X), float64(box.Y)
	x1, y1 := float64(box.X+box.Width), float64(box.Y+box.Height)
	band := float64(edgeBand)

	var leftY, rightY, topX, bottomX []float64
	for _, p := range points {
		cx, cy := float64(p.X)+0.5, float64(p.Y)+0.5
		if cx < x0+band {
			leftY = append(leftY, cy)
		}
		if cx > x1-band {
			rightY = append(rightY, cy)
		}
		if cy < y0+band {
			topX = append(topX, cx)
		}
		if cy > y1-band {
			bottomX = append(bottomX, cx)
		}
	}

	return &entity.ReferencePoints{
		Left: entity.ReferencePointPair{
			Side:      entity.SideLeft,
			Geometric: box.LeftMid(),
			Observed:  observed(leftY, func(m float64) entity.Point { return entity.Point{X: x0, Y: m} }),
		},
		Right: entity.ReferencePointPair{
			Side:      entity.SideRight,
			Geometric: box.RightMid(),
			Observed:  observed(rightY, func(m float64) entity.Point { return entity.Point{X: x1, Y: m} }),
		},
		Top: entity.ReferencePointPair{
			Side:      entity.SideTop,
			Geometric: box.TopMid(),
			Observed:  observed(topX, func(m float64) entity.Point { return entity.Point{X: m, Y: y0} }),
		},
		Bottom: entity.ReferencePointPair{
			Side:      entity.SideBottom,
			Geometric: box.BottomMid(),
			Observed:  observed(bottomX, func(m float64) entity.Point { return entity.Point{X: m, Y: y1} }),
		},
	}, nil
}

func observed(values []float64, at func(mean float64) entity.Point) entity.OptionalPoint {
	if len(values) == 0 {
		return entity.OptionalPoint{}
	}
	return entity.Some(at(stat.Mean(values, nil)))
}

// validateGeometry проверяет маску и то, что рамка лежит внутри неё
func validateGeometry(mask *entity.Mask, box entity.BoundingBox) error {
	if err := mask.Validate(); err != nil {
		return err
	}
	if box.Empty() {
		return fmt.Errorf("%w: box has no area (%dx%d)", entity.ErrInvalidGeometry, box.Width, box.Height)
	}
	if !box.Within(mask.Width, mask.Height) {
		return fmt.Errorf("%w: box %+v is outside %dx%d mask", entity.ErrInvalidGeometry, box, mask.Width, mask.Height)
	}
	return nil
}
