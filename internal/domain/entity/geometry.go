package entity

import "math"

// Point точка в пиксельных координатах изображения
type Point struct {
	X float64
	Y float64
}

// DistanceTo возвращает евклидово расстояние до другой точки
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// OptionalPoint точка, которой может не быть (например, пустая полоса у края)
type OptionalPoint struct {
	Point
	Valid bool
}

// Some оборачивает существующую точку
func Some(p Point) OptionalPoint {
	return OptionalPoint{Point: p, Valid: true}
}

// Get возвращает точку и признак её наличия
func (o OptionalPoint) Get() (Point, bool) {
	return o.Point, o.Valid
}

// BoundingBox ограничивающая рамка объекта
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина рамки в пикселях
	Height int // высота рамки в пикселях
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() Point {
	return Point{
		X: float64(b.X) + float64(b.Width)/2,
		Y: float64(b.Y) + float64(b.Height)/2,
	}
}

// LeftMid середина левой стороны рамки
func (b BoundingBox) LeftMid() Point {
	return Point{X: float64(b.X), Y: b.Center().Y}
}

// RightMid середина правой стороны рамки
func (b BoundingBox) RightMid() Point {
	return Point{X: float64(b.X + b.Width), Y: b.Center().Y}
}

// TopMid середина верхней стороны рамки
func (b BoundingBox) TopMid() Point {
	return Point{X: b.Center().X, Y: float64(b.Y)}
}

// BottomMid середина нижней стороны рамки
func (b BoundingBox) BottomMid() Point {
	return Point{X: b.Center().X, Y: float64(b.Y + b.Height)}
}

// Empty сообщает, что у рамки нет площади
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Within проверяет, что рамка целиком лежит в изображении width x height.
// Правая и нижняя стороны могут совпадать с краем изображения.
func (b BoundingBox) Within(width, height int) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.Width <= width && b.Y+b.Height <= height
}
