package entity

// ObjectDetection один результат сегментации: маска и рамка объекта
type ObjectDetection struct {
	Mask       *Mask       // маска в разрешении исходного изображения
	Box        BoundingBox // рамка в пикселях изображения
	Confidence float64     // уверенность модели
}

// Side сторона объекта или идентификатор сегмента
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// SegmentSide возвращает идентификатор i-го сегмента: A..Z, затем AA, AB, ...
// как номера столбцов таблицы. Для i < 0 возвращает пустую строку.
func SegmentSide(i int) Side {
	if i < 0 {
		return ""
	}
	var id []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		id = append([]byte{byte('A' + (n-1)%26)}, id...)
	}
	return Side(id)
}

// SegmentLess порядок идентификаторов сегментов: Z идёт раньше AA
func SegmentLess(a, b Side) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// ReferencePointPair пара опорных точек для одной стороны
type ReferencePointPair struct {
	Side      Side
	Geometric Point         // середина стороны рамки
	Observed  OptionalPoint // среднее положение контура у стороны
}

// Distance расстояние между наблюдаемой и геометрической точкой.
// Если наблюдаемой точки нет, расстояние считается нулевым.
func (p ReferencePointPair) Distance() float64 {
	observed, ok := p.Observed.Get()
	if !ok {
		return 0
	}
	return observed.DistanceTo(p.Geometric)
}

// ReferencePoints опорные точки по четырём сторонам
type ReferencePoints struct {
	Left   ReferencePointPair
	Right  ReferencePointPair
	Top    ReferencePointPair
	Bottom ReferencePointPair
}

// Pair возвращает пару для стороны
func (r *ReferencePoints) Pair(side Side) (ReferencePointPair, bool) {
	switch side {
	case SideLeft:
		return r.Left, true
	case SideRight:
		return r.Right, true
	case SideTop:
		return r.Top, true
	case SideBottom:
		return r.Bottom, true
	}
	return ReferencePointPair{}, false
}

// All возвращает пары в порядке left, right, top, bottom
func (r *ReferencePoints) All() []ReferencePointPair {
	return []ReferencePointPair{r.Left, r.Right, r.Top, r.Bottom}
}

// QuadrantCounts число пикселей маски в каждой четверти
type QuadrantCounts struct {
	LeftTop     int
	LeftBottom  int
	RightTop    int
	RightBottom int
}

// Total сумма по всем четвертям
func (q QuadrantCounts) Total() int {
	return q.LeftTop + q.LeftBottom + q.RightTop + q.RightBottom
}

// Imbalance считает дисбаланс верх/низ для левой или правой половины
func (q QuadrantCounts) Imbalance(side Side) ImbalanceMetric {
	switch side {
	case SideLeft:
		return NewImbalanceMetric(q.LeftTop, q.LeftBottom)
	case SideRight:
		return NewImbalanceMetric(q.RightTop, q.RightBottom)
	}
	return ImbalanceMetric{}
}

// ImbalanceMetric дисбаланс площади между верхней и нижней четвертью половины
type ImbalanceMetric struct {
	Top            int
	Bottom         int
	Diff           int
	Total          int
	DiffPercentage float64
}

// NewImbalanceMetric считает метрику; при нулевой площади процент равен нулю
func NewImbalanceMetric(top, bottom int) ImbalanceMetric {
	diff := top - bottom
	if diff < 0 {
		diff = -diff
	}
	m := ImbalanceMetric{
		Top:    top,
		Bottom: bottom,
		Diff:   diff,
		Total:  top + bottom,
	}
	if m.Total > 0 {
		m.DiffPercentage = 100 * float64(m.Diff) / float64(m.Total)
	}
	return m
}
