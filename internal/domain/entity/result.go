package entity

import "github.com/google/uuid"

// Metrics сырые величины, из которых получена оценка ракурса.
// Нужны слою отрисовки и текстовым отчётам.
type Metrics struct {
	Points    *ReferencePoints
	Quadrants *QuadrantCounts
	Left      ImbalanceMetric
	Right     ImbalanceMetric
	Distances map[Side]float64 // расстояния по всем четырём сторонам
	Fullness  map[Side]float64 // входной сигнал заполненности, если был
	CenterX   float64          // вертикальная линия раздела
	CenterY   float64          // горизонтальная линия раздела
}

// ViewGradeResult оценка одного ракурса
type ViewGradeResult struct {
	ID     uuid.UUID
	Label  string
	Policy Policy
	Sides  []SideResult
	Grade  Grade
	Metrics
}

// Side возвращает результат по стороне
func (v *ViewGradeResult) Side(side Side) (SideResult, bool) {
	for _, s := range v.Sides {
		if s.Side == side {
			return s, true
		}
	}
	return SideResult{}, false
}

// AggregateGradeResult сводная оценка по нескольким ракурсам
type AggregateGradeResult struct {
	Views            int
	Policy           Policy
	Sides            []SideResult // средние баллы и статусы по ним
	MostCommonGrade  Grade        // мода оценок ракурсов, только для диагностики
	FinalGrade       Grade        // оценка по усреднённым сторонам
	WorstGrade       Grade        // худшая из оценок ракурсов
	IndividualGrades []Grade
}

// Side возвращает усреднённый результат по стороне
func (a *AggregateGradeResult) Side(side Side) (SideResult, bool) {
	for _, s := range a.Sides {
		if s.Side == side {
			return s, true
		}
	}
	return SideResult{}, false
}
