package entity

// Grade итоговая категория качества
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeC      Grade = "C"

	// GradeAB грубая шкала: объект симметричен
	GradeAB Grade = "AB"
)

// gradeRanks порядок от худшего к лучшему. AB стоит выше C и ниже всех букв A/B,
// так как шкалы внутри одного прогона не смешиваются.
var gradeRanks = map[Grade]int{
	GradeC:      0,
	GradeAB:     1,
	GradeBMinus: 2,
	GradeB:      3,
	GradeBPlus:  4,
	GradeAMinus: 5,
	GradeA:      6,
	GradeAPlus:  7,
}

// Rank позиция оценки в шкале; неизвестная оценка хуже любой известной
func (g Grade) Rank() int {
	if r, ok := gradeRanks[g]; ok {
		return r
	}
	return -1
}

// WorstGrade возвращает худшую оценку из списка
func WorstGrade(grades []Grade) Grade {
	if len(grades) == 0 {
		return ""
	}
	worst := grades[0]
	for _, g := range grades[1:] {
		if g.Rank() < worst.Rank() {
			worst = g
		}
	}
	return worst
}

// SideStatus категория одной стороны (или сегмента)
type SideStatus string

const (
	StatusAB    SideStatus = "AB"
	StatusC     SideStatus = "C"
	StatusFull  SideStatus = "Full"
	StatusHalf  SideStatus = "Half"
	StatusEmpty SideStatus = "Empty"
)

// SideResult оценка одной стороны
type SideResult struct {
	Side   Side
	Status SideStatus
	Score  float64
}
