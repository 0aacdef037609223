package entity

import (
	"fmt"
	"strings"
)

// Policy правило, по которому считается оценка ракурса
type Policy string

const (
	// PolicyDistance расстояние между наблюдаемой и геометрической точкой (AB/C)
	PolicyDistance Policy = "distance"
	// PolicyPercentage дисбаланс площади верх/низ в процентах (AB/C)
	PolicyPercentage Policy = "percentage"
	// PolicyFullness заполненность сторон или сегментов (A+..C)
	PolicyFullness Policy = "fullness"
)

// SplitMode способ провести вертикальную линию раздела
type SplitMode string

const (
	SplitBoxCenter    SplitMode = "box"      // через центр рамки
	SplitMaskCentroid SplitMode = "centroid" // через центр масс маски
)

// FullnessVariant шкала входного сигнала заполненности
type FullnessVariant string

const (
	FullnessRatio  FullnessVariant = "ratio"  // доля ожидаемой площади, 0..1
	FullnessSignal FullnessVariant = "signal" // насыщенность/яркость, 0..255
)

// GradeTable таблица перевода баллов в оценку
type GradeTable string

const (
	TableFiveBucket GradeTable = "five"
	TableSixBucket  GradeTable = "six"
)

// GradeConfiguration параметры одного прогона оценки. Движок её не изменяет.
type GradeConfiguration struct {
	Policy              Policy
	EdgeBandPx          int     // ширина полосы у края рамки (ADJ)
	DistanceThreshold   int     // порог расстояния в пикселях
	PercentageThreshold float64 // порог дисбаланса в процентах
	Split               SplitMode
	Fullness            FullnessVariant
	Table               GradeTable
	ScoreTable          map[SideStatus]int // баллы Full/Half/Empty
}

// DefaultScoreTable баллы по умолчанию для политики заполненности
func DefaultScoreTable() map[SideStatus]int {
	return map[SideStatus]int{
		StatusFull:  2,
		StatusHalf:  1,
		StatusEmpty: 0,
	}
}

// DefaultGradeConfiguration значения по умолчанию
func DefaultGradeConfiguration() GradeConfiguration {
	return GradeConfiguration{
		Policy:              PolicyPercentage,
		EdgeBandPx:          10,
		DistanceThreshold:   3,
		PercentageThreshold: 5.0,
		Split:               SplitBoxCenter,
		Fullness:            FullnessRatio,
		Table:               TableFiveBucket,
		ScoreTable:          DefaultScoreTable(),
	}
}

// Validate проверяет диапазоны параметров
func (c GradeConfiguration) Validate() error {
	var problems []string
	switch c.Policy {
	case PolicyDistance, PolicyPercentage, PolicyFullness:
	default:
		problems = append(problems, fmt.Sprintf("unknown policy %q", c.Policy))
	}
	if c.EdgeBandPx < 1 {
		problems = append(problems, fmt.Sprintf("edge band must be >= 1, got %d", c.EdgeBandPx))
	}
	if c.DistanceThreshold < 0 {
		problems = append(problems, fmt.Sprintf("distance threshold must be >= 0, got %d", c.DistanceThreshold))
	}
	if c.PercentageThreshold < 0 {
		problems = append(problems, fmt.Sprintf("percentage threshold must be >= 0, got %g", c.PercentageThreshold))
	}
	switch c.Split {
	case SplitBoxCenter, SplitMaskCentroid:
	default:
		problems = append(problems, fmt.Sprintf("unknown split mode %q", c.Split))
	}
	if c.Policy == PolicyFullness {
		switch c.Fullness {
		case FullnessRatio, FullnessSignal:
		default:
			problems = append(problems, fmt.Sprintf("unknown fullness variant %q", c.Fullness))
		}
		switch c.Table {
		case TableFiveBucket, TableSixBucket:
		default:
			problems = append(problems, fmt.Sprintf("unknown grade table %q", c.Table))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// Score возвращает балл статуса по таблице; без таблицы используются значения по умолчанию
func (c GradeConfiguration) Score(status SideStatus) int {
	table := c.ScoreTable
	if table == nil {
		table = DefaultScoreTable()
	}
	return table[status]
}
