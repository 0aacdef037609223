package grading

import (
	"fmt"
	"sort"

	"durian-grader/internal/domain/entity"
)

// Evidence входные данные классификатора для одного ракурса
type Evidence struct {
	Points   *entity.ReferencePoints
	Left     entity.ImbalanceMetric
	Right    entity.ImbalanceMetric
	Fullness map[entity.Side]float64 // задаёт вызывающий код; нужен только политике заполненности
}

// Classifier правило оценки. Один и тот же порог применяется и к отдельному ракурсу,
// и к усреднённым баллам при агрегации.
type Classifier interface {
	// Policy политика, которую реализует классификатор
	Policy() entity.Policy
	// Score считает балл по каждой оцениваемой стороне (Status не заполнен)
	Score(ev *Evidence) []entity.SideResult
	// Classify переводит балл стороны в статус
	Classify(score float64) entity.SideStatus
	// Combine выводит общую оценку из сторон
	Combine(sides []entity.SideResult) entity.Grade
}

// NewClassifier выбирает реализацию по политике из конфигурации
func NewClassifier(cfg entity.GradeConfiguration) (Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Policy {
	case entity.PolicyDistance:
		return &distanceClassifier{coarse{threshold: float64(cfg.DistanceThreshold)}}, nil
	case entity.PolicyPercentage:
		return &percentageClassifier{coarse{threshold: cfg.PercentageThreshold}}, nil
	case entity.PolicyFullness:
		return newFullnessClassifier(cfg), nil
	}
	return nil, fmt.Errorf("%w: unknown policy %q", entity.ErrInvalidConfiguration, cfg.Policy)
}

// Evaluate считает стороны, их статусы и общую оценку
func Evaluate(c Classifier, ev *Evidence) ([]entity.SideResult, entity.Grade) {
	sides := c.Score(ev)
	for i := range sides {
		sides[i].Status = c.Classify(sides[i].Score)
	}
	return sides, c.Combine(sides)
}

// coarse общая часть политик со шкалой AB/C: сторона и итог получают C, если балл выше порога
type coarse struct {
	threshold float64
}

func (c coarse) Classify(score float64) entity.SideStatus {
	if score > c.threshold {
		return entity.StatusC
	}
	return entity.StatusAB
}

func (c coarse) Combine(sides []entity.SideResult) entity.Grade {
	if maxScore(sides) > c.threshold {
		return entity.GradeC
	}
	return entity.GradeAB
}

func maxScore(sides []entity.SideResult) float64 {
	var m float64
	for i, s := range sides {
		if i == 0 || s.Score > m {
			m = s.Score
		}
	}
	return m
}

// distanceClassifier политика A: расстояние между наблюдаемой и геометрической точкой
type distanceClassifier struct {
	coarse
}

func (d *distanceClassifier) Policy() entity.Policy { return entity.PolicyDistance }

func (d *distanceClassifier) Score(ev *Evidence) []entity.SideResult {
	var left, right float64
	if ev.Points != nil {
		// Distance() даёт 0, если наблюдаемой точки нет.
		left = ev.Points.Left.Distance()
		right = ev.Points.Right.Distance()
	}
	return []entity.SideResult{
		{Side: entity.SideLeft, Score: left},
		{Side: entity.SideRight, Score: right},
	}
}

// percentageClassifier политика B: дисбаланс площади верх/низ в каждой половине
type percentageClassifier struct {
	coarse
}

func (p *percentageClassifier) Policy() entity.Policy { return entity.PolicyPercentage }

func (p *percentageClassifier) Score(ev *Evidence) []entity.SideResult {
	return []entity.SideResult{
		{Side: entity.SideLeft, Score: ev.Left.DiffPercentage},
		{Side: entity.SideRight, Score: ev.Right.DiffPercentage},
	}
}

// fullnessClassifier политика C: Full/Half/Empty по каждой стороне или сегменту
type fullnessClassifier struct {
	full  float64
	half  float64
	table entity.GradeTable
	cfg   entity.GradeConfiguration
}

func newFullnessClassifier(cfg entity.GradeConfiguration) *fullnessClassifier {
	c := &fullnessClassifier{full: 0.75, half: 0.35, table: cfg.Table, cfg: cfg}
	if cfg.Fullness == entity.FullnessSignal {
		c.full, c.half = 100, 50
	}
	return c
}

func (f *fullnessClassifier) Policy() entity.Policy { return entity.PolicyFullness }

// Score для пятиступенчатой таблицы всегда возвращает left и right; отсутствующая
// сторона получает балл 0 и, значит, статус Empty. Для шестиступенчатой таблицы
// оцениваются все переданные сегменты.
func (f *fullnessClassifier) Score(ev *Evidence) []entity.SideResult {
	if f.table == entity.TableSixBucket {
		segments := make([]entity.Side, 0, len(ev.Fullness))
		for side := range ev.Fullness {
			segments = append(segments, side)
		}
		sort.Slice(segments, func(i, j int) bool { return entity.SegmentLess(segments[i], segments[j]) })

		sides := make([]entity.SideResult, 0, len(segments))
		for _, side := range segments {
			sides = append(sides, entity.SideResult{Side: side, Score: ev.Fullness[side]})
		}
		return sides
	}

	return []entity.SideResult{
		{Side: entity.SideLeft, Score: ev.Fullness[entity.SideLeft]},
		{Side: entity.SideRight, Score: ev.Fullness[entity.SideRight]},
	}
}

func (f *fullnessClassifier) Classify(score float64) entity.SideStatus {
	switch {
	case score > f.full:
		return entity.StatusFull
	case score > f.half:
		return entity.StatusHalf
	default:
		return entity.StatusEmpty
	}
}

func (f *fullnessClassifier) Combine(sides []entity.SideResult) entity.Grade {
	if f.table == entity.TableSixBucket {
		return segmentGrade(sides)
	}

	total := 0
	for _, s := range sides {
		total += f.cfg.Score(s.Status)
	}
	switch {
	case total >= 4:
		return entity.GradeA
	case total >= 3:
		return entity.GradeAMinus
	case total >= 2:
		return entity.GradeB
	case total >= 1:
		return entity.GradeBMinus
	default:
		return entity.GradeC
	}
}

// segmentGrade оценка целого плода по числу полных, половинных и пустых сегментов
func segmentGrade(sides []entity.SideResult) entity.Grade {
	var full, half, empty int
	for _, s := range sides {
		switch s.Status {
		case entity.StatusFull:
			full++
		case entity.StatusHalf:
			half++
		case entity.StatusEmpty:
			empty++
		}
	}

	switch {
	case full >= 4:
		if empty == 0 {
			return entity.GradeAPlus
		}
		return entity.GradeAMinus
	case full == 3:
		if half >= 2 {
			return entity.GradeBPlus
		}
		return entity.GradeB
	case full == 2:
		return entity.GradeBMinus
	default:
		return entity.GradeC
	}
}
