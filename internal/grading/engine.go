package grading

import (
	"github.com/google/uuid"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// Analysis геометрия одного объекта: опорные точки, линии раздела и четверти
type Analysis struct {
	Points    *entity.ReferencePoints
	Quadrants entity.QuadrantCounts
	CenterX   float64
	CenterY   float64
}

// Engine движок оценки. Не хранит состояния между вызовами, безопасен для
// параллельного использования.
type Engine struct {
	cfg        entity.GradeConfiguration
	extractor  *Extractor
	classifier Classifier
}

// NewEngine проверяет конфигурацию и собирает классификатор один раз на прогон
func NewEngine(cfg entity.GradeConfiguration, contours port.ContourFinder) (*Engine, error) {
	classifier, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		extractor:  NewExtractor(contours),
		classifier: classifier,
	}, nil
}

// Config возвращает конфигурацию прогона
func (e *Engine) Config() entity.GradeConfiguration {
	return e.cfg
}

// Classifier возвращает активный классификатор
func (e *Engine) Classifier() Classifier {
	return e.classifier
}

// Analyze находит опорные точки и считает четверти маски
func (e *Engine) Analyze(det entity.ObjectDetection) (*Analysis, error) {
	points, err := e.extractor.Extract(det.Mask, det.Box, e.cfg.EdgeBandPx)
	if err != nil {
		return nil, err
	}

	centerX, centerY, err := CenterLines(det.Mask, det.Box, points, e.cfg.Split)
	if err != nil {
		return nil, err
	}

	quadrants, err := Partition(det.Mask, centerX, centerY)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Points:    points,
		Quadrants: quadrants,
		CenterX:   centerX,
		CenterY:   centerY,
	}, nil
}

// GradeView оценивает один ракурс. fullness нужен только политике заполненности,
// остальные политики его игнорируют.
func (e *Engine) GradeView(det entity.ObjectDetection, fullness map[entity.Side]float64, label string) (*entity.ViewGradeResult, error) {
	a, err := e.Analyze(det)
	if err != nil {
		return nil, err
	}
	return e.Assess(a, fullness, label), nil
}

// Assess выставляет оценку по уже посчитанной геометрии
func (e *Engine) Assess(a *Analysis, fullness map[entity.Side]float64, label string) *entity.ViewGradeResult {
	ev := &Evidence{
		Points:   a.Points,
		Left:     a.Quadrants.Imbalance(entity.SideLeft),
		Right:    a.Quadrants.Imbalance(entity.SideRight),
		Fullness: fullness,
	}
	sides, grade := Evaluate(e.classifier, ev)

	distances := make(map[entity.Side]float64, 4)
	for _, pair := range a.Points.All() {
		distances[pair.Side] = pair.Distance()
	}
	quadrants := a.Quadrants

	return &entity.ViewGradeResult{
		ID:     uuid.New(),
		Label:  label,
		Policy: e.classifier.Policy(),
		Sides:  sides,
		Grade:  grade,
		Metrics: entity.Metrics{
			Points:    a.Points,
			Quadrants: &quadrants,
			Left:      ev.Left,
			Right:     ev.Right,
			Distances: distances,
			Fullness:  fullness,
			CenterX:   a.CenterX,
			CenterY:   a.CenterY,
		},
	}
}

// Aggregate сводит ракурсы активным классификатором
func (e *Engine) Aggregate(views []*entity.ViewGradeResult) (*entity.AggregateGradeResult, error) {
	return Aggregate(e.classifier, views)
}
