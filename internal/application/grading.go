package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
	"durian-grader/internal/grading"
)

// GradingService связывает сегментацию, движок оценки и отрисовку
type GradingService struct {
	segmenter port.Segmenter
	engine    *grading.Engine
	renderer  port.OverlayRenderer
	workers   int
}

// ViewOutput оценка одного найденного объекта и картинка с разметкой
type ViewOutput struct {
	View      *entity.ViewGradeResult
	Detection entity.ObjectDetection
	Overlay   []byte // nil, если отрисовка недоступна
}

// GradeOutput результат оценки одного снимка
type GradeOutput struct {
	Views    []ViewOutput                 // в порядке, который вернула сегментация
	Overall  entity.Grade                 // общая оценка снимка
	Segments *entity.AggregateGradeResult // сводка по сегментам для шестиступенчатой таблицы
	GradedAt time.Time
}

// NewGradingService создаёт сервис. workers <= 0 означает число CPU; renderer может быть nil.
func NewGradingService(segmenter port.Segmenter, engine *grading.Engine, renderer port.OverlayRenderer, workers int) *GradingService {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &GradingService{
		segmenter: segmenter,
		engine:    engine,
		renderer:  renderer,
		workers:   workers,
	}
}

// Engine возвращает движок оценки
func (s *GradingService) Engine() *grading.Engine {
	return s.engine
}

// GradeImage оценивает каждый найденный на снимке объект. Объекты оцениваются параллельно,
// результаты собираются в исходном порядке. Общая оценка: худшая из оценок объектов,
// а при шестиступенчатой таблице объекты считаются сегментами одного плода.
func (s *GradingService) GradeImage(ctx context.Context, imageData []byte) (*GradeOutput, error) {
	detections, err := s.segment(ctx, imageData)
	if err != nil {
		return nil, err
	}

	frame, err := s.decodeFrame(imageData)
	if err != nil {
		return nil, err
	}

	views := make([]ViewOutput, len(detections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, det := range detections {
		i, det := i, det
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.gradeDetection(imageData, frame, det, s.label(i))
			if err != nil {
				return fmt.Errorf("grade detection %d: %w", i, err)
			}
			views[i] = *out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &GradeOutput{Views: views, GradedAt: time.Now()}
	graded := make([]*entity.ViewGradeResult, len(views))
	for i := range views {
		graded[i] = views[i].View
	}

	if s.segmented() {
		agg, err := s.engine.Aggregate(graded)
		if err != nil {
			return nil, err
		}
		out.Segments = agg
		out.Overall = agg.FinalGrade
	} else {
		grades := make([]entity.Grade, len(graded))
		for i, v := range graded {
			grades[i] = v.Grade
		}
		out.Overall = entity.WorstGrade(grades)
	}
	return out, nil
}

// GradePrimary оценивает только объект с наибольшей уверенностью модели.
// Используется при сборе ракурсов одного плода.
func (s *GradingService) GradePrimary(ctx context.Context, imageData []byte, label string) (*ViewOutput, error) {
	detections, err := s.segment(ctx, imageData)
	if err != nil {
		return nil, err
	}

	best := 0
	for i, det := range detections {
		if det.Confidence > detections[best].Confidence {
			best = i
		}
	}

	frame, err := s.decodeFrame(imageData)
	if err != nil {
		return nil, err
	}
	return s.gradeDetection(imageData, frame, detections[best], label)
}

// Aggregate сводит ракурсы одного плода
func (s *GradingService) Aggregate(views []*entity.ViewGradeResult) (*entity.AggregateGradeResult, error) {
	return s.engine.Aggregate(views)
}

func (s *GradingService) segment(ctx context.Context, imageData []byte) ([]entity.ObjectDetection, error) {
	if s.segmenter == nil {
		return nil, errors.New("segmenter is not configured")
	}
	detections, err := s.segmenter.Segment(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("segment image: %w", err)
	}
	if len(detections) == 0 {
		return nil, entity.ErrNoDetection
	}
	return detections, nil
}

// decodeFrame декодирует снимок, только если он нужен для цветовой заполненности
func (s *GradingService) decodeFrame(imageData []byte) (image.Image, error) {
	cfg := s.engine.Config()
	if cfg.Policy != entity.PolicyFullness || cfg.Fullness != entity.FullnessSignal {
		return nil, nil
	}
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (s *GradingService) gradeDetection(imageData []byte, frame image.Image, det entity.ObjectDetection, label string) (*ViewOutput, error) {
	a, err := s.engine.Analyze(det)
	if err != nil {
		return nil, err
	}

	fullness, err := s.fullness(frame, det.Mask, a.CenterX, label)
	if err != nil {
		return nil, err
	}

	view := s.engine.Assess(a, fullness, label)
	return &ViewOutput{
		View:      view,
		Detection: det,
		Overlay:   s.render(imageData, det, view),
	}, nil
}

// fullness готовит сигнал заполненности для политики заполненности
func (s *GradingService) fullness(frame image.Image, mask *entity.Mask, centerX float64, label string) (map[entity.Side]float64, error) {
	cfg := s.engine.Config()
	if cfg.Policy != entity.PolicyFullness {
		return nil, nil
	}

	if cfg.Table == entity.TableSixBucket {
		var score float64
		var err error
		if cfg.Fullness == entity.FullnessSignal {
			score, err = grading.ObjectSignalFullness(frame, mask)
		} else {
			score, err = grading.ObjectAreaFullness(mask)
		}
		if err != nil {
			return nil, err
		}
		return map[entity.Side]float64{entity.Side(label): score}, nil
	}

	if cfg.Fullness == entity.FullnessSignal {
		return grading.SignalFullness(frame, mask, centerX)
	}
	return grading.AreaFullness(mask, centerX)
}

// render рисует разметку; ошибка отрисовки не мешает текстовому отчёту
func (s *GradingService) render(imageData []byte, det entity.ObjectDetection, view *entity.ViewGradeResult) []byte {
	if s.renderer == nil {
		return nil
	}
	overlay, err := s.renderer.Render(imageData, det, view)
	if err != nil {
		log.Printf("Overlay skipped for view %s: %v", view.ID, err)
		return nil
	}
	return overlay
}

// segmented сообщает, что объекты снимка оцениваются как сегменты одного плода
func (s *GradingService) segmented() bool {
	cfg := s.engine.Config()
	return cfg.Policy == entity.PolicyFullness && cfg.Table == entity.TableSixBucket
}

// label подпись i-го объекта снимка
func (s *GradingService) label(i int) string {
	if s.segmented() {
		return string(entity.SegmentSide(i))
	}
	return fmt.Sprintf("#%d", i+1)
}
