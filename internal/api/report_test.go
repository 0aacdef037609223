package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	app "durian-grader/internal/application"
	"durian-grader/internal/domain/entity"
)

func sampleView() *entity.ViewGradeResult {
	return &entity.ViewGradeResult{
		Label:  "#1",
		Policy: entity.PolicyPercentage,
		Grade:  entity.GradeC,
		Sides: []entity.SideResult{
			{Side: entity.SideLeft, Status: entity.StatusC, Score: 100},
			{Side: entity.SideRight, Status: entity.StatusAB, Score: 0},
		},
		Metrics: entity.Metrics{
			Points: &entity.ReferencePoints{
				Left: entity.ReferencePointPair{
					Side:      entity.SideLeft,
					Geometric: entity.Point{X: 0, Y: 100},
					Observed:  entity.Some(entity.Point{X: 0, Y: 149.5}),
				},
				Right:  entity.ReferencePointPair{Side: entity.SideRight},
				Top:    entity.ReferencePointPair{Side: entity.SideTop},
				Bottom: entity.ReferencePointPair{Side: entity.SideBottom},
			},
			Left:  entity.NewImbalanceMetric(0, 10000),
			Right: entity.NewImbalanceMetric(0, 0),
		},
	}
}

func TestFormatView(t *testing.T) {
	text := formatView(sampleView())

	require.Contains(t, text, "🔴 #1: оценка C")
	require.Contains(t, text, "• Левая: 100.00% (C)")
	require.Contains(t, text, "• Правая: 0.00% (AB)")
	require.Contains(t, text, "слева 100.00%, справа 0.00%")
	require.Contains(t, text, "Левая 49.5")
	require.Contains(t, text, "Правая нет")
}

func TestFormatImage(t *testing.T) {
	at := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	out := &app.GradeOutput{
		Views:    []app.ViewOutput{{View: sampleView()}},
		Overall:  entity.GradeC,
		GradedAt: at,
	}

	text := formatImage(out)
	require.Contains(t, text, "Найдено объектов: 1")
	require.Contains(t, text, "Итоговая оценка: C")
	require.Contains(t, text, "2024-05-17 09:30:00")
	require.NotContains(t, text, "Сегменты плода")
}

func TestFormatAggregate(t *testing.T) {
	agg := &entity.AggregateGradeResult{
		Views:  3,
		Policy: entity.PolicyFullness,
		Sides: []entity.SideResult{
			{Side: entity.Side("A"), Status: entity.StatusFull, Score: 0.9},
		},
		MostCommonGrade:  entity.GradeA,
		FinalGrade:       entity.GradeAMinus,
		WorstGrade:       entity.GradeB,
		IndividualGrades: []entity.Grade{entity.GradeA, entity.GradeA, entity.GradeB},
	}

	text := formatAggregate(agg, time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC))
	require.Contains(t, text, "Сводка по 3 ракурсам")
	require.Contains(t, text, "• Сегмент A: 0.90 (Full)")
	require.Contains(t, text, "Оценки ракурсов: A, A, B")
	require.Contains(t, text, "Чаще всего: A, худшая: B")
	require.Contains(t, text, "🟢 Итоговая оценка: A-")
}
