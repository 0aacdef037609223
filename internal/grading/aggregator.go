package grading

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"durian-grader/internal/domain/entity"
)

// Aggregate сводит оценки нескольких ракурсов одного объекта.
// Баллы сторон усредняются по ракурсам, где сторона есть; статусы и итоговая оценка
// выводятся заново из средних тем же классификатором. Мода оценок ракурсов
// возвращается только для диагностики.
func Aggregate(c Classifier, views []*entity.ViewGradeResult) (*entity.AggregateGradeResult, error) {
	if len(views) == 0 {
		return nil, entity.ErrEmptyInput
	}

	var order []entity.Side
	scores := make(map[entity.Side][]float64)
	grades := make([]entity.Grade, 0, len(views))
	for i, v := range views {
		if v == nil {
			return nil, fmt.Errorf("view %d is nil", i)
		}
		if v.Policy != c.Policy() {
			return nil, fmt.Errorf("%w: view %d graded by %q, aggregating with %q",
				entity.ErrPolicyMismatch, i, v.Policy, c.Policy())
		}
		for _, s := range v.Sides {
			if _, seen := scores[s.Side]; !seen {
				order = append(order, s.Side)
			}
			scores[s.Side] = append(scores[s.Side], s.Score)
		}
		grades = append(grades, v.Grade)
	}

	sides := make([]entity.SideResult, 0, len(order))
	for _, side := range order {
		avg := stat.Mean(scores[side], nil)
		sides = append(sides, entity.SideResult{
			Side:   side,
			Score:  avg,
			Status: c.Classify(avg),
		})
	}

	return &entity.AggregateGradeResult{
		Views:            len(views),
		Policy:           c.Policy(),
		Sides:            sides,
		MostCommonGrade:  mostCommon(grades),
		FinalGrade:       c.Combine(sides),
		WorstGrade:       entity.WorstGrade(grades),
		IndividualGrades: grades,
	}, nil
}

// mostCommon мода; при равенстве побеждает значение, встреченное раньше
func mostCommon(grades []entity.Grade) entity.Grade {
	counts := make(map[entity.Grade]int, len(grades))
	var best entity.Grade
	bestCount := 0
	for _, g := range grades {
		counts[g]++
	}
	for _, g := range grades {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best
}
