package telegram

import (
	"fmt"
	"strings"
	"time"

	app "durian-grader/internal/application"
	"durian-grader/internal/domain/entity"
)

const timeLayout = "2006-01-02 15:04:05"

var sideNames = map[entity.Side]string{
	entity.SideLeft:   "Левая",
	entity.SideRight:  "Правая",
	entity.SideTop:    "Верхняя",
	entity.SideBottom: "Нижняя",
}

func sideName(side entity.Side) string {
	if name, ok := sideNames[side]; ok {
		return name
	}
	return "Сегмент " + string(side)
}

func gradeMark(g entity.Grade) string {
	switch g {
	case entity.GradeC:
		return "🔴"
	case entity.GradeAB, entity.GradeAPlus, entity.GradeA, entity.GradeAMinus:
		return "🟢"
	default:
		return "🟡"
	}
}

// formatSides строки по сторонам: балл и статус
func formatSides(b *strings.Builder, policy entity.Policy, sides []entity.SideResult) {
	for _, s := range sides {
		fmt.Fprintf(b, "• %s: %s (%s)\n", sideName(s.Side), formatScore(policy, s.Score), s.Status)
	}
}

func formatScore(policy entity.Policy, score float64) string {
	switch policy {
	case entity.PolicyDistance:
		return fmt.Sprintf("%.1f px", score)
	case entity.PolicyPercentage:
		return fmt.Sprintf("%.2f%%", score)
	}
	return fmt.Sprintf("%.2f", score)
}

// formatView отчёт по одному ракурсу или объекту
func formatView(v *entity.ViewGradeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: оценка %s\n", gradeMark(v.Grade), v.Label, v.Grade)
	formatSides(&b, v.Policy, v.Sides)
	fmt.Fprintf(&b, "Дисбаланс верх/низ: слева %.2f%%, справа %.2f%%\n",
		v.Left.DiffPercentage, v.Right.DiffPercentage)
	if v.Points != nil {
		b.WriteString("Смещение опорных точек:")
		for _, pair := range v.Points.All() {
			if !pair.Observed.Valid {
				fmt.Fprintf(&b, " %s нет", sideName(pair.Side))
				continue
			}
			fmt.Fprintf(&b, " %s %.1f", sideName(pair.Side), pair.Distance())
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatImage отчёт по снимку: все объекты и общая оценка
func formatImage(out *app.GradeOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍈 Найдено объектов: %d\n\n", len(out.Views))
	for _, v := range out.Views {
		b.WriteString(formatView(v.View))
		b.WriteString("\n\n")
	}
	if out.Segments != nil {
		b.WriteString("Сегменты плода:\n")
		formatSides(&b, out.Segments.Policy, out.Segments.Sides)
	}
	fmt.Fprintf(&b, "%s Итоговая оценка: %s\n", gradeMark(out.Overall), out.Overall)
	fmt.Fprintf(&b, "🕒 %s", out.GradedAt.Format(timeLayout))
	return b.String()
}

// formatAggregate отчёт по нескольким ракурсам одного плода
func formatAggregate(a *entity.AggregateGradeResult, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Сводка по %d ракурсам\n", a.Views)
	formatSides(&b, a.Policy, a.Sides)

	grades := make([]string, len(a.IndividualGrades))
	for i, g := range a.IndividualGrades {
		grades[i] = string(g)
	}
	fmt.Fprintf(&b, "Оценки ракурсов: %s\n", strings.Join(grades, ", "))
	fmt.Fprintf(&b, "Чаще всего: %s, худшая: %s\n", a.MostCommonGrade, a.WorstGrade)
	fmt.Fprintf(&b, "%s Итоговая оценка: %s\n", gradeMark(a.FinalGrade), a.FinalGrade)
	fmt.Fprintf(&b, "🕒 %s", at.Format(timeLayout))
	return b.String()
}
