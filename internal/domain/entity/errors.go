package entity

import "errors"

var (
	// ErrNoDetection сегментация не нашла ни одного объекта на изображении
	ErrNoDetection = errors.New("no object detected")
	// ErrEmptyInput агрегатору передан пустой список ракурсов
	ErrEmptyInput = errors.New("no views to aggregate")
	// ErrInvalidGeometry маска или рамка не согласованы между собой
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrPolicyMismatch ракурсы оценены разными политиками
	ErrPolicyMismatch = errors.New("grading policy mismatch")
	// ErrInvalidConfiguration параметры оценки вне допустимых значений
	ErrInvalidConfiguration = errors.New("invalid grade configuration")
)
