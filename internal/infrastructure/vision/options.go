package vision

// RenderOptions параметры отрисовки оверлея
type RenderOptions struct {
	LineThickness int
	PointSize     int
	Alpha         float64 // прозрачность заливки половин
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.LineThickness <= 0 {
		o.LineThickness = 1
	}
	if o.PointSize <= 0 {
		o.PointSize = 3
	}
	if o.Alpha <= 0 {
		o.Alpha = 0.5
	}
	return o
}
