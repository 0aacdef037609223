package vision

import (
	"image"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// Метки пикселей при обходе границы (как в алгоритме Suzuki–Abe):
// 1 объект, 2 пройденная граница, rightBound граница с фоном справа.
const (
	labelBorder     int8 = 2
	labelRightBound int8 = 2 | -128
)

// chainDeltas смещения цепного кода: 0 восток, далее против часовой стрелки (ось Y вниз)
var chainDeltas = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: -1},
	{X: -1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// BorderTracer находит внешние контуры маски без OpenCV.
// Результат совпадает с findContours(RETR_EXTERNAL, CHAIN_APPROX_SIMPLE).
type BorderTracer struct{}

// NewBorderTracer создаёт трассировщик контуров
func NewBorderTracer() *BorderTracer {
	return &BorderTracer{}
}

// FindExternal возвращает внешние контуры в порядке построчного обхода
func (t *BorderTracer) FindExternal(mask *entity.Mask) [][]image.Point {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil
	}

	g := newLabelGrid(mask)
	var contours [][]image.Point
	for y := 1; y < g.h-1; y++ {
		lnbd := g.off(0, y) // последний встреченный пиксель границы в строке
		var prev int8
		for x := 1; x < g.w-1; x++ {
			i := g.off(x, y)
			p := g.pix[i]
			if p == prev {
				continue
			}

			switch {
			case prev == 0 && p == 1:
				// Начало внешней границы; внутри другого объекта пропускаем.
				if g.pix[lnbd] <= 0 {
					contours = append(contours, g.follow(x, y))
					prev = g.pix[i]
					continue
				}
			case p == 0 && prev >= 1 && prev&-2 != 0:
				// Граница дыры: в режиме внешних контуров не обходим.
				lnbd = i - 1
			}

			prev = p
			if prev&-2 != 0 {
				lnbd = i
			}
		}
	}
	return contours
}

// labelGrid маска с рамкой в один пиксель фона
type labelGrid struct {
	w, h   int
	pix    []int8
	deltas [16]int
}

func newLabelGrid(mask *entity.Mask) *labelGrid {
	g := &labelGrid{w: mask.Width + 2, h: mask.Height + 2}
	g.pix = make([]int8, g.w*g.h)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] != 0 {
				g.pix[g.off(x+1, y+1)] = 1
			}
		}
	}
	for s, d := range chainDeltas {
		g.deltas[s] = d.Y*g.w + d.X
		g.deltas[s+8] = g.deltas[s]
	}
	return g
}

func (g *labelGrid) off(x, y int) int {
	return y*g.w + x
}

// follow обходит внешнюю границу, начиная с пикселя (x0, y0), и помечает её.
// Точка записывается только при смене направления движения.
func (g *labelGrid) follow(x0, y0 int) []image.Point {
	origin := image.Pt(1, 1)
	i0 := g.off(x0, y0)
	pt := image.Pt(x0, y0)

	s, sEnd := 4, 4
	var i1 int
	for {
		s = (s - 1) & 7
		i1 = i0 + g.deltas[s]
		if g.pix[i1] != 0 || s == sEnd {
			break
		}
	}

	if s == sEnd && g.pix[i1] == 0 {
		// Одиночный пиксель.
		g.pix[i0] = labelRightBound
		return []image.Point{pt.Sub(origin)}
	}

	var points []image.Point
	i3 := i0
	prevS := s ^ 4
	for {
		sEnd = s
		var i4 int
		for s < 15 {
			s++
			i4 = i3 + g.deltas[s]
			if g.pix[i4] != 0 {
				break
			}
		}
		s &= 7

		if uint(s-1) < uint(sEnd) {
			g.pix[i3] = labelRightBound
		} else if g.pix[i3] == 1 {
			g.pix[i3] = labelBorder
		}

		if s != prevS {
			points = append(points, pt.Sub(origin))
			prevS = s
		}
		pt = pt.Add(chainDeltas[s])

		if i4 == i0 && i3 == i1 {
			break
		}
		i3 = i4
		s = (s + 4) & 7
	}
	return points
}

// Проверка реализации интерфейса
var _ port.ContourFinder = (*BorderTracer)(nil)
