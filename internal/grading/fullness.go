package grading

import (
	"fmt"
	"image"
	"math"

	"durian-grader/internal/domain/entity"
)

// expectedAreaShare доля площади половины кадра, которую занимает «полная» сторона
const expectedAreaShare = 0.3

// AreaFullness заполненность левой и правой половины кадра: площадь маски в половине,
// делённая на ожидаемую площадь (30% площади половины), не больше 1.
func AreaFullness(mask *entity.Mask, centerX float64) (map[entity.Side]float64, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}

	leftCols := columnsLeftOf(centerX, mask.Width)
	var left, right int
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] == 0 {
				continue
			}
			if x < leftCols {
				left++
			} else {
				right++
			}
		}
	}

	return map[entity.Side]float64{
		entity.SideLeft:  areaRatio(left, leftCols*mask.Height),
		entity.SideRight: areaRatio(right, (mask.Width-leftCols)*mask.Height),
	}, nil
}

// ObjectAreaFullness заполненность всего кадра одним сегментом
func ObjectAreaFullness(mask *entity.Mask) (float64, error) {
	if err := mask.Validate(); err != nil {
		return 0, err
	}
	return areaRatio(mask.Count(), mask.Width*mask.Height), nil
}

func areaRatio(area, total int) float64 {
	expected := float64(total) * expectedAreaShare
	if expected <= 0 {
		return 0
	}
	return math.Min(float64(area)/expected, 1)
}

// columnsLeftOf число столбцов, центр которых лежит не правее линии
func columnsLeftOf(centerX float64, width int) int {
	n := int(math.Floor(centerX-0.5)) + 1
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

// SignalFullness заполненность по цвету: средние насыщенность и яркость (HSV, 0..255)
// по пикселям маски в каждой половине. Балл стороны равен меньшему из двух, так что
// пороги Full/Half требуют, чтобы оба канала были выше порога.
func SignalFullness(img image.Image, mask *entity.Mask, centerX float64) (map[entity.Side]float64, error) {
	if err := checkImageMatchesMask(img, mask); err != nil {
		return nil, err
	}

	var left, right hsvMean
	b := img.Bounds()
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] == 0 {
				continue
			}
			s, v := saturationValue(img, b.Min.X+x, b.Min.Y+y)
			if float64(x)+0.5 <= centerX {
				left.add(s, v)
			} else {
				right.add(s, v)
			}
		}
	}

	return map[entity.Side]float64{
		entity.SideLeft:  left.score(),
		entity.SideRight: right.score(),
	}, nil
}

// ObjectSignalFullness цветовая заполненность по всей маске
func ObjectSignalFullness(img image.Image, mask *entity.Mask) (float64, error) {
	if err := checkImageMatchesMask(img, mask); err != nil {
		return 0, err
	}

	var all hsvMean
	b := img.Bounds()
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[y*mask.Width+x] != 0 {
				all.add(saturationValue(img, b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return all.score(), nil
}

func checkImageMatchesMask(img image.Image, mask *entity.Mask) error {
	if err := mask.Validate(); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: image is nil", entity.ErrInvalidGeometry)
	}
	b := img.Bounds()
	if b.Dx() != mask.Width || b.Dy() != mask.Height {
		return fmt.Errorf("%w: image %dx%d does not match mask %dx%d",
			entity.ErrInvalidGeometry, b.Dx(), b.Dy(), mask.Width, mask.Height)
	}
	return nil
}

type hsvMean struct {
	s, v float64
	n    int
}

func (m *hsvMean) add(s, v float64) {
	m.s += s
	m.v += v
	m.n++
}

func (m *hsvMean) score() float64 {
	if m.n == 0 {
		return 0
	}
	return math.Min(m.s/float64(m.n), m.v/float64(m.n))
}

// saturationValue каналы S и V в шкале OpenCV для 8-битных изображений
func saturationValue(img image.Image, x, y int) (float64, float64) {
	r, g, b, _ := img.At(x, y).RGBA()
	r8, g8, b8 := float64(r>>8), float64(g>>8), float64(b>>8)

	hi := math.Max(r8, math.Max(g8, b8))
	lo := math.Min(r8, math.Min(g8, b8))
	if hi == 0 {
		return 0, 0
	}
	return 255 * (hi - lo) / hi, hi
}
