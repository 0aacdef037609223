package entity

import (
	"fmt"
	"image"
)

// Mask бинарная маска объекта: ненулевой пиксель принадлежит объекту
type Mask struct {
	Width  int
	Height int
	Pix    []uint8 // построчно, len = Width*Height
}

// NewMask создаёт пустую маску заданного размера
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// MaskFromImage строит маску из изображения: любой ненулевой пиксель считается объектом.
func MaskFromImage(img image.Image) *Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if r|g|b != 0 {
				m.Pix[y*m.Width+x] = 1
			}
		}
	}
	return m
}

// At сообщает, принадлежит ли пиксель объекту. Вне маски всегда false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set помечает пиксель как объект или фон
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	var v uint8
	if on {
		v = 1
	}
	m.Pix[y*m.Width+x] = v
}

// FillRect закрашивает прямоугольник [x0,x1) x [y0,y1)
func (m *Mask) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, true)
		}
	}
}

// Count возвращает число пикселей объекта
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Validate проверяет согласованность размеров и буфера
func (m *Mask) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: mask is nil", ErrInvalidGeometry)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: mask has no area (%dx%d)", ErrInvalidGeometry, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: mask buffer has %d cells, want %d", ErrInvalidGeometry, len(m.Pix), m.Width*m.Height)
	}
	return nil
}
