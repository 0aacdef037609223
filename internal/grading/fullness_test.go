package grading

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"durian-grader/internal/domain/entity"
)

func TestAreaFullness(t *testing.T) {
	mask := entity.NewMask(100, 10)
	mask.FillRect(0, 0, 50, 10)
	mask.FillRect(50, 0, 53, 10)

	got, err := AreaFullness(mask, 50)
	require.NoError(t, err)
	require.Equal(t, 1.0, got[entity.SideLeft])
	require.InDelta(t, 30.0/150.0, got[entity.SideRight], 1e-9)
}

func TestObjectAreaFullness(t *testing.T) {
	mask := entity.NewMask(10, 10)
	mask.FillRect(0, 0, 5, 3)

	got, err := ObjectAreaFullness(mask)
	require.NoError(t, err)
	require.InDelta(t, 0.5, got, 1e-9)

	_, err = ObjectAreaFullness(nil)
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestSignalFullness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		img.Set(0, y, color.RGBA{R: 255, A: 255})
		img.Set(1, y, color.RGBA{R: 255, A: 255})
		img.Set(2, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		img.Set(3, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	}
	mask := entity.NewMask(4, 2)
	mask.FillRect(0, 0, 4, 2)

	got, err := SignalFullness(img, mask, 2)
	require.NoError(t, err)
	require.InDelta(t, 255.0, got[entity.SideLeft], 1e-9)
	require.Zero(t, got[entity.SideRight])

	whole, err := ObjectSignalFullness(img, mask)
	require.NoError(t, err)
	require.InDelta(t, 127.5, whole, 1e-9)
}

func TestSignalFullness_SizeMismatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	_, err := SignalFullness(img, entity.NewMask(4, 2), 2)
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)

	_, err = ObjectSignalFullness(nil, entity.NewMask(4, 2))
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}
