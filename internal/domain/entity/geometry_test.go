package entity

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxMidpoints(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 8, Height: 6}
	require.Equal(t, Point{X: 14, Y: 23}, b.Center())
	require.Equal(t, Point{X: 10, Y: 23}, b.LeftMid())
	require.Equal(t, Point{X: 18, Y: 23}, b.RightMid())
	require.Equal(t, Point{X: 14, Y: 20}, b.TopMid())
	require.Equal(t, Point{X: 14, Y: 26}, b.BottomMid())
}

func TestBoundingBoxWithin(t *testing.T) {
	b := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	require.True(t, b.Within(10, 10))
	require.False(t, b.Within(9, 10))
	require.False(t, BoundingBox{X: -1, Y: 0, Width: 5, Height: 5}.Within(10, 10))
}

func TestReferencePointPair_AbsentObservedScoresZero(t *testing.T) {
	p := ReferencePointPair{Side: SideLeft, Geometric: Point{X: 0, Y: 5}}
	require.Zero(t, p.Distance())

	p.Observed = Some(Point{X: 3, Y: 9})
	require.InDelta(t, 5.0, p.Distance(), 1e-9)
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 1})

	m := MaskFromImage(img)
	require.NoError(t, m.Validate())
	require.Equal(t, 2, m.Count())
	require.True(t, m.At(1, 0))
	require.True(t, m.At(2, 1))
	require.False(t, m.At(0, 0))
	require.False(t, m.At(5, 5))
}

func TestMaskValidate(t *testing.T) {
	var nilMask *Mask
	require.ErrorIs(t, nilMask.Validate(), ErrInvalidGeometry)
	require.ErrorIs(t, NewMask(0, 4).Validate(), ErrInvalidGeometry)
	require.ErrorIs(t, (&Mask{Width: 2, Height: 2, Pix: []uint8{1}}).Validate(), ErrInvalidGeometry)
	require.NoError(t, NewMask(2, 2).Validate())
}

func TestImbalanceMetric(t *testing.T) {
	m := NewImbalanceMetric(30, 10)
	require.Equal(t, 20, m.Diff)
	require.Equal(t, 40, m.Total)
	require.InDelta(t, 50.0, m.DiffPercentage, 1e-9)

	zero := NewImbalanceMetric(0, 0)
	require.Zero(t, zero.DiffPercentage)
}

func TestQuadrantCountsImbalance(t *testing.T) {
	q := QuadrantCounts{LeftTop: 0, LeftBottom: 40, RightTop: 5, RightBottom: 5}
	require.Equal(t, 50, q.Total())
	require.InDelta(t, 100.0, q.Imbalance(SideLeft).DiffPercentage, 1e-9)
	require.Zero(t, q.Imbalance(SideRight).DiffPercentage)
}
