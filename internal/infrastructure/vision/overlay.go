//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

// statusColors заливка половин по статусу, BGR
var statusColors = map[entity.SideStatus][3]uint8{
	entity.StatusAB:    {50, 255, 50},
	entity.StatusFull:  {50, 255, 50},
	entity.StatusC:     {50, 255, 255},
	entity.StatusHalf:  {50, 255, 255},
	entity.StatusEmpty: {50, 50, 255},
}

// RenderingEnabled сборка умеет рисовать оверлей
const RenderingEnabled = true

// GoCVRenderer рисует диагностический оверлей средствами OpenCV
type GoCVRenderer struct {
	opts RenderOptions
}

// NewRenderer создаёт рендерер оверлея
func NewRenderer(opts RenderOptions) *GoCVRenderer {
	return &GoCVRenderer{opts: opts.withDefaults()}
}

// Render рисует контур, рамку, линии раздела, опорные точки и подсвечивает половины.
func (r *GoCVRenderer) Render(imageData []byte, det entity.ObjectDetection, view *entity.ViewGradeResult) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if view == nil || det.Mask == nil {
		return nil, errors.New("nothing to render")
	}
	if det.Mask.Width != mat.Cols() || det.Mask.Height != mat.Rows() {
		return nil, errors.New("mask size does not match image")
	}

	r.tintHalves(&mat, det.Mask, view)

	maskMat := maskToMat(det.Mask)
	defer maskMat.Close()
	contours := gocv.FindContours(maskMat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	gocv.DrawContours(&mat, contours, -1, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)

	green := color.RGBA{G: 255, A: 255}
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	black := color.RGBA{A: 255}

	box := det.Box
	gocv.Rectangle(&mat, image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height), green, r.opts.LineThickness)

	cx := int(view.CenterX)
	cy := int(view.CenterY)
	gocv.Line(&mat, image.Pt(cx, box.Y), image.Pt(cx, box.Y+box.Height), red, r.opts.LineThickness)
	gocv.Line(&mat, image.Pt(box.X, cy), image.Pt(box.X+box.Width, cy), red, r.opts.LineThickness)

	if view.Points != nil {
		for _, pair := range view.Points.All() {
			geometric := toImagePoint(pair.Geometric)
			gocv.Circle(&mat, geometric, r.opts.PointSize, red, -1)
			if observed, ok := pair.Observed.Get(); ok {
				gocv.Circle(&mat, toImagePoint(observed), r.opts.PointSize, blue, -1)
				gocv.Line(&mat, toImagePoint(observed), geometric, black, r.opts.LineThickness)
			}
		}
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tintHalves смешивает левую и правую половину маски с цветом их статуса.
func (r *GoCVRenderer) tintHalves(mat *gocv.Mat, mask *entity.Mask, view *entity.ViewGradeResult) {
	left, _ := view.Side(entity.SideLeft)
	right, _ := view.Side(entity.SideRight)

	overlay := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mat.Rows(), mat.Cols(), mat.Type())
	defer overlay.Close()

	channels := mat.Channels()
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if !mask.At(x, y) {
				continue
			}
			status := right.Status
			if float64(x)+0.5 <= view.CenterX {
				status = left.Status
			}
			c, ok := statusColors[status]
			if !ok {
				continue
			}
			for ch := 0; ch < channels && ch < 3; ch++ {
				overlay.SetUCharAt(y, x*channels+ch, c[ch])
			}
		}
	}
	gocv.AddWeighted(*mat, 1.0, overlay, r.opts.Alpha, 0, mat)
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func toImagePoint(p entity.Point) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

var _ port.OverlayRenderer = (*GoCVRenderer)(nil)
