package segmentation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"durian-grader/internal/domain/entity"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// maskPNG маска w x h с закрашенным прямоугольником rect
func maskPNG(t *testing.T, w, h int, rect image.Rectangle) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return base64.StdEncoding.EncodeToString(encodePNG(t, img))
}

func photo(t *testing.T, w, h int) []byte {
	t.Helper()
	return encodePNG(t, image.NewRGBA(image.Rect(0, 0, w, h)))
}

func newOracle(t *testing.T, detections []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, http.MethodPost, r.Method)

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.NotEmpty(t, data)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"detections": detections})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Segment(t *testing.T) {
	srv := newOracle(t, []map[string]any{
		{"box": []int{2, 3, 4, 5}, "confidence": 0.92, "mask": maskPNG(t, 10, 12, image.Rect(2, 3, 6, 8))},
		{"box": []int{0, 0, 1, 1}, "confidence": 0.1, "mask": maskPNG(t, 10, 12, image.Rect(0, 0, 1, 1))},
	})

	client := NewClient(srv.URL, time.Second, 0.5)
	dets, err := client.Segment(context.Background(), photo(t, 10, 12))
	require.NoError(t, err)
	require.Len(t, dets, 1)

	det := dets[0]
	require.Equal(t, entity.BoundingBox{X: 2, Y: 3, Width: 4, Height: 5}, det.Box)
	require.InDelta(t, 0.92, det.Confidence, 1e-9)
	require.Equal(t, 10, det.Mask.Width)
	require.Equal(t, 12, det.Mask.Height)
	require.Equal(t, 20, det.Mask.Count())
	require.True(t, det.Mask.At(2, 3))
	require.False(t, det.Mask.At(6, 8))
}

func TestClient_SegmentNoDetections(t *testing.T) {
	srv := newOracle(t, nil)

	dets, err := NewClient(srv.URL, 0, 0).Segment(context.Background(), photo(t, 4, 4))
	require.NoError(t, err)
	require.Empty(t, dets)
}

func TestClient_SegmentMaskSizeMismatch(t *testing.T) {
	srv := newOracle(t, []map[string]any{
		{"box": []int{0, 0, 2, 2}, "confidence": 0.9, "mask": maskPNG(t, 8, 8, image.Rect(0, 0, 2, 2))},
	})

	_, err := NewClient(srv.URL, time.Second, 0).Segment(context.Background(), photo(t, 10, 10))
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestClient_SegmentBadBox(t *testing.T) {
	srv := newOracle(t, []map[string]any{
		{"box": []int{0, 0, 2}, "confidence": 0.9, "mask": maskPNG(t, 4, 4, image.Rect(0, 0, 2, 2))},
	})

	_, err := NewClient(srv.URL, time.Second, 0).Segment(context.Background(), photo(t, 4, 4))
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestClient_SegmentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, 0).Segment(context.Background(), photo(t, 4, 4))
	require.Error(t, err)
}

func TestClient_SegmentRejectsUnknownImage(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", time.Second, 0).Segment(context.Background(), []byte("not an image"))
	require.Error(t, err)
}

func TestClient_CheckHealth(t *testing.T) {
	srv := newOracle(t, nil)
	require.NoError(t, NewClient(srv.URL+"/", time.Second, 0).CheckHealth(context.Background()))

	paths := make(chan string, 1)
	svc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer svc.Close()
	require.NoError(t, NewClient(svc.URL+"/segment", time.Second, 0).CheckHealth(context.Background()))
	require.Equal(t, "/health", <-paths)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	require.Error(t, NewClient(down.URL, time.Second, 0).CheckHealth(context.Background()))
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{endpoint: "http://localhost:8000/segment", want: "http://localhost:8000/health"},
		{endpoint: "http://localhost:8000/api/v1/segment", want: "http://localhost:8000/api/v1/health"},
		{endpoint: "http://localhost:8000", want: "http://localhost:8000/health"},
		{endpoint: "http://localhost:8000/segment?model=durian", want: "http://localhost:8000/health"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			require.Equal(t, tt.want, healthEndpoint(tt.endpoint))
		})
	}
}
