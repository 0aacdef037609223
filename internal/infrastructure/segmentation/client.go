package segmentation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"durian-grader/internal/domain/entity"
	"durian-grader/internal/domain/port"
)

const defaultTimeout = 30 * time.Second

// Client адаптер внешнего сервиса сегментации
type Client struct {
	url           string // URL Python-сервиса с моделью
	healthURL     string
	minConfidence float64
	http          *http.Client
}

// NewClient создаёт клиента. timeout <= 0 означает значение по умолчанию.
func NewClient(endpoint string, timeout time.Duration, minConfidence float64) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	endpoint = strings.TrimRight(endpoint, "/")
	return &Client{
		url:           endpoint,
		healthURL:     healthEndpoint(endpoint),
		minConfidence: minConfidence,
		http:          &http.Client{Timeout: timeout},
	}
}

type detectionDTO struct {
	Box        []float64 `json:"box"` // x, y, w, h
	Confidence float64   `json:"confidence"`
	Mask       string    `json:"mask"` // PNG в base64
}

// Segment отправляет изображение модели и разбирает маски
func (c *Client) Segment(ctx context.Context, imageData []byte) ([]entity.ObjectDetection, error) {
	frame, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segmentation failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []detectionDTO `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]entity.ObjectDetection, 0, len(result.Detections))
	for i, d := range result.Detections {
		if d.Confidence < c.minConfidence {
			continue
		}
		det, err := d.toEntity()
		if err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}
		if det.Mask.Width != frame.Width || det.Mask.Height != frame.Height {
			return nil, fmt.Errorf("%w: detection %d mask %dx%d, image %dx%d", entity.ErrInvalidGeometry,
				i, det.Mask.Width, det.Mask.Height, frame.Width, frame.Height)
		}
		detections = append(detections, det)
	}
	return detections, nil
}

func (d detectionDTO) toEntity() (entity.ObjectDetection, error) {
	if len(d.Box) != 4 {
		return entity.ObjectDetection{}, fmt.Errorf("%w: box has %d values, want 4", entity.ErrInvalidGeometry, len(d.Box))
	}

	raw, err := base64.StdEncoding.DecodeString(d.Mask)
	if err != nil {
		return entity.ObjectDetection{}, fmt.Errorf("decode mask base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return entity.ObjectDetection{}, fmt.Errorf("decode mask png: %w", err)
	}

	return entity.ObjectDetection{
		Mask: entity.MaskFromImage(img),
		Box: entity.BoundingBox{
			X:      int(math.Round(d.Box[0])),
			Y:      int(math.Round(d.Box[1])),
			Width:  int(math.Round(d.Box[2])),
			Height: int(math.Round(d.Box[3])),
		},
		Confidence: d.Confidence,
	}, nil
}

// healthEndpoint заменяет последний сегмент пути на health:
// http://host:8000/segment -> http://host:8000/health
func healthEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint + "/health"
	}
	dir := "/"
	if u.Path != "" {
		dir = path.Dir(u.Path)
	}
	u.Path = path.Join(dir, "health")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// CheckHealth проверяет доступность сервиса сегментации
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("segmentation service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.Segmenter = (*Client)(nil)
