//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"durian-grader/internal/domain/entity"
)

func TestGoCVRenderer_DisabledWithoutTag(t *testing.T) {
	require.False(t, RenderingEnabled)

	_, err := NewRenderer(RenderOptions{}).Render([]byte("img"), entity.ObjectDetection{}, &entity.ViewGradeResult{})
	require.ErrorIs(t, err, ErrRenderingDisabled)
}

func TestNewContourFinder_PureGo(t *testing.T) {
	require.IsType(t, &BorderTracer{}, NewContourFinder())
}
