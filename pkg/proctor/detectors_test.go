package proctor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altoai/interview-platform/pkg/collab"
)

func TestSolveHeadPose_FrontalFaceIsNearlyZero(t *testing.T) {
	width, height := 640.0, 480.0
	cx, cy := width/2, height/2

	points := [6]collab.Landmark{
		{X: cx, Y: cy},         // nose tip
		{X: cx, Y: cy + 80},    // chin
		{X: cx - 60, Y: cy - 20}, // left eye outer
		{X: cx + 60, Y: cy - 20}, // right eye outer
		{X: cx - 30, Y: cy + 40}, // mouth left
		{X: cx + 30, Y: cy + 40}, // mouth right
	}

	pose, err := solveHeadPose(points, width, height)
	require.NoError(t, err)
	assert.InDelta(t, 0, pose.Yaw, 45)
}

func TestSolveHeadPose_InvalidFrameDimensions(t *testing.T) {
	_, err := solveHeadPose([6]collab.Landmark{}, 0, 0)
	assert.Error(t, err)
}

func TestGazeRatio_CenterIsHalf(t *testing.T) {
	iris := collab.Landmark{X: 50}
	cornerA := collab.Landmark{X: 0}
	cornerB := collab.Landmark{X: 100}
	assert.Equal(t, 0.5, gazeRatio(iris, cornerA, cornerB))
}

func TestGazeRatio_HandlesReversedCorners(t *testing.T) {
	iris := collab.Landmark{X: 25}
	cornerA := collab.Landmark{X: 100}
	cornerB := collab.Landmark{X: 0}
	assert.Equal(t, 0.25, gazeRatio(iris, cornerA, cornerB))
}

func TestGazeRatio_DegenerateCornersReturnsHalf(t *testing.T) {
	iris := collab.Landmark{X: 10}
	corner := collab.Landmark{X: 10}
	assert.Equal(t, 0.5, gazeRatio(iris, corner, corner))
}

func TestGazeDirection_Buckets(t *testing.T) {
	assert.Equal(t, "left", gazeDirection(0.1))
	assert.Equal(t, "right", gazeDirection(0.9))
	assert.Equal(t, "center", gazeDirection(0.5))
}

func TestBboxCentered_InsideWindow(t *testing.T) {
	assert.True(t, bboxCentered(collab.BoundingBox{X: 0.4, Y: 0.4, Width: 0.1, Height: 0.1}))
}

func TestBboxCentered_OutsideWindow(t *testing.T) {
	assert.False(t, bboxCentered(collab.BoundingBox{X: 0.0, Y: 0.0, Width: 0.05, Height: 0.05}))
}

func TestCosineSimilarity_IdenticalVectorsIsOne(t *testing.T) {
	v := []float64{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_OrthogonalVectorsIsZero(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.Equal(t, 0.0, cosineSimilarity(a, b))
}

func TestCosineSimilarity_MismatchedLengthReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 2}, []float64{1}))
}

func TestCosineSimilarity_EmptyVectorReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float64{1}))
}
