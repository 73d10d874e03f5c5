package proctor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/altoai/interview-platform/pkg/collab"
)

// canonicalModel is a generic frontal-face 3D model in millimeters: nose
// tip, chin, left eye outer corner, right eye outer corner, left mouth
// corner, right mouth corner. Values follow the widely-used reference
// head-pose model (nose tip at the origin).
var canonicalModel = [6][3]float64{
	{0, 0, 0},
	{0, -330, -65},
	{-225, 170, -135},
	{225, 170, -135},
	{-150, -150, -125},
	{150, -150, -125},
}

// HeadPose is a yaw/pitch/roll estimate in degrees.
type HeadPose struct {
	Yaw, Pitch, Roll float64
}

// solveHeadPose estimates head pose from six 2D landmark correspondences
// against canonicalModel using a pinhole camera matrix
// ([[W,0,W/2],[0,W,H/2],[0,0,1]], no distortion). It builds the direct
// linear transform (DLT) for the camera projection matrix, solves it by
// SVD, then recovers the nearest proper rotation from the result's linear
// part by a second SVD (Procrustes orthogonalization), a standard compact
// decomposition for a known-intrinsics PnP problem, implemented over
// gonum.org/v1/gonum/mat.
func solveHeadPose(points [6]collab.Landmark, width, height float64) (HeadPose, error) {
	if width <= 0 || height <= 0 {
		return HeadPose{}, errInvalidFrame
	}
	fx, fy := width, width
	cx, cy := width/2, height/2

	a := mat.NewDense(12, 12, nil)
	for i, p := range points {
		X, Y, Z := canonicalModel[i][0], canonicalModel[i][1], canonicalModel[i][2]
		xn := (p.X - cx) / fx
		yn := (p.Y - cy) / fy

		a.SetRow(2*i, []float64{X, Y, Z, 1, 0, 0, 0, 0, -xn * X, -xn * Y, -xn * Z, -xn})
		a.SetRow(2*i+1, []float64{0, 0, 0, 0, X, Y, Z, 1, -yn * X, -yn * Y, -yn * Z, -yn})
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return HeadPose{}, errPoseSolve
	}
	var v mat.Dense
	svd.VTo(&v)

	p := make([]float64, 12)
	for i := 0; i < 12; i++ {
		p[i] = v.At(i, 11) // smallest singular value's right-singular vector
	}

	r1Norm := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if r1Norm == 0 {
		return HeadPose{}, errPoseSolve
	}
	scale := 1 / r1Norm

	r1 := []float64{p[0] * scale, p[1] * scale, p[2] * scale}
	r2 := []float64{p[4] * scale, p[5] * scale, p[6] * scale}
	r3 := cross(r1, r2)

	raw := mat.NewDense(3, 3, nil)
	raw.SetRow(0, r1)
	raw.SetRow(1, r2)
	raw.SetRow(2, r3)

	var rsvd mat.SVD
	if ok := rsvd.Factorize(raw, mat.SVDFull); !ok {
		return HeadPose{}, errPoseSolve
	}
	var u, vt mat.Dense
	rsvd.UTo(&u)
	rsvd.VTo(&vt)
	var r mat.Dense
	r.Mul(&u, vt.T())

	return eulerFromRotation(&r), nil
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// eulerFromRotation extracts yaw/pitch/roll in degrees from a rotation
// matrix assumed in R = Rz(yaw)·Ry(pitch)·Rx(roll) order.
func eulerFromRotation(r *mat.Dense) HeadPose {
	r00, r10, r20 := r.At(0, 0), r.At(1, 0), r.At(2, 0)
	r21, r22 := r.At(2, 1), r.At(2, 2)

	pitch := math.Atan2(-r20, math.Sqrt(r21*r21+r22*r22))
	yaw := math.Atan2(r10, r00)
	roll := math.Atan2(r21, r22)

	const rad2deg = 180 / math.Pi
	return HeadPose{Yaw: yaw * rad2deg, Pitch: pitch * rad2deg, Roll: roll * rad2deg}
}

// gazeRatio maps an iris landmark's horizontal position between two eye
// corners onto [0,1].
func gazeRatio(iris, cornerA, cornerB collab.Landmark) float64 {
	lo, hi := cornerA.X, cornerB.X
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == lo {
		return 0.5
	}
	r := (iris.X - lo) / (hi - lo)
	return clamp01(r)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// gazeDirection classifies an averaged horizontal gaze ratio: left if
// <0.35, right if >0.65, else center.
func gazeDirection(avg float64) string {
	switch {
	case avg < 0.35:
		return "left"
	case avg > 0.65:
		return "right"
	default:
		return "center"
	}
}

// bboxCentered reports whether a bounding box's center falls within the
// fixed centering window.
func bboxCentered(b collab.BoundingBox) bool {
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	return cx >= 0.3 && cx <= 0.7 && cy >= 0.2 && cy <= 0.8
}

// cosineSimilarity compares two embeddings; returns 0 if either is empty
// or they differ in length.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
