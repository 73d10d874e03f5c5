package proctor

import (
	"context"
	"math"
	"time"

	"github.com/altoai/interview-platform/pkg/collab"
	"github.com/altoai/interview-platform/pkg/metrics"
	"github.com/altoai/interview-platform/pkg/registry"
)

// Proctor is the Proctor Session component: it owns the registry of
// in-flight ProctorSession values and drives the per-frame pipeline using
// the face-detection/mesh/embedding collaborators.
type Proctor struct {
	sessions *registry.Registry[*ProctorSession]

	detector collab.FaceDetector
	mesh     collab.FaceMesh
	embedder collab.FaceEmbedder

	sensitivity Sensitivity
}

func New(detector collab.FaceDetector, mesh collab.FaceMesh, embedder collab.FaceEmbedder, sensitivity Sensitivity) *Proctor {
	return &Proctor{
		sessions:    registry.New[*ProctorSession](),
		detector:    detector,
		mesh:        mesh,
		embedder:    embedder,
		sensitivity: sensitivity,
	}
}

// StartRequest is the input to Start.
type StartRequest struct {
	UserID         string
	InterviewID    string
	ReferenceImage []byte
}

// Start registers a new proctoring session.
func (p *Proctor) Start(ctx context.Context, req StartRequest) (string, error) {
	sessionID := registry.NewID()
	sess := &ProctorSession{
		SessionID:   sessionID,
		UserID:      req.UserID,
		InterviewID: req.InterviewID,
		Sensitivity: p.sensitivity,
		StartedAt:   time.Now(),
	}
	if len(req.ReferenceImage) > 0 {
		embedding, err := p.embedder.Embed(ctx, req.ReferenceImage)
		if err != nil {
			return "", NewError(KindCollaboratorUnavailable, "start", err)
		}
		sess.ReferenceEmbedding = embedding
	}
	p.sessions.Put(sessionID, sess)
	metrics.ActiveProctorSessions.Set(float64(p.sessions.Len()))
	return sessionID, nil
}

// SetReferencePhoto embeds and stores the optional reference photo used
// for identity verification.
func (p *Proctor) SetReferencePhoto(ctx context.Context, sessionID string, image []byte) error {
	sess, ok := p.sessions.Get(sessionID)
	if !ok {
		return NewError(KindNotFound, "reference-photo", nil)
	}
	embedding, err := p.embedder.Embed(ctx, image)
	if err != nil {
		return NewError(KindCollaboratorUnavailable, "reference-photo", err)
	}
	sess.Lock()
	sess.ReferenceEmbedding = embedding
	sess.Unlock()
	return nil
}

// AnalyzeFrameRequest is the input to AnalyzeFrame. Width/Height are the
// decoded frame's pixel dimensions; decoding the raw frame bytes is
// transcoding-adjacent and out of scope, so the caller supplies the
// dimensions alongside the bytes.
type AnalyzeFrameRequest struct {
	SessionID    string
	Frame        []byte
	Width        float64
	Height       float64
	VerifyPerson bool
}

// AnalyzeFrame runs the nine-step per-frame pipeline: face detection,
// visibility, head pose, gaze, identity, and violation accumulation.
func (p *Proctor) AnalyzeFrame(ctx context.Context, req AnalyzeFrameRequest) (*FrameResult, error) {
	sess, ok := p.sessions.Get(req.SessionID)
	if !ok {
		return nil, NewError(KindNotFound, "analyze-frame", nil)
	}

	// Suspension point: collaborator calls run off the session lock,
	// mirroring the Agent Core's submit().
	faces, err := p.detector.Detect(ctx, req.Frame)
	if err != nil {
		return nil, NewError(KindCollaboratorUnavailable, "analyze-frame", err)
	}

	var landmarks []collab.FaceLandmarks
	if p.mesh != nil {
		// FaceMesh is treated as best-effort: a failure here degrades the
		// frame to face-visibility-only analysis rather than failing the
		// whole call, since head-pose/gaze are refinements on top of the
		// mandatory face-detection signal.
		if lm, lerr := p.mesh.Landmarks(ctx, req.Frame); lerr == nil {
			landmarks = lm
		}
	}

	var embedding []float64
	if req.VerifyPerson && p.embedder != nil {
		if emb, eerr := p.embedder.Embed(ctx, req.Frame); eerr == nil {
			embedding = emb
		}
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Ended {
		return nil, NewError(KindSessionClosed, "analyze-frame", nil)
	}

	sess.FrameCount++
	frameNumber := sess.FrameCount
	thresholds := ThresholdsFor(sess.Sensitivity)
	now := time.Now()

	var violations []Violation
	var alerts []string

	qualifying := make([]collab.DetectedFace, 0, len(faces))
	for _, f := range faces {
		if f.Confidence >= thresholds.FaceConfidence {
			qualifying = append(qualifying, f)
		}
	}

	if len(qualifying) > 1 {
		violations = append(violations, Violation{
			Kind: ViolationMultipleFaces, Severity: SeverityHigh, Confidence: 0.95,
			FrameNumber: frameNumber, At: now, Detail: "more than one face detected",
		})
	}

	faceVisible := len(qualifying) >= 1
	if faceVisible {
		sess.FaceVisibleFrames++
		best := qualifying[0]
		for _, f := range qualifying[1:] {
			if f.Confidence > best.Confidence {
				best = f
			}
		}
		if !bboxCentered(best.BBox) {
			alerts = append(alerts, "face not centered in frame")
		}
	}

	if sess.FrameCount-sess.FaceVisibleFrames > thresholds.NoFaceFrames {
		violations = append(violations, Violation{
			Kind: ViolationNoFace, Severity: SeverityMedium, Confidence: 1.0,
			FrameNumber: frameNumber, At: now, Detail: "face not visible for too long",
		})
	}

	var pose HeadPose
	var gazeDir string
	lookingAway := false

	if faceVisible && len(landmarks) > 0 {
		face := landmarks[0]
		if points, ok := sixCanonicalPoints(face); ok {
			if solved, err := solveHeadPose(points, req.Width, req.Height); err == nil {
				pose = solved
			}
		}

		leftIris, hasLeftIris := landmarkAt(face, collab.LandmarkLeftIris)
		rightIris, hasRightIris := landmarkAt(face, collab.LandmarkRightIris)
		leftOuter, _ := landmarkAt(face, collab.LandmarkLeftEyeOuter)
		leftInner, _ := landmarkAt(face, collab.LandmarkLeftEyeInner)
		rightInner, _ := landmarkAt(face, collab.LandmarkRightEyeInner)
		rightOuter, _ := landmarkAt(face, collab.LandmarkRightEyeOuter)

		avgGaze := 0.5
		if hasLeftIris && hasRightIris {
			leftRatio := gazeRatio(leftIris, leftOuter, leftInner)
			rightRatio := gazeRatio(rightIris, rightInner, rightOuter)
			avgGaze = (leftRatio + rightRatio) / 2
		}
		gazeDir = gazeDirection(avgGaze)

		lookingAway = math.Abs(pose.Yaw) > thresholds.HeadPoseDegrees ||
			math.Abs(pose.Pitch) > thresholds.HeadPoseDegrees ||
			((gazeDir == "left" || gazeDir == "right") && (avgGaze < 0.25 || avgGaze > 0.75))
	}

	if lookingAway {
		sess.LookingAwayFrames++
		sess.lookingAwayStreak++
		threshold := thresholds.LookingAwayFrames
		if sess.lookingAwayStreak > threshold && (sess.lookingAwayStreak-threshold-1)%threshold == 0 {
			violations = append(violations, Violation{
				Kind: ViolationLookingAway, Severity: SeverityLow, Confidence: 1.0,
				FrameNumber: frameNumber, At: now, Detail: "sustained gaze/head deviation",
			})
		}
	} else {
		sess.lookingAwayStreak = 0
	}

	if req.VerifyPerson && sess.ReferenceEmbedding != nil && embedding != nil {
		similarity := cosineSimilarity(sess.ReferenceEmbedding, embedding)
		if similarity < thresholds.VerificationThreshold {
			violations = append(violations, Violation{
				Kind: ViolationDifferentPerson, Severity: SeverityCritical, Confidence: similarity,
				FrameNumber: frameNumber, At: now, Detail: "face does not match reference photo",
			})
		}
	}

	sess.Violations = append(sess.Violations, violations...)

	metrics.ProctorFramesAnalyzedTotal.Inc()
	for _, v := range violations {
		metrics.ProctorViolationsTotal.WithLabelValues(string(v.Kind), string(v.Severity)).Inc()
	}

	return &FrameResult{
		FrameNumber:   frameNumber,
		FaceVisible:   faceVisible,
		Yaw:           pose.Yaw,
		Pitch:         pose.Pitch,
		Roll:          pose.Roll,
		GazeDirection: gazeDir,
		LookingAway:   lookingAway,
		Violations:    violations,
		Alerts:        alerts,
	}, nil
}

func landmarkAt(face collab.FaceLandmarks, idx int) (collab.Landmark, bool) {
	if idx < 0 || idx >= len(face.Points) {
		return collab.Landmark{}, false
	}
	return face.Points[idx], true
}

// sixCanonicalPoints extracts the six landmarks solveHeadPose needs, in
// the fixed order canonicalModel expects.
func sixCanonicalPoints(face collab.FaceLandmarks) ([6]collab.Landmark, bool) {
	indices := [6]int{
		collab.LandmarkNoseTip, collab.LandmarkChin,
		collab.LandmarkLeftEyeOuter, collab.LandmarkRightEyeOuter,
		collab.LandmarkMouthLeft, collab.LandmarkMouthRight,
	}
	var out [6]collab.Landmark
	for i, idx := range indices {
		lm, ok := landmarkAt(face, idx)
		if !ok {
			return out, false
		}
		out[i] = lm
	}
	return out, true
}

// TabSwitch records a browser tab-switch or window-blur violation.
func (p *Proctor) TabSwitch(sessionID, kind string) (*Violation, error) {
	sess, ok := p.sessions.Get(sessionID)
	if !ok {
		return nil, NewError(KindNotFound, "tab-switch", nil)
	}

	var violationKind ViolationKind
	switch kind {
	case "switch":
		violationKind = ViolationTabSwitch
	case "blur":
		violationKind = ViolationWindowBlur
	default:
		return nil, NewError(KindValidationError, "tab-switch", nil)
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Ended {
		return nil, NewError(KindSessionClosed, "tab-switch", nil)
	}

	v := Violation{
		Kind: violationKind, Severity: SeverityMedium, Confidence: 1.0,
		FrameNumber: sess.FrameCount, At: time.Now(),
	}
	sess.Violations = append(sess.Violations, v)
	metrics.ProctorViolationsTotal.WithLabelValues(string(v.Kind), string(v.Severity)).Inc()
	return &v, nil
}

// End computes the integrity score and recommendation from accumulated
// session state and deregisters the session.
func (p *Proctor) End(sessionID string) (*ProctorReport, error) {
	sess, ok := p.sessions.Get(sessionID)
	if !ok {
		return nil, NewError(KindNotFound, "end", nil)
	}

	sess.Lock()
	sess.Ended = true
	frameCount := sess.FrameCount
	visibilityRatio := 100.0
	attentionRatio := 100.0
	if frameCount > 0 {
		visibilityRatio = float64(sess.FaceVisibleFrames) / float64(frameCount) * 100
		attentionRatio = float64(sess.FaceVisibleFrames-sess.LookingAwayFrames) / float64(frameCount) * 100
	}
	violations := append([]Violation(nil), sess.Violations...)
	sess.Unlock()

	integrity := integrityScore(visibilityRatio, attentionRatio, violations)
	recommendation := recommendationFor(integrity, violations)

	p.sessions.Delete(sessionID)
	metrics.ActiveProctorSessions.Set(float64(p.sessions.Len()))
	metrics.ProctorIntegrityScore.Observe(integrity)

	return &ProctorReport{
		SessionID:       sessionID,
		FrameCount:      frameCount,
		VisibilityRatio: round2(visibilityRatio),
		AttentionRatio:  round2(attentionRatio),
		IntegrityScore:  round2(integrity),
		Violations:      violations,
		Recommendation:  recommendation,
	}, nil
}

// integrityScore deducts severity-weighted penalties from a visibility
// and attention baseline, floored at 0.
func integrityScore(visibilityRatio, attentionRatio float64, violations []Violation) float64 {
	score := 100.0
	if visibilityRatio < 95 {
		score -= (95 - visibilityRatio) * 0.5
	}
	if attentionRatio < 90 {
		score -= (90 - attentionRatio) * 0.3
	}
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			score -= 20
		case SeverityHigh:
			score -= 10
		case SeverityMedium:
			score -= 5
		case SeverityLow:
			score -= 2
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// recommendationFor maps integrity score and violation severity onto a
// recommendation bucket.
func recommendationFor(integrity float64, violations []Violation) string {
	for _, v := range violations {
		if v.Severity == SeverityCritical {
			return "review required"
		}
	}
	switch {
	case integrity >= 90:
		return "passed"
	case integrity >= 70:
		return "passed with notes"
	case integrity >= 50:
		return "flagged"
	default:
		return "failed"
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
