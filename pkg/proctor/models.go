// Package proctor implements the Proctor Session: the per-session frame
// pipeline that tracks face visibility, head pose, gaze, and identity to
// emit violations and a final integrity report.
package proctor

import (
	"sync"
	"time"
)

// Sensitivity selects a named bundle of proctoring thresholds.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Thresholds is one sensitivity profile's parameter bundle.
type Thresholds struct {
	FaceConfidence        float64
	HeadPoseDegrees       float64
	GazeDegrees           float64
	NoFaceFrames          int
	LookingAwayFrames     int
	VerificationThreshold float64
}

// ThresholdsFor returns the parameter bundle for a named sensitivity,
// defaulting to medium for an unrecognized value.
func ThresholdsFor(s Sensitivity) Thresholds {
	switch s {
	case SensitivityLow:
		return Thresholds{FaceConfidence: 0.7, HeadPoseDegrees: 40, GazeDegrees: 35, NoFaceFrames: 60, LookingAwayFrames: 45, VerificationThreshold: 0.5}
	case SensitivityHigh:
		return Thresholds{FaceConfidence: 0.5, HeadPoseDegrees: 25, GazeDegrees: 20, NoFaceFrames: 15, LookingAwayFrames: 10, VerificationThreshold: 0.7}
	default:
		return Thresholds{FaceConfidence: 0.6, HeadPoseDegrees: 30, GazeDegrees: 25, NoFaceFrames: 30, LookingAwayFrames: 20, VerificationThreshold: 0.6}
	}
}

// ViolationKind enumerates the proctoring violation types.
type ViolationKind string

const (
	ViolationMultipleFaces  ViolationKind = "multiple_faces"
	ViolationNoFace         ViolationKind = "no_face"
	ViolationLookingAway    ViolationKind = "looking_away"
	ViolationDifferentPerson ViolationKind = "different_person"
	ViolationTabSwitch      ViolationKind = "tab_switch"
	ViolationWindowBlur     ViolationKind = "window_blur"
)

// Severity classifies a Violation's weight in the integrity score.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Violation is one proctoring event.
type Violation struct {
	Kind        ViolationKind
	Severity    Severity
	Confidence  float64
	FrameNumber int
	At          time.Time
	Detail      string
}

// FrameResult is the output of AnalyzeFrame.
type FrameResult struct {
	FrameNumber   int
	FaceVisible   bool
	Yaw           float64
	Pitch         float64
	Roll          float64
	GazeDirection string
	LookingAway   bool
	Violations    []Violation
	Alerts        []string
}

// ProctorReport is the output of End.
type ProctorReport struct {
	SessionID       string
	FrameCount      int
	VisibilityRatio float64
	AttentionRatio  float64
	IntegrityScore  float64
	Violations      []Violation
	Recommendation  string
}

// ProctorSession is the mutable per-session record owned exclusively by the
// Proctor Session component for its lifetime.
type ProctorSession struct {
	mu sync.Mutex

	SessionID   string
	UserID      string
	InterviewID string
	Sensitivity Sensitivity

	ReferenceEmbedding []float64

	FrameCount        int
	FaceVisibleFrames int
	LookingAwayFrames int
	lookingAwayStreak int

	Violations []Violation

	StartedAt time.Time
	Ended     bool
}

// Lock/Unlock expose the session's serialization discipline: each
// ProctorSession is mutated under its own exclusive lock.
func (s *ProctorSession) Lock()   { s.mu.Lock() }
func (s *ProctorSession) Unlock() { s.mu.Unlock() }
