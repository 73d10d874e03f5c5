package collab

import (
	"context"
	"sync"
)

// StubTranscriber returns a fixed transcript regardless of input, useful in
// tests that only care about the scoring pipeline downstream of audio.
type StubTranscriber struct {
	Text            string
	DurationSeconds float64
	Backend         SpeechBackend
	Err             error
}

func (s *StubTranscriber) Transcribe(ctx context.Context, audio []byte) (Transcript, error) {
	if s.Err != nil {
		return Transcript{}, s.Err
	}
	backend := s.Backend
	if backend == "" {
		backend = BackendWhisper
	}
	return Transcript{Text: s.Text, DurationSeconds: s.DurationSeconds, Backend: backend}, nil
}

// StubFaceDetector returns a scripted sequence of detections, one per call,
// holding the last entry once exhausted.
type StubFaceDetector struct {
	mu        sync.Mutex
	Sequence  [][]DetectedFace
	callCount int
	Err       error
}

func (s *StubFaceDetector) Detect(ctx context.Context, frame []byte) ([]DetectedFace, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sequence) == 0 {
		return nil, nil
	}
	idx := s.callCount
	if idx >= len(s.Sequence) {
		idx = len(s.Sequence) - 1
	}
	s.callCount++
	return s.Sequence[idx], nil
}

// StubFaceMesh returns a fixed landmark set for every detected face.
type StubFaceMesh struct {
	Faces []FaceLandmarks
	Err   error
}

func (s *StubFaceMesh) Landmarks(ctx context.Context, frame []byte) ([]FaceLandmarks, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Faces, nil
}

// StubFaceEmbedder returns a fixed embedding vector.
type StubFaceEmbedder struct {
	Vector []float64
	Err    error
}

func (s *StubFaceEmbedder) Embed(ctx context.Context, frame []byte) ([]float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Vector, nil
}

// StubHistoryReader is an in-memory HistoryReader backed by maps, suitable
// for tests and for the reference cmd/interviewserver binding.
type StubHistoryReader struct {
	mu            sync.RWMutex
	Recommendations map[string]string       // "userID:interviewType" -> difficulty
	Profiles        map[string]*UserProfile // "userID:interviewType" -> profile
}

func NewStubHistoryReader() *StubHistoryReader {
	return &StubHistoryReader{
		Recommendations: make(map[string]string),
		Profiles:        make(map[string]*UserProfile),
	}
}

func (r *StubHistoryReader) Recommend(ctx context.Context, userID string, interviewType string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.Recommendations[userID+":"+interviewType]; ok {
		return d, nil
	}
	return "", nil
}

func (r *StubHistoryReader) LoadProfile(ctx context.Context, userID string, interviewType string) (*UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Profiles[userID+":"+interviewType], nil
}
