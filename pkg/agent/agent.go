// Package agent implements the Agent Core: the per-interview scheduler that
// drives the phase state machine, selects questions from the catalog,
// dispatches answers to the scorers, tracks running performance, and
// synthesizes the final report.
//
// It sits above pkg/interview (session/question data model) and
// pkg/scoring (pure scorers + aggregator) rather than inside either, since
// pkg/scoring already imports pkg/interview for its shared vocabulary
// (Type, Evaluation, KeywordCoverage), so folding the orchestration into
// pkg/interview too would create an import cycle.
package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/altoai/interview-platform/pkg/collab"
	"github.com/altoai/interview-platform/pkg/interview"
	"github.com/altoai/interview-platform/pkg/metrics"
	"github.com/altoai/interview-platform/pkg/registry"
	"github.com/altoai/interview-platform/pkg/scoring"
)

const defaultQuestionCount = 5

// AudioInput carries both the raw audio bytes (for transcription) and the
// signal-level features the Speech Scorer needs. Decoding/transcoding
// audio into these features is an out-of-scope concern, so the caller
// supplies Features alongside the raw bytes it hands to the Transcriber.
type AudioInput struct {
	Raw      []byte
	Features scoring.AudioFeatures
}

// VideoInput is the ordered sequence of raw video frames submitted with an
// answer, one FaceDetector call per frame.
type VideoInput struct {
	Frames [][]byte
}

// Agent is the Agent Core. One Agent instance is shared process-wide; it
// owns no per-interview mutable state directly, that lives in the
// registered *interview.SessionContext values, each under its own lock.
type Agent struct {
	catalog  *interview.Catalog
	sessions *registry.Registry[*interview.SessionContext]

	transcriber  collab.Transcriber
	faceDetector collab.FaceDetector
	history      collab.HistoryReader

	aggregator    scoring.Aggregator
	textScorer    scoring.TextScorer
	speechScorer  scoring.SpeechScorer
	emotionScorer scoring.EmotionScorer

	weakThreshold   float64
	strongThreshold float64
	questionCount   int
}

// New constructs an Agent. weakThreshold/strongThreshold of 0 fall back to
// scoring's documented defaults (65/80); questionCount of 0 falls back to 5.
func New(catalog *interview.Catalog, transcriber collab.Transcriber, faceDetector collab.FaceDetector, history collab.HistoryReader, weakThreshold, strongThreshold float64, questionCount int) *Agent {
	if weakThreshold == 0 {
		weakThreshold = scoring.DefaultWeakThreshold
	}
	if strongThreshold == 0 {
		strongThreshold = scoring.DefaultStrongThreshold
	}
	if questionCount == 0 {
		questionCount = defaultQuestionCount
	}
	return &Agent{
		catalog:         catalog,
		sessions:        registry.New[*interview.SessionContext](),
		transcriber:     transcriber,
		faceDetector:    faceDetector,
		history:         history,
		aggregator:      scoring.NewAggregator(),
		textScorer:      scoring.NewTextScorer(),
		speechScorer:    scoring.NewSpeechScorer(),
		emotionScorer:   scoring.NewEmotionScorer(),
		weakThreshold:   weakThreshold,
		strongThreshold: strongThreshold,
		questionCount:   questionCount,
	}
}

// StartRequest is the input to Start.
type StartRequest struct {
	UserID       string
	Type         interview.Type
	Mode         interview.Mode
	Difficulty   *interview.Difficulty
	ResumeDigest string
	Skills       []string
	N            int
	// Seed makes question selection reproducible; nil picks a fresh seed
	// derived from wall-clock time.
	Seed *int64
}

// StartResult is Start's output.
type StartResult struct {
	InterviewID      string
	Questions        []interview.Question
	ChosenDifficulty interview.Difficulty
	Summary          interview.ContextSummary
}

// Start picks a difficulty, generates the question set, and moves the
// session into answer collection.
func (a *Agent) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	difficulty, err := a.resolveDifficulty(ctx, req)
	if err != nil {
		return nil, err
	}

	var focusAreas, avoidTopics []string
	profile, err := a.history.LoadProfile(ctx, req.UserID, string(req.Type))
	if err != nil {
		return nil, interview.NewError(interview.KindCollaboratorUnavailable, "start", err)
	}
	if profile != nil {
		focusAreas = profile.WeakTopics
		if len(profile.StrongTopics) > 3 {
			avoidTopics = profile.StrongTopics
		}
	}

	n := req.N
	if n <= 0 {
		n = a.questionCount
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	questions := a.catalog.Generate(interview.GenerateRequest{
		InterviewType: req.Type,
		Difficulty:    difficulty,
		Mode:          req.Mode,
		ResumeDigest:  req.ResumeDigest,
		Skills:        req.Skills,
		FocusAreas:    focusAreas,
		AvoidTopics:   avoidTopics,
		N:             n,
		Seed:          seed,
	})

	interviewID := registry.NewID()
	sess := interview.NewSessionContext(interviewID, req.UserID, req.Type, req.Mode)
	sess.Difficulty = difficulty
	sess.ResumeDigest = req.ResumeDigest
	sess.Skills = req.Skills
	sess.WeakAreas = focusAreas
	sess.StrongAreas = avoidTopics
	sess.Questions = questions

	if err := sess.Transition(interview.PhaseQuestionGen, "questions generated"); err != nil {
		return nil, err
	}
	if err := sess.Transition(interview.PhaseAnswerCollection, "ready for answers"); err != nil {
		return nil, err
	}
	sess.Observe("start", fmt.Sprintf("session started with %d questions at difficulty %s", len(questions), difficulty))

	a.sessions.Put(interviewID, sess)

	metrics.ActiveInterviews.Set(float64(a.sessions.Len()))
	metrics.InterviewsStartedTotal.WithLabelValues(string(req.Type), string(req.Mode)).Inc()

	return &StartResult{
		InterviewID:      interviewID,
		Questions:        questions,
		ChosenDifficulty: difficulty,
		Summary: interview.ContextSummary{
			InterviewID: interviewID,
			Type:        req.Type,
			Mode:        req.Mode,
			Difficulty:  difficulty,
			Total:       len(questions),
		},
	}, nil
}

// resolveDifficulty uses the caller's explicit choice, or else the history
// reader's Recommend result: "easy" and "hard" are taken as-is, and any
// other value, including an empty one, resolves to medium.
func (a *Agent) resolveDifficulty(ctx context.Context, req StartRequest) (interview.Difficulty, error) {
	if req.Difficulty != nil {
		return *req.Difficulty, nil
	}
	recommended, err := a.history.Recommend(ctx, req.UserID, string(req.Type))
	if err != nil {
		return "", interview.NewError(interview.KindCollaboratorUnavailable, "start", err)
	}
	switch interview.Difficulty(recommended) {
	case interview.DifficultyEasy, interview.DifficultyHard:
		return interview.Difficulty(recommended), nil
	default:
		return interview.DifficultyMedium, nil
	}
}

// SubmitRequest is the input to Submit.
type SubmitRequest struct {
	InterviewID   string
	QuestionOrder int
	AnswerText    string
	Audio         *AudioInput
	Video         *VideoInput
}

// RealtimeFeedback is the per-submission feedback record.
type RealtimeFeedback struct {
	Level   string
	Message string
	Tips    []string
}

// SubmitResult is Submit's output.
type SubmitResult struct {
	Evaluation  interview.Evaluation
	RunningPerf interview.RunningPerformance
	Feedback    RealtimeFeedback
	Remaining   int
}

// Submit scores an answer and commits the evaluation to the session.
func (a *Agent) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	sess, ok := a.sessions.Get(req.InterviewID)
	if !ok {
		return nil, interview.NewError(interview.KindNotFound, "submit", nil)
	}

	sess.Lock()
	if sess.Phase >= interview.PhaseAnalysis {
		sess.Unlock()
		return nil, interview.NewError(interview.KindSessionClosed, "submit", nil)
	}
	var question *interview.Question
	for i := range sess.Questions {
		if sess.Questions[i].Order == req.QuestionOrder {
			question = &sess.Questions[i]
			break
		}
	}
	if question == nil {
		sess.Unlock()
		return nil, interview.NewError(interview.KindNotFound, "submit", nil)
	}
	if question.AnswerReceived {
		sess.Unlock()
		return nil, interview.NewError(interview.KindAlreadyAnswered, "submit", nil)
	}
	qType, qText, qKeywords := question.Type, question.Text, question.ExpectedKeywords
	sess.Unlock()

	// Suspension point: scorer/collaborator calls run off the session lock,
	// then the result is committed under a reacquired lock.
	textResult := a.textScorer.Score(qType, qText, req.AnswerText, qKeywords)

	var (
		speechResult    *scoring.SpeechResult
		speechBackend   collab.SpeechBackend
		emotionResult   *scoring.EmotionResult
	)

	if req.Audio != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			transcript, err := a.transcriber.Transcribe(gctx, req.Audio.Raw)
			if err != nil {
				return nil // degrade: speech score defaults below
			}
			speechBackend = transcript.Backend
			result := a.speechScorer.Score(req.Audio.Features, transcript.Text)
			speechResult = &result
			return nil
		})
		if req.Video != nil {
			g.Go(func() error {
				frames, err := a.emotionFrames(gctx, req.Video.Frames)
				if err != nil {
					return nil
				}
				result := a.emotionScorer.Score(frames)
				emotionResult = &result
				return nil
			})
		}
		_ = g.Wait() // errors already absorbed into nil-result degradation above
	} else if req.Video != nil {
		frames, err := a.emotionFrames(ctx, req.Video.Frames)
		if err == nil {
			result := a.emotionScorer.Score(frames)
			emotionResult = &result
		}
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Phase >= interview.PhaseAnalysis {
		return nil, interview.NewError(interview.KindSessionClosed, "submit", nil)
	}
	if question.AnswerReceived {
		return nil, interview.NewError(interview.KindAlreadyAnswered, "submit", nil)
	}

	eval := interview.Evaluation{
		QuestionOrder: req.QuestionOrder,
		Content:       textResult.Content,
		Relevance:     textResult.Relevance,
		Keywords:      textResult.Keywords,
		Sentiment:     textResult.Sentiment,
		Coherence:     textResult.Coherence,
		WordCount:     textResult.WordCount,
		SentenceCount: textResult.SentenceCount,
		Feedback:      textResult.Feedback,
		Suggestions:   textResult.Suggestions,
		CreatedAt:     time.Now(),
	}
	if speechResult != nil {
		clarity, fluency := speechResult.Clarity, speechResult.Fluency
		eval.Clarity = &clarity
		eval.Fluency = &fluency
		eval.SpeechBackend = string(speechBackend)
	} else if req.Audio != nil {
		clarity, fluency := 70.0, 70.0 // degraded default
		eval.Clarity = &clarity
		eval.Fluency = &fluency
	}
	if emotionResult != nil {
		confidence := emotionResult.Confidence
		eval.Confidence = &confidence
		eval.DominantEmotion = emotionResult.DominantEmotion
	} else if req.Video != nil {
		confidence := 70.0
		eval.Confidence = &confidence
	}

	sess.ContentScores = append(sess.ContentScores, eval.Content)
	sess.RelevanceScores = append(sess.RelevanceScores, eval.Relevance)
	if eval.Clarity != nil {
		sess.ClarityScores = append(sess.ClarityScores, *eval.Clarity)
	}
	if eval.Fluency != nil {
		sess.FluencyScores = append(sess.FluencyScores, *eval.Fluency)
	}
	if eval.Confidence != nil {
		sess.ConfidenceScores = append(sess.ConfidenceScores, *eval.Confidence)
	}

	catAvg := (eval.Content + eval.Relevance) / 2
	cat, ok := sess.CategoryScores[question.Category]
	if !ok {
		cat = &interview.CategoryScore{}
		sess.CategoryScores[question.Category] = cat
	}
	cat.Append(catAvg)

	question.AnswerReceived = true
	sess.CurrentQuestionIndex++
	sess.Evaluations[req.QuestionOrder] = eval
	sess.Observe("submit", fmt.Sprintf("question %d scored content=%.1f relevance=%.1f", req.QuestionOrder, eval.Content, eval.Relevance))

	feedback := realtimeFeedback(catAvg, eval)
	remaining := len(sess.Questions) - sess.CurrentQuestionIndex

	metrics.EvaluationsScoredTotal.WithLabelValues(string(qType)).Inc()

	return &SubmitResult{
		Evaluation:  eval,
		RunningPerf: sess.RunningPerformance(),
		Feedback:    feedback,
		Remaining:   remaining,
	}, nil
}

// emotionFrames derives an EmotionFrame per video frame from the
// FaceDetector collaborator. The named collaborator surface (transcription,
// face-detection, face-mesh, face-embedding) has no standalone emotion
// classifier, so the dominant label is a deterministic function of
// detection confidence: a strongly, unambiguously detected face reads as
// "happy", a weakly detected one as "neutral" (documented in DESIGN.md).
func (a *Agent) emotionFrames(ctx context.Context, frames [][]byte) ([]scoring.EmotionFrame, error) {
	out := make([]scoring.EmotionFrame, len(frames))
	for i, frame := range frames {
		faces, err := a.faceDetector.Detect(ctx, frame)
		if err != nil {
			return nil, interview.NewError(interview.KindCollaboratorUnavailable, "emotion-frames", err)
		}
		if len(faces) == 0 {
			out[i] = scoring.EmotionFrame{FaceDetected: false}
			continue
		}
		best := faces[0]
		for _, f := range faces[1:] {
			if f.Confidence > best.Confidence {
				best = f
			}
		}
		dominant := "neutral"
		dist := map[string]float64{"neutral": 1 - best.Confidence*0.5, "happy": best.Confidence * 0.5}
		if best.Confidence >= 0.75 {
			dominant = "happy"
		}
		out[i] = scoring.EmotionFrame{FaceDetected: true, Emotions: dist, Dominant: dominant}
	}
	return out, nil
}

func realtimeFeedback(catAvg float64, eval interview.Evaluation) RealtimeFeedback {
	var level, message string
	switch {
	case catAvg >= 80:
		level, message = "excellent", "Strong answer that is clear and relevant with good structure."
	case catAvg >= 65:
		level, message = "good", "Good answer overall, with some room to sharpen the details."
	case catAvg >= 50:
		level, message = "fair", "Fair answer. The core idea came through but needs more support."
	default:
		level, message = "needs-improvement", "This answer needs more depth and a clearer connection to the question."
	}

	var tips []string
	if eval.WordCount < 30 {
		tips = append(tips, "Try to elaborate further and aim for a more complete answer.")
	}
	if len(eval.Keywords.Missing) > 0 {
		tips = append(tips, "Consider mentioning: "+joinFirst(eval.Keywords.Missing, 3))
	}
	if len(tips) > 2 {
		tips = tips[:2]
	}

	return RealtimeFeedback{Level: level, Message: message, Tips: tips}
}

func joinFirst(xs []string, n int) string {
	if len(xs) > n {
		xs = xs[:n]
	}
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ", "
		}
		out += x
	}
	return out
}

// ShouldAdjust reports whether the average content score across all
// answers so far justifies shifting interview difficulty up or down. It
// never suggests a change before three answers have been scored.
func (a *Agent) ShouldAdjust(interviewID string) (bool, interview.Difficulty, error) {
	sess, ok := a.sessions.Get(interviewID)
	if !ok {
		return false, "", interview.NewError(interview.KindNotFound, "should-adjust", nil)
	}
	sess.Lock()
	defer sess.Unlock()

	if len(sess.Evaluations) < 3 {
		return false, sess.Difficulty, nil
	}
	perf := sess.RunningPerformance()
	avgContent := perf.AvgContent
	switch {
	case avgContent >= 85 && sess.Difficulty != interview.DifficultyHard:
		metrics.AdaptiveDifficultyShiftsTotal.WithLabelValues(string(interview.DifficultyHard)).Inc()
		return true, interview.DifficultyHard, nil
	case avgContent <= 45 && sess.Difficulty != interview.DifficultyEasy:
		metrics.AdaptiveDifficultyShiftsTotal.WithLabelValues(string(interview.DifficultyEasy)).Inc()
		return true, interview.DifficultyEasy, nil
	default:
		return false, sess.Difficulty, nil
	}
}

// FinalReport is Complete's output.
type FinalReport struct {
	InterviewID    string
	Type           interview.Type
	Mode           interview.Mode
	Difficulty     interview.Difficulty
	OverallScore   float64
	WeakAreas      []scoring.WeakArea
	StrongAreas    []scoring.StrongArea
	SkillGaps      []scoring.SkillGap
	Suggestions    []scoring.Suggestion
	LearningPath   scoring.LearningPath
	Observations   []interview.Observation
	Decisions      []interview.Decision
	QuestionsTotal int
	Answered       int
}

// Complete aggregates every answered question into a final report and
// retires the session.
func (a *Agent) Complete(interviewID string) (*FinalReport, error) {
	sess, ok := a.sessions.Get(interviewID)
	if !ok {
		return nil, interview.NewError(interview.KindNotFound, "complete", nil)
	}

	sess.Lock()
	if err := sess.Transition(interview.PhaseAnalysis, "completion requested"); err != nil {
		sess.Unlock()
		return nil, err
	}

	var evals []scoring.QuestionEval
	for _, q := range sess.Questions {
		if eval, ok := sess.Evaluations[q.Order]; ok {
			evals = append(evals, scoring.QuestionEval{Category: q.Category, Eval: eval})
		}
	}
	perf := sess.RunningPerformance()
	difficulty := sess.Difficulty
	interviewType := sess.Type
	mode := sess.Mode
	total := len(sess.Questions)
	answered := len(sess.Evaluations)
	sess.Unlock()

	weak := a.aggregator.WeakAreas(evals, a.weakThreshold)
	strong := a.aggregator.StrongAreas(evals, a.strongThreshold)
	gaps := a.aggregator.SkillGaps(weak, interviewType)
	suggestions := a.aggregator.Suggestions(weak, strong, interviewType, evals)
	learningPath := a.aggregator.LearningPath(weak, gaps, 6)

	var clarityPtr, fluencyPtr, confidencePtr *float64
	if len(sess.ClarityScores) > 0 {
		v := perf.AvgClarity
		clarityPtr = &v
	}
	if len(sess.FluencyScores) > 0 {
		v := perf.AvgFluency
		fluencyPtr = &v
	}
	if len(sess.ConfidenceScores) > 0 {
		v := perf.AvgConfidence
		confidencePtr = &v
	}
	overall := scoring.OverallScore(perf.AvgContent, perf.AvgRelevance, clarityPtr, fluencyPtr, confidencePtr)

	sess.Lock()
	sess.Observe("complete", fmt.Sprintf("overall score %.2f", overall))
	observations := lastN(sess.Observations, 10)
	if err := sess.Transition(interview.PhaseSuggestionGen, "aggregation complete"); err != nil {
		sess.Unlock()
		return nil, err
	}
	if err := sess.Transition(interview.PhaseReportGen, "report assembled"); err != nil {
		sess.Unlock()
		return nil, err
	}
	if err := sess.Transition(interview.PhaseCompleted, "interview completed"); err != nil {
		sess.Unlock()
		return nil, err
	}
	decisions := lastN(sess.Decisions, 5)
	sess.Unlock()

	a.sessions.Delete(interviewID)
	metrics.ActiveInterviews.Set(float64(a.sessions.Len()))
	metrics.InterviewsCompletedTotal.WithLabelValues(string(interviewType)).Inc()

	return &FinalReport{
		InterviewID:    interviewID,
		Type:           interviewType,
		Mode:           mode,
		Difficulty:     difficulty,
		OverallScore:   overall,
		WeakAreas:      weak,
		StrongAreas:    strong,
		SkillGaps:      gaps,
		Suggestions:    suggestions,
		LearningPath:   learningPath,
		Observations:   observations,
		Decisions:      decisions,
		QuestionsTotal: total,
		Answered:       answered,
	}, nil
}

// Cancel is a terminal transition with no report.
func (a *Agent) Cancel(interviewID string) error {
	sess, ok := a.sessions.Get(interviewID)
	if !ok {
		return interview.NewError(interview.KindNotFound, "cancel", nil)
	}
	sess.Lock()
	sess.Observe("cancel", "session cancelled")
	err := sess.Transition(interview.PhaseCompleted, "cancelled")
	sess.Unlock()
	if err != nil {
		return err
	}
	a.sessions.Delete(interviewID)
	metrics.ActiveInterviews.Set(float64(a.sessions.Len()))
	return nil
}

// Status answers GET interview-status.
func (a *Agent) Status(interviewID string) (*interview.StatusSnapshot, error) {
	sess, ok := a.sessions.Get(interviewID)
	if !ok {
		return nil, interview.NewError(interview.KindNotFound, "status", nil)
	}
	sess.Lock()
	defer sess.Unlock()
	return &interview.StatusSnapshot{
		Phase:              sess.Phase,
		Total:              len(sess.Questions),
		Answered:           len(sess.Evaluations),
		CurrentPerformance: sess.RunningPerformance(),
		StartedAt:          sess.StartedAt,
	}, nil
}

func lastN[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
