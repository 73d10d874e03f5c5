package agent

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altoai/interview-platform/pkg/collab"
	"github.com/altoai/interview-platform/pkg/interview"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	bank, err := interview.LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := interview.NewCatalog(bank)

	history := collab.NewStubHistoryReader()
	transcriber := &collab.StubTranscriber{Text: "this is a transcribed answer with enough words to score", DurationSeconds: 10}
	faceDetector := &collab.StubFaceDetector{
		Sequence: [][]collab.DetectedFace{{{Confidence: 0.9}}},
	}

	return New(catalog, transcriber, faceDetector, history, 0, 0, 3)
}

func longAnswer() string {
	return "I worked on a distributed caching system for a large e-commerce platform, for example handling millions of requests. I led the design, collaborated with the infrastructure team, and we reduced latency significantly therefore improving customer satisfaction."
}

// TestAgent_HappyPath covers S1: start, submit every question, complete.
func TestAgent_HappyPath(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	start, err := a.Start(ctx, StartRequest{UserID: "u1", Type: interview.TypeBehavioral, N: 3, Seed: ptrInt64(1)})
	require.NoError(t, err)
	require.Len(t, start.Questions, 3)

	for _, q := range start.Questions {
		result, err := a.Submit(ctx, SubmitRequest{
			InterviewID:   start.InterviewID,
			QuestionOrder: q.Order,
			AnswerText:    longAnswer(),
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Evaluation.Content, 0.0)
	}

	report, err := a.Complete(start.InterviewID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.QuestionsTotal)
	assert.Equal(t, 3, report.Answered)
	assert.GreaterOrEqual(t, report.OverallScore, 0.0)
	assert.LessOrEqual(t, report.OverallScore, 100.0)

	_, err = a.Status(start.InterviewID)
	assert.True(t, interview.Is(err, interview.KindNotFound))
}

// TestAgent_AdaptiveUpshift covers S2: three strong answers trigger a hard shift.
func TestAgent_AdaptiveUpshift(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	medium := interview.DifficultyMedium

	start, err := a.Start(ctx, StartRequest{UserID: "u2", Type: interview.TypeBehavioral, Difficulty: &medium, N: 3, Seed: ptrInt64(2)})
	require.NoError(t, err)

	// Three copies of longAnswer: 111 words, 6 sentences, an example marker
	// and average word length above 5, so content = 40 + 30 + 15 = 85.
	for _, q := range start.Questions {
		_, err := a.Submit(ctx, SubmitRequest{
			InterviewID:   start.InterviewID,
			QuestionOrder: q.Order,
			AnswerText:    longAnswer() + " " + longAnswer() + " " + longAnswer(),
		})
		require.NoError(t, err)
	}

	adjust, newDifficulty, err := a.ShouldAdjust(start.InterviewID)
	require.NoError(t, err)
	assert.True(t, adjust)
	assert.Equal(t, interview.DifficultyHard, newDifficulty)
}

// TestAgent_DegradedEmotionChannel covers S3: a failing face detector still
// lets submit succeed, defaulting confidence rather than failing the call.
func TestAgent_DegradedEmotionChannel(t *testing.T) {
	bank, err := interview.LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := interview.NewCatalog(bank)
	history := collab.NewStubHistoryReader()
	transcriber := &collab.StubTranscriber{Text: "a fine transcribed answer with sufficient words to be scored"}
	faceDetector := &collab.StubFaceDetector{Err: assertErr}

	a := New(catalog, transcriber, faceDetector, history, 0, 0, 3)
	ctx := context.Background()

	start, err := a.Start(ctx, StartRequest{UserID: "u3", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(3)})
	require.NoError(t, err)

	result, err := a.Submit(ctx, SubmitRequest{
		InterviewID:   start.InterviewID,
		QuestionOrder: start.Questions[0].Order,
		AnswerText:    longAnswer(),
		Video:         &VideoInput{Frames: [][]byte{{1, 2, 3}}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Evaluation.Confidence)
	assert.Equal(t, 70.0, *result.Evaluation.Confidence)
}

// TestAgent_IdempotentSubmitRejectsDuplicate covers S5.
func TestAgent_IdempotentSubmitRejectsDuplicate(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	start, err := a.Start(ctx, StartRequest{UserID: "u4", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(4)})
	require.NoError(t, err)

	order := start.Questions[0].Order
	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: order, AnswerText: longAnswer()})
	require.NoError(t, err)

	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: order, AnswerText: longAnswer()})
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindAlreadyAnswered))
}

// TestAgent_ConcurrentSubmitSameQuestionCommitsOnce covers property 2 under
// the parallel-request model: two concurrent submits for the same
// question_order must not both commit, even though both can pass the
// pre-scoring idempotence check before either reacquires the lock.
func TestAgent_ConcurrentSubmitSameQuestionCommitsOnce(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	start, err := a.Start(ctx, StartRequest{UserID: "u9", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(9)})
	require.NoError(t, err)
	order := start.Questions[0].Order

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: order, AnswerText: longAnswer()})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t, interview.Is(err, interview.KindAlreadyAnswered))
		}
	}
	assert.Equal(t, 1, successes)

	sess, ok := a.sessions.Get(start.InterviewID)
	require.True(t, ok)
	sess.Lock()
	assert.Len(t, sess.Evaluations, 1)
	assert.Len(t, sess.ContentScores, 1)
	sess.Unlock()
}

func TestAgent_SubmitUnknownQuestionOrder(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	start, err := a.Start(ctx, StartRequest{UserID: "u5", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(5)})
	require.NoError(t, err)

	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: 999, AnswerText: longAnswer()})
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindNotFound))
}

func TestAgent_SubmitUnknownInterview(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	_, err := a.Submit(ctx, SubmitRequest{InterviewID: "nonexistent", QuestionOrder: 1, AnswerText: longAnswer()})
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindNotFound))
}

func TestAgent_SubmitAfterCompleteIsRejected(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	start, err := a.Start(ctx, StartRequest{UserID: "u6", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(6)})
	require.NoError(t, err)

	order := start.Questions[0].Order
	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: order, AnswerText: longAnswer()})
	require.NoError(t, err)

	_, err = a.Complete(start.InterviewID)
	require.NoError(t, err)

	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: order, AnswerText: longAnswer()})
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindNotFound))
}

// TestAgent_CancelIsSafeAndTerminal covers cancellation safety: cancel then
// reject any further submit against the now-deregistered session.
func TestAgent_CancelIsSafeAndTerminal(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	start, err := a.Start(ctx, StartRequest{UserID: "u7", Type: interview.TypeGeneral, N: 1, Seed: ptrInt64(7)})
	require.NoError(t, err)

	require.NoError(t, a.Cancel(start.InterviewID))

	err = a.Cancel(start.InterviewID)
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindNotFound))

	_, err = a.Submit(ctx, SubmitRequest{InterviewID: start.InterviewID, QuestionOrder: 1, AnswerText: longAnswer()})
	require.Error(t, err)
	assert.True(t, interview.Is(err, interview.KindNotFound))
}

func TestAgent_ShouldAdjustBeforeThreeAnswersIsFalse(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()
	start, err := a.Start(ctx, StartRequest{UserID: "u8", Type: interview.TypeGeneral, N: 2, Seed: ptrInt64(8)})
	require.NoError(t, err)

	adjust, _, err := a.ShouldAdjust(start.InterviewID)
	require.NoError(t, err)
	assert.False(t, adjust)
}

func ptrInt64(v int64) *int64 { return &v }

var assertErr = errStub("face detector unavailable")

type errStub string

func (e errStub) Error() string { return string(e) }
