package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_StringValues(t *testing.T) {
	assert.Equal(t, "init", PhaseInit.String())
	assert.Equal(t, "question-gen", PhaseQuestionGen.String())
	assert.Equal(t, "completed", PhaseCompleted.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

func TestSessionContext_TransitionForwardSucceeds(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	err := s.Transition(PhaseQuestionGen, "questions generated")
	require.NoError(t, err)
	assert.Equal(t, PhaseQuestionGen, s.Phase)
	require.Len(t, s.Decisions, 1)
	assert.Equal(t, PhaseInit, s.Decisions[0].FromPhase)
	assert.Equal(t, PhaseQuestionGen, s.Decisions[0].ToPhase)
}

func TestSessionContext_TransitionBackwardFails(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	require.NoError(t, s.Transition(PhaseAnalysis, "advance"))

	err := s.Transition(PhaseQuestionGen, "regress")
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidTransition))
	assert.Equal(t, PhaseAnalysis, s.Phase)
}

func TestSessionContext_TransitionToSamePhaseSucceeds(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	require.NoError(t, s.Transition(PhaseInit, "no-op"))
	assert.Equal(t, PhaseInit, s.Phase)
}

func TestSessionContext_RunningPerformanceEmptyIsZero(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	perf := s.RunningPerformance()
	assert.Equal(t, 0, perf.Answered)
	assert.Equal(t, 0.0, perf.AvgContent)
}

func TestSessionContext_RunningPerformanceAverages(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	s.ContentScores = []float64{80, 90}
	s.Evaluations[1] = Evaluation{QuestionOrder: 1}
	s.Evaluations[2] = Evaluation{QuestionOrder: 2}

	perf := s.RunningPerformance()
	assert.Equal(t, 2, perf.Answered)
	assert.Equal(t, 85.0, perf.AvgContent)
}

func TestCategoryScore_AverageOfEmptyIsZero(t *testing.T) {
	var cs CategoryScore
	assert.Equal(t, 0.0, cs.Average())
}

func TestCategoryScore_AppendAndAverage(t *testing.T) {
	var cs CategoryScore
	cs.Append(70)
	cs.Append(90)
	assert.Equal(t, 80.0, cs.Average())
}

func TestSessionContext_ObserveAppendsLogEntry(t *testing.T) {
	s := NewSessionContext("iv-1", "user-1", TypeGeneral, ModeStandard)
	s.Observe("violation", "face not visible")
	require.Len(t, s.Observations, 1)
	assert.Equal(t, "violation", s.Observations[0].Kind)
}
