package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_GenerateStandardModeRespectsN(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	questions := catalog.Generate(GenerateRequest{
		InterviewType: TypeBehavioral,
		Difficulty:    DifficultyMedium,
		N:             3,
		Seed:          42,
	})

	assert.LessOrEqual(t, len(questions), 3)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Order)
		assert.Equal(t, TypeBehavioral, q.Type)
	}
}

func TestCatalog_GenerateIsDeterministicForFixedSeed(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	req := GenerateRequest{InterviewType: TypeHR, Difficulty: DifficultyEasy, N: 4, Seed: 7}
	first := catalog.Generate(req)
	second := catalog.Generate(req)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestCatalog_GenerateUPSCModeUsesSubCategories(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	questions := catalog.Generate(GenerateRequest{
		InterviewType: TypeUPSC,
		Mode:          ModeUPSC,
		Difficulty:    DifficultyMedium,
		N:             15,
		Seed:          1,
	})
	assert.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Equal(t, TypeUPSC, q.Type)
	}
}

func TestCatalog_GenerateTechnicalMatchesSkills(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	questions := catalog.Generate(GenerateRequest{
		InterviewType: TypeTechnical,
		Skills:        []string{"algorithms"},
		N:             5,
		Seed:          3,
	})
	assert.NotEmpty(t, questions)
	// The two skill-matched draws come first, ahead of any backfill.
	require.GreaterOrEqual(t, len(questions), 2)
	assert.Equal(t, "algorithms", questions[0].Category)
	assert.Equal(t, "algorithms", questions[1].Category)
}

func TestCatalog_GenerateDropsAvoidTopics(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	withAvoid := catalog.Generate(GenerateRequest{
		InterviewType: TypeGeneral,
		Difficulty:    DifficultyMedium,
		N:             20,
		AvoidTopics:   []string{"teamwork"},
		Seed:          9,
	})
	for _, q := range withAvoid {
		assert.NotEqual(t, "teamwork", q.Category)
	}
}

func TestCatalog_GenerateFocusAreasPrioritizedFirst(t *testing.T) {
	bank, err := LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := NewCatalog(bank)

	questions := catalog.Generate(GenerateRequest{
		InterviewType: TypeBehavioral,
		Difficulty:    DifficultyMedium,
		N:             5,
		FocusAreas:    []string{"conflict"},
		Seed:          11,
	})
	require.NotEmpty(t, questions)

	seenNonMatching := false
	for _, q := range questions {
		matches := containsAnyCI(q.Category, []string{"conflict"})
		for _, kw := range q.ExpectedKeywords {
			matches = matches || containsAnyCI(kw, []string{"conflict"})
		}
		if matches {
			assert.False(t, seenNonMatching, "focus-matching question %s follows a non-matching one", q.ID)
		} else {
			seenNonMatching = true
		}
	}
}

func TestDifficultyMix_Tables(t *testing.T) {
	easy, medium, hard := difficultyMix(DifficultyEasy)
	assert.Equal(t, 3, easy)
	assert.Equal(t, 2, medium)
	assert.Equal(t, 0, hard)

	easy, medium, hard = difficultyMix(DifficultyHard)
	assert.Equal(t, 0, easy)
	assert.Equal(t, 2, medium)
	assert.Equal(t, 3, hard)

	easy, medium, hard = difficultyMix(DifficultyMedium)
	assert.Equal(t, 1, easy)
	assert.Equal(t, 3, medium)
	assert.Equal(t, 1, hard)
}

func TestReclassifyDifficulty_HardIndicatorOverrides(t *testing.T) {
	pool := []bankEntry{
		{ID: "q1", Text: "Critically evaluate the tradeoffs of this approach.", Difficulty: DifficultyEasy},
	}
	out := reclassifyDifficulty(pool)
	assert.Equal(t, DifficultyHard, out[0].Difficulty)
}

func TestReclassifyDifficulty_EasyIndicator(t *testing.T) {
	pool := []bankEntry{
		{ID: "q1", Text: "What is polymorphism?", Difficulty: DifficultyHard},
	}
	out := reclassifyDifficulty(pool)
	assert.Equal(t, DifficultyEasy, out[0].Difficulty)
}

func TestDropAvoidTopics_MatchesCategoryAndKeywords(t *testing.T) {
	pool := []bankEntry{
		{ID: "q1", Category: "databases", Keywords: []string{"sql"}},
		{ID: "q2", Category: "algorithms", Keywords: []string{"sorting"}},
	}
	out := dropAvoidTopics(pool, []string{"sql"})
	require.Len(t, out, 1)
	assert.Equal(t, "q2", out[0].ID)
}

func TestPrioritizeFocusAreas_StablePartition(t *testing.T) {
	pool := []bankEntry{
		{ID: "q1", Category: "teamwork"},
		{ID: "q2", Category: "leadership"},
		{ID: "q3", Category: "teamwork"},
	}
	out := prioritizeFocusAreas(pool, []string{"leadership"})
	require.Len(t, out, 3)
	assert.Equal(t, "q2", out[0].ID)
	assert.Equal(t, "q1", out[1].ID)
	assert.Equal(t, "q3", out[2].ID)
}
