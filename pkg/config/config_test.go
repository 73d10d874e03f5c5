package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altoai/interview-platform/pkg/proctor"
)

func TestLoad_DefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 65.0, cfg.Scoring.WeakThreshold)
	assert.Equal(t, 80.0, cfg.Scoring.StrongThreshold)
	assert.Equal(t, 5, cfg.Scoring.QuestionCount)
	assert.Equal(t, proctor.SensitivityMedium, cfg.Proctor.Sensitivity)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  addr: \":9090\"\nproctor:\n  sensitivity: \"high\"\nscoring:\n  question_count: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, proctor.SensitivityHigh, cfg.Proctor.Sensitivity)
	assert.Equal(t, 8, cfg.Scoring.QuestionCount)
}

func TestLoad_MissingConfigFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("INTERVIEW_PLATFORM_SERVER_ADDR", ":7070")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestValidate_RejectsOutOfRangeThresholds(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{WeakThreshold: 150, StrongThreshold: 80, QuestionCount: 5},
		Proctor: ProctorConfig{Sensitivity: proctor.SensitivityMedium},
	}
	assert.Error(t, validate(cfg))
}

func TestValidate_RejectsStrongBelowWeak(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{WeakThreshold: 80, StrongThreshold: 60, QuestionCount: 5},
		Proctor: ProctorConfig{Sensitivity: proctor.SensitivityMedium},
	}
	assert.Error(t, validate(cfg))
}

func TestValidate_RejectsNonPositiveQuestionCount(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{WeakThreshold: 65, StrongThreshold: 80, QuestionCount: 0},
		Proctor: ProctorConfig{Sensitivity: proctor.SensitivityMedium},
	}
	assert.Error(t, validate(cfg))
}

func TestValidate_RejectsUnknownSensitivity(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{WeakThreshold: 65, StrongThreshold: 80, QuestionCount: 5},
		Proctor: ProctorConfig{Sensitivity: proctor.Sensitivity("bogus")},
	}
	assert.Error(t, validate(cfg))
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{WeakThreshold: 65, StrongThreshold: 80, QuestionCount: 5},
		Proctor: ProctorConfig{Sensitivity: proctor.SensitivityLow},
	}
	assert.NoError(t, validate(cfg))
}
