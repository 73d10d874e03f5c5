// Package config loads the process-wide settings for the interview and
// proctoring core: scoring thresholds, the proctoring sensitivity profile,
// the question-bank path, and the HTTP server's bind address. It is backed
// by spf13/viper: environment variables override values from an optional
// YAML file, which in turn override the built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/altoai/interview-platform/pkg/proctor"
)

// Config is the fully-resolved, validated process configuration.
type Config struct {
	Server   ServerConfig
	Scoring  ScoringConfig
	Proctor  ProctorConfig
	BankPath string
}

// ServerConfig holds the reference HTTP transport's bind settings.
type ServerConfig struct {
	Addr string
}

// ScoringConfig holds the Aggregator's weak/strong-area thresholds and the
// default number of questions a new interview is generated with.
type ScoringConfig struct {
	WeakThreshold   float64
	StrongThreshold float64
	QuestionCount   int
}

// ProctorConfig holds the named sensitivity profile the Proctor Session
// component is constructed with.
type ProctorConfig struct {
	Sensitivity proctor.Sensitivity
}

// defaults matches the documented thresholds: 65/80 weak/strong, 5
// questions per interview, medium proctor sensitivity.
func defaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("scoring.weak_threshold", 65.0)
	v.SetDefault("scoring.strong_threshold", 80.0)
	v.SetDefault("scoring.question_count", 5)
	v.SetDefault("proctor.sensitivity", "medium")
	v.SetDefault("bank_path", "")
	return v
}

// Load reads configuration from configPath (if non-empty; a missing or
// unreadable file is an error) and from INTERVIEW_PLATFORM_-prefixed
// environment variables, then validates the result. An empty configPath
// loads defaults plus environment only.
func Load(configPath string) (*Config, error) {
	v := defaults()

	v.SetEnvPrefix("interview_platform")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Scoring: ScoringConfig{
			WeakThreshold:   v.GetFloat64("scoring.weak_threshold"),
			StrongThreshold: v.GetFloat64("scoring.strong_threshold"),
			QuestionCount:   v.GetInt("scoring.question_count"),
		},
		Proctor: ProctorConfig{
			Sensitivity: proctor.Sensitivity(v.GetString("proctor.sensitivity")),
		},
		BankPath: v.GetString("bank_path"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Scoring.WeakThreshold < 0 || cfg.Scoring.WeakThreshold > 100 {
		return fmt.Errorf("config: scoring.weak_threshold must be in [0,100], got %v", cfg.Scoring.WeakThreshold)
	}
	if cfg.Scoring.StrongThreshold < 0 || cfg.Scoring.StrongThreshold > 100 {
		return fmt.Errorf("config: scoring.strong_threshold must be in [0,100], got %v", cfg.Scoring.StrongThreshold)
	}
	if cfg.Scoring.StrongThreshold < cfg.Scoring.WeakThreshold {
		return fmt.Errorf("config: scoring.strong_threshold must be >= scoring.weak_threshold")
	}
	if cfg.Scoring.QuestionCount <= 0 {
		return fmt.Errorf("config: scoring.question_count must be positive, got %d", cfg.Scoring.QuestionCount)
	}
	switch cfg.Proctor.Sensitivity {
	case proctor.SensitivityLow, proctor.SensitivityMedium, proctor.SensitivityHigh:
	default:
		return fmt.Errorf("config: proctor.sensitivity must be one of low/medium/high, got %q", cfg.Proctor.Sensitivity)
	}
	return nil
}
