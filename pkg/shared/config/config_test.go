package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultReviewConfig(), cfg.Review)
	assert.Equal(t, DefaultHTTPConfig(), cfg.HttpClient)
}

func TestLoadConfigAppliesReviewDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffguard.yml")
	content := []byte(`
logger:
  level: debug
review:
  max_iterations: 5
advisor:
  url: https://llm.internal.example/v1/chat/completions
  model: reviewer-large
  token_env: DIFFGUARD_ADVISOR_TOKEN
`)
	assert.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5, cfg.Review.MaxIterations)
	// Unset review fields fall back to operational defaults.
	assert.Equal(t, DefaultConcurrencyCap, cfg.Review.ConcurrencyCap)
	assert.Equal(t, DefaultRunTimeout, cfg.Review.RunTimeout)
	assert.Equal(t, "reviewer-large", cfg.Advisor.Model)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	assert.NoError(t, os.WriteFile(path, []byte("review: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Review.ConcurrencyCap = -1 }, true},
		{"zero chunk budget", func(c *Config) { c.Review.DiffChunkBudget = -1 }, true},
		{"threshold above one", func(c *Config) { c.Review.ConfidenceThreshold = 2 }, true},
		{"zero iterations", func(c *Config) { c.Review.MaxIterations = -3 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Review: DefaultReviewConfig()}
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Error(t, ValidateConfig(nil))
}

func TestGetBoolValue(t *testing.T) {
	verify := false
	cfg := &HttpClient{TlsClientConfig: TlsClientConfig{Verify: &verify}}

	assert.False(t, GetBoolValue(cfg, "TlsClientConfig.Verify", true))
	assert.True(t, GetBoolValue(&HttpClient{}, "TlsClientConfig.Verify", true))
	assert.True(t, GetBoolValue(nil, "TlsClientConfig.Verify", true))
	assert.True(t, GetBoolValue(cfg, "NoSuchField", true))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, 4, SetThen(0, 4))
	assert.Equal(t, 7, SetThen(7, 4))
	assert.Equal(t, time.Minute, SetThen(time.Duration(0), time.Minute))
	assert.Equal(t, "x", SetThen("", "x"))
}
