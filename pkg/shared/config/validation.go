package config

import "fmt"

// ValidateConfig checks the loaded configuration for values the engine cannot run with.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	r := cfg.Review
	if r.ConcurrencyCap < 1 {
		return fmt.Errorf("review.concurrency_cap must be >= 1, got %d", r.ConcurrencyCap)
	}
	if r.DiffChunkBudget < 1 {
		return fmt.Errorf("review.diff_chunk_budget must be >= 1, got %d", r.DiffChunkBudget)
	}
	if r.ConfidenceThreshold < 0 || r.ConfidenceThreshold > 1 {
		return fmt.Errorf("review.confidence_threshold must be within [0,1], got %v", r.ConfidenceThreshold)
	}
	if r.MaxIterations < 1 {
		return fmt.Errorf("review.max_iterations must be >= 1, got %d", r.MaxIterations)
	}
	return nil
}
