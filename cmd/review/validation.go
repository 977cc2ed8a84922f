package review

import "fmt"

// validateReviewArgs checks argument combinations the engine cannot run with.
func validateReviewArgs(opts *RunOptionsReview) error {
	if opts.BaseRef == "" {
		return fmt.Errorf("the --base flag is required")
	}
	if opts.HeadRef == "" {
		return fmt.Errorf("the --head flag is required")
	}
	if opts.ConcurrencyCap < 0 {
		return fmt.Errorf("--concurrency must be positive, got %d", opts.ConcurrencyCap)
	}
	if opts.ConfidenceThreshold < 0 || opts.ConfidenceThreshold > 1 {
		return fmt.Errorf("--confidence-threshold must be within [0,1], got %v", opts.ConfidenceThreshold)
	}
	if opts.MaxIterations < 0 {
		return fmt.Errorf("--max-iterations must be positive, got %d", opts.MaxIterations)
	}
	return nil
}
