// Package errors holds error types shared across diffguard commands.
package errors

import "fmt"

// RecommendationError carries a deliberate non-zero exit code derived from a
// merge recommendation, distinct from an execution failure.
type RecommendationError struct {
	Recommendation string
	Code           int
}

// Error implements the error interface.
func (e *RecommendationError) Error() string {
	return fmt.Sprintf("merge recommendation is %q", e.Recommendation)
}

// NewRecommendationError creates a RecommendationError for a recommendation
// and the exit code it maps to.
func NewRecommendationError(recommendation string, code int) *RecommendationError {
	return &RecommendationError{Recommendation: recommendation, Code: code}
}
