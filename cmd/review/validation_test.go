package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReviewArgs(t *testing.T) {
	tests := []struct {
		name    string
		options RunOptionsReview
		wantErr string
	}{
		{
			// valid: diffguard review --base main --head HEAD
			name: "valid base and head",
			options: RunOptionsReview{
				BaseRef: "main",
				HeadRef: "HEAD",
			},
			wantErr: "",
		},
		{
			name: "missing base",
			options: RunOptionsReview{
				HeadRef: "HEAD",
			},
			wantErr: "the --base flag is required",
		},
		{
			name: "missing head",
			options: RunOptionsReview{
				BaseRef: "main",
			},
			wantErr: "the --head flag is required",
		},
		{
			name: "negative concurrency",
			options: RunOptionsReview{
				BaseRef:        "main",
				HeadRef:        "HEAD",
				ConcurrencyCap: -2,
			},
			wantErr: "--concurrency must be positive, got -2",
		},
		{
			name: "threshold above one",
			options: RunOptionsReview{
				BaseRef:             "main",
				HeadRef:             "HEAD",
				ConfidenceThreshold: 1.5,
			},
			wantErr: "--confidence-threshold must be within [0,1], got 1.5",
		},
		{
			name: "negative iterations",
			options: RunOptionsReview{
				BaseRef:       "main",
				HeadRef:       "HEAD",
				MaxIterations: -1,
			},
			wantErr: "--max-iterations must be positive, got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReviewArgs(&tt.options)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
