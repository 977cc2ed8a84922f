// Package advisor wraps the optional language-model completion service. Its
// output is strictly additive: the engine produces a complete rule-based result
// when the advisor is absent, unavailable, or returns garbage.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/findings"
)

// Status is the tri-state outcome of an advisor call.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusMalformed   Status = "malformed"
)

// Client is the completion transport: prompt in, free-form text out.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Proposal is one follow-up task suggested by the advisor.
type Proposal struct {
	Focus string   `json:"focus"`
	Files []string `json:"files,omitempty"`
}

// Advisor turns completion text into typed, defensively parsed results.
type Advisor struct {
	client Client
	logger hclog.Logger
}

// New builds an advisor over a completion client.
func New(client Client, logger hclog.Logger) *Advisor {
	return &Advisor{client: client, logger: logger}
}

// ProposeFollowUps asks the advisor for follow-up review angles given the
// accumulated findings. Malformed or non-JSON output is discarded and logged;
// the caller falls back to the rule-based path on any status other than ok.
func (a *Advisor) ProposeFollowUps(ctx context.Context, accepted []findings.Finding) ([]Proposal, Status) {
	out, err := a.client.Complete(ctx, followUpPrompt(accepted))
	if err != nil {
		a.logger.Warn("advisor unavailable, using rule-based evaluation", "error", err)
		return nil, StatusUnavailable
	}

	var proposals []Proposal
	if err := json.Unmarshal([]byte(stripFences(out)), &proposals); err != nil {
		a.logger.Warn("advisor returned malformed proposals, discarding",
			"error", err, "length", len(out))
		return nil, StatusMalformed
	}

	var valid []Proposal
	for _, p := range proposals {
		if strings.TrimSpace(p.Focus) != "" {
			valid = append(valid, p)
		}
	}
	return valid, StatusOK
}

// Narrative asks the advisor for a prose summary of the final finding set. The
// text is appended to, never substituted for, the rule-based notes.
func (a *Advisor) Narrative(ctx context.Context, accepted []findings.Finding) (string, Status) {
	out, err := a.client.Complete(ctx, narrativePrompt(accepted))
	if err != nil {
		a.logger.Warn("advisor narrative unavailable", "error", err)
		return "", StatusUnavailable
	}
	text := strings.TrimSpace(stripFences(out))
	if text == "" {
		return "", StatusMalformed
	}
	return text, StatusOK
}

func followUpPrompt(accepted []findings.Finding) string {
	var b strings.Builder
	b.WriteString("You are assisting a security review. Given the findings below, ")
	b.WriteString("propose at most three follow-up review angles as a JSON array of ")
	b.WriteString(`objects with "focus" (string) and "files" (array of file paths). `)
	b.WriteString("Respond with ONLY the JSON array.\n\nFindings:\n")
	writeFindingList(&b, accepted)
	return b.String()
}

func narrativePrompt(accepted []findings.Finding) string {
	var b strings.Builder
	b.WriteString("Summarize the following security review findings for a pull request ")
	b.WriteString("in at most four sentences of plain prose. Do not invent findings.\n\n")
	writeFindingList(&b, accepted)
	return b.String()
}

func writeFindingList(b *strings.Builder, accepted []findings.Finding) {
	if len(accepted) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, f := range accepted {
		fmt.Fprintf(b, "- [%s/%s] %s:%d %s\n", f.Severity, f.Category, f.File, f.LineStart, f.Evidence)
	}
}

// stripFences removes a surrounding markdown code fence from model output.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
