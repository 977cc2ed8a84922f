// Package report renders the assessment schema for humans and CI tooling. The
// schema itself is owned by the assess package; renderers never reshape it.
package report

import (
	"fmt"
	"io"

	"github.com/diffguard/diffguard/internal/assess"
)

// Format names accepted by the review command.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
	FormatText     = "text"
)

// Renderer writes an assessment to w in one concrete format.
type Renderer interface {
	Render(w io.Writer, a assess.Assessment) error
}

// New returns the renderer for the named format.
func New(format string) (Renderer, error) {
	switch format {
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{}, nil
	case FormatSARIF:
		return &SARIFRenderer{}, nil
	case FormatText, "":
		return &TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
