package report

import (
	"encoding/json"
	"io"

	"github.com/diffguard/diffguard/internal/assess"
)

// JSONRenderer emits the assessment as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, a assess.Assessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
