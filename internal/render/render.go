// Package render formats an analysis result for people and machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fixwise/fixwise/apimodels"
)

// Supported output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHuman    = "human"
)

// Result writes the analysis result to w in the requested format.
// Unknown formats are rejected.
func Result(w io.Writer, result *apimodels.AnalysisResult, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatHuman:
		return Human(w, result)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(result))
		return err
	}
	return fmt.Errorf("unsupported output format %q", format)
}
