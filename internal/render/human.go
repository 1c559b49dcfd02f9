package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/fixwise/fixwise/apimodels"
)

// Human writes a colored terminal rendition of the analysis result.
func Human(w io.Writer, result *apimodels.AnalysisResult) error {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)

	if rc := result.Analyses.RootCause; rc != nil {
		red.Fprintln(w, "ROOT CAUSE:")
		fmt.Fprintf(w, "   %s\n\n", rc.RootCause)

		severityColor(rc.Severity).Fprintf(w, "SEVERITY: %s\n\n", strings.ToUpper(rc.Severity))
	}

	if ea := result.Analyses.Error; ea != nil {
		yellow.Fprintln(w, "ERROR:")
		fmt.Fprintf(w, "   %s (%s): %s\n", ea.ErrorType, ea.ErrorLanguage, ea.ErrorMessage)
		if loc := ea.ErrorLocation; loc != nil {
			fmt.Fprintf(w, "   at %s:%d\n", loc.File, loc.Line)
		}
		fmt.Fprintln(w)
	}

	if ca := result.Analyses.Code; ca != nil {
		yellow.Fprintln(w, "CODE QUALITY:")
		fmt.Fprintf(w, "   %d/10 - %s\n", ca.Quality.OverallScore, ca.Quality.Summary)
		for _, bug := range ca.PotentialBugs {
			fmt.Fprintf(w, "   - %s: %s\n", bug.BugType, bug.Description)
		}
		fmt.Fprintln(w)
	}

	if sol := result.Analyses.Solution; sol != nil {
		green.Fprintln(w, "SOLUTION:")
		fmt.Fprintf(w, "   %s\n", sol.Summary)
		for i, step := range sol.FixSteps {
			fmt.Fprintf(w, "   %d. %s\n", i+1, step)
		}
		fmt.Fprintln(w)
	}

	if len(result.SimilarBugs) > 0 {
		cyan.Fprintln(w, "SIMILAR BUGS:")
		for _, bug := range result.SimilarBugs {
			fmt.Fprintf(w, "   - %s (%.2f)\n", bug.Title, bug.Similarity)
		}
		fmt.Fprintln(w)
	}

	cyan.Fprintln(w, "RECOMMENDATION:")
	fmt.Fprintf(w, "   %s\n", result.Summary.Recommendation)
	return nil
}

func severityColor(severity string) *color.Color {
	switch severity {
	case apimodels.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case apimodels.SeverityMediumHigh:
		return color.New(color.FgRed)
	case apimodels.SeverityMedium:
		return color.New(color.FgYellow)
	case apimodels.SeverityLow:
		return color.New(color.FgGreen)
	}
	return color.New(color.FgWhite)
}
