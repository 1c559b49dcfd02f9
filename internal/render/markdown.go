package render

import (
	"fmt"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
)

const (
	maxRenderedBugs = 3
	maxBugText      = 300
)

// Markdown renders the analysis result as a markdown report: root cause
// and solution first, supporting analyses after.
func Markdown(result *apimodels.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("# Analysis Report\n\n")

	writeSummary(&b, result.Summary)

	if rc := result.Analyses.RootCause; rc != nil {
		writeRootCause(&b, rc)
	}
	if sol := result.Analyses.Solution; sol != nil {
		writeSolution(&b, sol)
	}
	if ea := result.Analyses.Error; ea != nil {
		writeErrorAnalysis(&b, ea)
	}
	if ca := result.Analyses.Code; ca != nil {
		writeCodeAnalysis(&b, ca)
	}
	if len(result.SimilarBugs) > 0 {
		writeSimilarBugs(&b, result.SimilarBugs)
	}
	return b.String()
}

func writeSummary(b *strings.Builder, summary apimodels.Summary) {
	b.WriteString("## Summary\n\n")
	for _, finding := range summary.KeyFindings {
		fmt.Fprintf(b, "- %s\n", finding)
	}
	if summary.Recommendation != "" {
		fmt.Fprintf(b, "\n**Recommendation:** %s\n", summary.Recommendation)
	}
	b.WriteString("\n")
}

func writeRootCause(b *strings.Builder, rc *apimodels.RootCause) {
	b.WriteString("## Root Cause\n\n")
	fmt.Fprintf(b, "### Cause\n%s\n\n", rc.RootCause)
	if rc.Explanation != "" {
		fmt.Fprintf(b, "### Explanation\n%s\n\n", rc.Explanation)
	}
	fmt.Fprintf(b, "### Confidence\n%d/10\n\n", rc.ConfidenceLevel)

	b.WriteString("### Related Factors\n")
	if len(rc.RelatedFactors) == 0 {
		b.WriteString("- none identified\n")
	}
	for i, factor := range rc.RelatedFactors {
		fmt.Fprintf(b, "%d. %s\n", i+1, factor)
	}
	b.WriteString("\n")
}

func writeSolution(b *strings.Builder, sol *apimodels.Solution) {
	b.WriteString("## Solution\n\n")
	fmt.Fprintf(b, "### Summary\n%s\n\n", sol.Summary)

	if sol.Degraded() {
		fmt.Fprintf(b, "### Raw Solution\n%s\n\n", sol.RawSolution)
		return
	}

	b.WriteString("### Fix Steps\n")
	if len(sol.FixSteps) == 0 {
		b.WriteString("- none provided\n")
	}
	for i, step := range sol.FixSteps {
		fmt.Fprintf(b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n")

	b.WriteString("### Code Changes\n")
	if len(sol.CodeChanges) == 0 {
		b.WriteString("- none provided\n")
	}
	for i, change := range sol.CodeChanges {
		fmt.Fprintf(b, "#### Change %d (%s)\n", i+1, change.File)
		if change.OriginalCode != "" {
			fmt.Fprintf(b, "**Original:**\n```\n%s\n```\n", change.OriginalCode)
		}
		if change.FixedCode != "" {
			fmt.Fprintf(b, "**Fixed:**\n```\n%s\n```\n", change.FixedCode)
		}
		if change.Explanation != "" {
			fmt.Fprintf(b, "%s\n", change.Explanation)
		}
	}
	b.WriteString("\n")

	if sol.Explanation != "" {
		fmt.Fprintf(b, "### Explanation\n%s\n\n", sol.Explanation)
	}

	b.WriteString("### Prevention\n")
	if len(sol.PreventionTips) == 0 {
		b.WriteString("- none provided\n")
	}
	for i, tip := range sol.PreventionTips {
		fmt.Fprintf(b, "%d. %s\n", i+1, tip)
	}
	b.WriteString("\n")
}

func writeErrorAnalysis(b *strings.Builder, ea *apimodels.ErrorAnalysis) {
	b.WriteString("## Error Analysis\n\n")
	fmt.Fprintf(b, "### Error Type\n%s (%s)\n\n", ea.ErrorType, ea.ErrorLanguage)
	fmt.Fprintf(b, "### Message\n%s\n\n", ea.ErrorMessage)

	if ea.ErrorLocation != nil {
		loc := ea.ErrorLocation
		fmt.Fprintf(b, "### Location\n%s:%d", loc.File, loc.Line)
		if loc.Function != "" {
			fmt.Fprintf(b, " in %s", loc.Function)
		}
		b.WriteString("\n\n")
	}

	if ea.RootCauseSummary != "" && ea.RootCauseSummary != apimodels.Unknown {
		fmt.Fprintf(b, "### Likely Cause\n%s\n\n", ea.RootCauseSummary)
	}
	if len(ea.CommonTriggers) > 0 {
		b.WriteString("### Common Triggers\n")
		for i, trigger := range ea.CommonTriggers {
			fmt.Fprintf(b, "%d. %s\n", i+1, trigger)
		}
		b.WriteString("\n")
	}
}

func writeCodeAnalysis(b *strings.Builder, ca *apimodels.CodeAnalysis) {
	b.WriteString("## Code Analysis\n\n")
	fmt.Fprintf(b, "### Quality\n%d/10 - %s\n\n", ca.Quality.OverallScore, ca.Quality.Summary)

	b.WriteString("### Potential Bugs\n")
	if len(ca.PotentialBugs) == 0 {
		b.WriteString("- none found\n")
	}
	for i, bug := range ca.PotentialBugs {
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, bug.BugType, bug.Description)
	}
	b.WriteString("\n")

	if len(ca.SecurityConcerns) > 0 {
		b.WriteString("### Security Concerns\n")
		for i, concern := range ca.SecurityConcerns {
			fmt.Fprintf(b, "%d. %s: %s\n", i+1, concern.Vulnerability, concern.Description)
		}
		b.WriteString("\n")
	}

	if len(ca.Suggestions) > 0 {
		b.WriteString("### Suggestions\n")
		for i, s := range ca.Suggestions {
			fmt.Fprintf(b, "%d. [%s] %s\n", i+1, s.Area, s.Suggestion)
		}
		b.WriteString("\n")
	}
}

func writeSimilarBugs(b *strings.Builder, bugs []apimodels.SimilarBug) {
	b.WriteString("## Similar Bugs\n\n")
	if len(bugs) > maxRenderedBugs {
		bugs = bugs[:maxRenderedBugs]
	}
	for i, bug := range bugs {
		fmt.Fprintf(b, "### Bug %d: %s\n", i+1, bug.Title)
		if desc := truncate(bug.Description, maxBugText); desc != "" {
			fmt.Fprintf(b, "**Description:** %s\n", desc)
		}
		if sol := truncate(bug.Solution, maxBugText); sol != "" {
			fmt.Fprintf(b, "**Solution:** %s\n", sol)
		}
		fmt.Fprintf(b, "**Similarity:** %.2f\n\n", bug.Similarity)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
