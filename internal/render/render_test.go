package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwise/fixwise/apimodels"
)

func sampleResult() *apimodels.AnalysisResult {
	result := &apimodels.AnalysisResult{
		Summary: apimodels.Summary{
			Title:          "Analysis Summary",
			KeyFindings:    []string{"root cause: the count is zero"},
			Recommendation: "apply the provided solution",
		},
		SimilarBugs: []apimodels.SimilarBug{
			{Title: "empty batch crash", Description: "same crash in reporting", Solution: "guard the division", Similarity: 0.88},
		},
	}
	result.Analyses.RootCause = &apimodels.RootCause{
		RootCause:       "the count is zero because the batch never loads",
		Explanation:     "the loader swallows errors",
		Severity:        apimodels.SeverityMediumHigh,
		ConfidenceLevel: 7,
		RelatedFactors:  []string{"causal event: batch load fails silently"},
	}
	result.Analyses.Solution = &apimodels.Solution{
		Summary:  "guard the division",
		FixSteps: []string{"raise on loader failure"},
		CodeChanges: []apimodels.CodeChange{
			{File: "stats.py", OriginalCode: "return total / count", FixedCode: "return total / count if count else 0", Explanation: "avoid the crash"},
		},
		PreventionTips: []string{"test with empty batches"},
	}
	result.Analyses.Error = &apimodels.ErrorAnalysis{
		ErrorType:     "exception",
		ErrorLanguage: "python",
		ErrorMessage:  "division by zero",
		ErrorLocation: &apimodels.StackFrame{File: "stats.py", Line: 21, Function: "average"},
	}
	return result
}

func TestMarkdownSectionOrder(t *testing.T) {
	md := Markdown(sampleResult())

	rootIdx := strings.Index(md, "## Root Cause")
	solIdx := strings.Index(md, "## Solution")
	errIdx := strings.Index(md, "## Error Analysis")
	bugsIdx := strings.Index(md, "## Similar Bugs")

	require.NotEqual(t, -1, rootIdx)
	require.NotEqual(t, -1, solIdx)
	require.NotEqual(t, -1, errIdx)
	require.NotEqual(t, -1, bugsIdx)

	// Root cause and solution lead the report.
	assert.Less(t, rootIdx, solIdx)
	assert.Less(t, solIdx, errIdx)
	assert.Less(t, errIdx, bugsIdx)

	assert.Contains(t, md, "### Confidence\n7/10")
	assert.Contains(t, md, "stats.py:21 in average")
	assert.Contains(t, md, "**Similarity:** 0.88")
}

func TestMarkdownDegradedSolution(t *testing.T) {
	result := &apimodels.AnalysisResult{}
	result.Analyses.Solution = &apimodels.Solution{
		Summary:     "a structured solution could not be generated",
		RawSolution: "try a cast",
	}

	md := Markdown(result)

	assert.Contains(t, md, "### Raw Solution\ntry a cast")
	assert.NotContains(t, md, "### Fix Steps")
}

func TestResultJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), FormatJSON))

	var decoded apimodels.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "guard the division", decoded.Analyses.Solution.Summary)
}

func TestResultHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "ROOT CAUSE:")
	assert.Contains(t, out, "SEVERITY: MEDIUM-HIGH")
	assert.Contains(t, out, "apply the provided solution")
}

func TestResultUnknownFormat(t *testing.T) {
	err := Result(&bytes.Buffer{}, sampleResult(), "xml")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 400)
	assert.Len(t, truncate(long, maxBugText), maxBugText)
	assert.Equal(t, "short", truncate("short", maxBugText))
}
