package rootcause

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/inputs"
	"github.com/fixwise/fixwise/internal/llmtest"
)

const logEventsReply = `[
  {"timestamp": "2024-03-01T10:12:03Z", "level": "ERROR", "message": "connection pool exhausted", "component": "db"},
  {"timestamp": "2024-03-01T10:12:04Z", "level": "ERROR", "message": "query timed out", "component": "db"}
]`

const causalReply = `{
  "root_cause": "type error: the handler passes a string where the repository expects an integer id",
  "causal_chain": ["request id parsed as string", "repository lookup fails"],
  "explanation": "the id is never converted before the lookup",
  "affected_components": ["handler", "repository"],
  "evidence": ["TypeError raised at the lookup call"],
  "confidence_level": 8,
  "confidence_explanation": "the traceback points directly at the conversion"
}`

func analysisInputs(errorRaw, logRaw string) apimodels.AnalysisInputs {
	in := apimodels.AnalysisInputs{}
	if errorRaw != "" {
		in.ErrorMessage = inputs.ProcessErrorMessage(errorRaw)
	}
	if logRaw != "" {
		in.LogInfo = inputs.ProcessLogInfo(logRaw)
	}
	return in
}

func TestAnalyzeProducesShapedConclusion(t *testing.T) {
	stub := &llmtest.Provider{Replies: []string{logEventsReply, causalReply}}
	e := NewEngine(llmtest.NewClient(stub))

	in := analysisInputs("TypeError: unsupported operand", "2024-03-01 10:12:03 ERROR connection pool exhausted")
	result := e.Analyze(context.Background(), in, nil, nil, nil)

	// One call for log events, one for the causal synthesis.
	require.Equal(t, 2, stub.Calls)
	assert.Contains(t, stub.Prompts[1], "connection pool exhausted")

	assert.Equal(t, apimodels.ProblemTypeData, result.ProblemType)
	assert.Equal(t, 8, result.ConfidenceLevel)
	assert.False(t, result.Undetermined())

	assert.Contains(t, result.RelatedFactors, "causal event: request id parsed as string")
	assert.Contains(t, result.RelatedFactors, "affected component: handler")
	assert.Contains(t, result.RelatedFactors, "supporting evidence: TypeError raised at the lookup call")
}

func TestAnalyzeSkipsLogExtractionWithoutLogs(t *testing.T) {
	stub := &llmtest.Provider{Reply: causalReply}
	e := NewEngine(llmtest.NewClient(stub))

	e.Analyze(context.Background(), analysisInputs("TypeError: boom", ""), nil, nil, nil)

	assert.Equal(t, 1, stub.Calls)
}

func TestAnalyzeFallsBackToUndetermined(t *testing.T) {
	stub := &llmtest.Provider{Reply: "no structured output here"}
	e := NewEngine(llmtest.NewClient(stub))

	result := e.Analyze(context.Background(), analysisInputs("TypeError: boom", ""), nil, nil, nil)

	assert.True(t, result.Undetermined())
	assert.Equal(t, 1, result.ConfidenceLevel)
	assert.Contains(t, result.Explanation, "no structured output here")
}

func TestExtractKeyLogEventsCapped(t *testing.T) {
	events := "["
	for i := 0; i < 15; i++ {
		if i > 0 {
			events += ","
		}
		events += fmt.Sprintf(`{"level": "ERROR", "message": "event %d"}`, i)
	}
	events += "]"

	stub := &llmtest.Provider{Reply: events}
	e := NewEngine(llmtest.NewClient(stub))

	got := e.extractKeyLogEvents(context.Background(), "some log content")
	assert.Len(t, got, maxKeyEvents)
}

func TestCategorizeCausesNormalizes(t *testing.T) {
	info := &integrated{errorRaw: "TypeError: bad operand\nKeyError: 'name'"}

	scores := categorizeCauses(info)

	// data 0.3+0.2, logic 0.3, normalized over 0.8.
	assert.InDelta(t, 0.625, scores[apimodels.CauseData], 1e-9)
	assert.InDelta(t, 0.375, scores[apimodels.CauseLogic], 1e-9)

	var sum float64
	for _, v := range scores {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCategorizeCausesUniformWithoutSignal(t *testing.T) {
	scores := categorizeCauses(&integrated{})

	for _, category := range apimodels.CauseCategories() {
		assert.InDelta(t, 0.25, scores[category], 1e-9)
	}
}

func TestCategorizeCausesUsesCodeAnalysis(t *testing.T) {
	info := &integrated{
		codeAnalysis: &apimodels.CodeAnalysis{
			PotentialBugs: []apimodels.PotentialBug{
				{BugType: "null dereference"},
				{BugType: "loop condition"},
			},
			SecurityConcerns: []apimodels.SecurityConcern{
				{Vulnerability: "sql injection"},
				{Vulnerability: "xss"},
			},
		},
	}

	scores := categorizeCauses(info)

	// data 0.15, logic 0.15, system 0.2, code 0.1 before normalization.
	assert.InDelta(t, 0.25, scores[apimodels.CauseData], 1e-9)
	assert.InDelta(t, 0.25, scores[apimodels.CauseLogic], 1e-9)
	assert.InDelta(t, 1.0/3, scores[apimodels.CauseSystem], 1e-9)
	assert.InDelta(t, 1.0/6, scores[apimodels.CauseCode], 1e-9)
}

func TestDetermineSeverityLadder(t *testing.T) {
	assert.Equal(t, apimodels.SeverityLow, determineSeverity("warning: deprecated call", nil))
	assert.Equal(t, apimodels.SeverityMediumHigh, determineSeverity("request failed with exception", nil))
	assert.Equal(t, apimodels.SeverityHigh, determineSeverity("process crash with data loss", nil))
	assert.Equal(t, apimodels.SeverityMedium, determineSeverity("", nil))
}

func TestDetermineSeverityEscalation(t *testing.T) {
	many := []string{"parser", "queue", "scheduler", "renderer"}
	assert.Equal(t, apimodels.SeverityMedium, determineSeverity("warning only", many))

	// A core component forces high regardless of the keyword base.
	assert.Equal(t, apimodels.SeverityHigh, determineSeverity("warning only", []string{"user database"}))
}

func TestDetermineProblemTypeFallsBackToErrorText(t *testing.T) {
	assert.Equal(t, apimodels.ProblemTypeCode,
		determineProblemType("something opaque", "ImportError: no module named requests"))
	assert.Equal(t, apimodels.ProblemTypeSystem,
		determineProblemType("something opaque", "PermissionError: denied"))
	assert.Equal(t, apimodels.ProblemTypeUnclassified,
		determineProblemType("something opaque", ""))
}
