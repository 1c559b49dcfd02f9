package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/llmtest"
)

const errorOverlayReply = `{
  "root_cause_summary": "division by a zero count",
  "severity": "medium",
  "affected_components": ["aggregation"],
  "common_triggers": ["empty input batch"],
  "environmental_factors": [],
  "relevant_variables": ["count"]
}`

const syntaxReply = `{
  "syntax_issues": [],
  "code_structure": {
    "complexity_score": 4,
    "main_components": ["average"],
    "structure_quality": "good",
    "structure_issues": []
  },
  "style_consistency": {
    "naming_convention": "consistent",
    "indentation": "consistent",
    "comment_quality": "fair"
  }
}`

const semanticReply = `{
  "logic_analysis": {
    "purpose": "computes an average",
    "logic_flow": "single division",
    "edge_cases": ["count of zero"],
    "logic_issues": []
  },
  "potential_bugs": [
    {"bug_type": "division by zero", "description": "count may be zero", "fix_suggestion": "guard the division"}
  ],
  "performance_issues": [],
  "security_concerns": []
}`

const causalReply = `{
  "root_cause": "type error: the count is zero because the batch never loads",
  "causal_chain": ["batch load fails silently", "count stays zero", "division raises"],
  "explanation": "the loader swallows errors, leaving an empty batch",
  "affected_components": ["loader", "aggregation"],
  "evidence": ["ZeroDivisionError in the traceback"],
  "confidence_level": 7,
  "confidence_explanation": "the chain is visible in the logs"
}`

const solutionReply = `{
  "solution_summary": "guard the division and surface loader failures",
  "fix_steps": ["raise on loader failure", "skip aggregation for empty batches"],
  "code_changes": [
    {
      "file": "stats.py",
      "original_code": "return total / count",
      "fixed_code": "return total / count if count else 0",
      "explanation": "empty batches produce a zero average instead of crashing"
    }
  ],
  "explanation": "the crash disappears and loader failures become visible",
  "prevention_tips": ["test aggregation with empty batches"],
  "alternative_solutions": ["make the loader fail fast"]
}`

type stubKB struct {
	calls int
	bugs  []apimodels.SimilarBug
	explode bool
}

func (s *stubKB) QuerySimilarBugs(_ context.Context, _ apimodels.AnalysisInputs) []apimodels.SimilarBug {
	s.calls++
	if s.explode {
		panic("knowledge base exploded")
	}
	return s.bugs
}

func fullRequest() apimodels.AnalysisRequest {
	return apimodels.AnalysisRequest{
		ErrorMessage:       "ZeroDivisionError: division by zero",
		CodeSnippet:        "def average(total, count):\n    return total / count\n",
		Filename:           "stats.py",
		ProblemDescription: "the daily report crashes when a batch is empty",
	}
}

func TestAnalyzeEmptyRequest(t *testing.T) {
	stub := &llmtest.Provider{Reply: "{}"}
	kb := &stubKB{}
	e := NewEngine(llmtest.NewClient(stub), kb)

	result := e.Analyze(context.Background(), apimodels.AnalysisRequest{})

	assert.Zero(t, stub.Calls)
	assert.Zero(t, kb.calls)
	assert.True(t, result.Analyses.Empty())
	assert.Empty(t, result.Metadata.ComponentsUsed)
	assert.Equal(t, "automatic analysis was inconclusive, manual review is needed",
		result.Summary.Recommendation)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	stub := &llmtest.Provider{Replies: []string{
		errorOverlayReply, syntaxReply, semanticReply, causalReply, solutionReply,
	}}
	kb := &stubKB{bugs: []apimodels.SimilarBug{
		{Title: "empty batch crash", Solution: "guard the division", Similarity: 0.88},
	}}
	e := NewEngine(llmtest.NewClient(stub), kb)

	result := e.Analyze(context.Background(), fullRequest())

	assert.Equal(t, 5, stub.Calls)
	assert.Equal(t, 1, kb.calls)

	assert.Equal(t, []string{
		componentErrorParser,
		componentCodeAnalyzer,
		componentKnowledgeBase,
		componentRootCause,
		componentSolution,
	}, result.Metadata.ComponentsUsed)

	require.NotNil(t, result.Analyses.Error)
	require.NotNil(t, result.Analyses.Code)
	require.NotNil(t, result.Analyses.RootCause)
	require.NotNil(t, result.Analyses.Solution)
	require.Len(t, result.SimilarBugs, 1)
	assert.Nil(t, result.Error)

	assert.True(t, result.Summary.ProblemIdentified)
	assert.True(t, result.Summary.RootCauseIdentified)
	assert.True(t, result.Summary.SolutionProvided)
	assert.Equal(t, "apply the provided solution", result.Summary.Recommendation)
	assert.Contains(t, result.Summary.KeyFindings, "identified a python exception error")
	assert.Contains(t, result.Summary.KeyFindings, "found 1 similar historical problems")
}

func TestAnalyzePipelineGating(t *testing.T) {
	stub := &llmtest.Provider{Reply: errorOverlayReply}
	kb := &stubKB{}
	e := NewEngine(llmtest.NewClient(stub), kb, WithPipeline(Pipeline{ErrorAnalysis: true}))

	result := e.Analyze(context.Background(), fullRequest())

	assert.Equal(t, 1, stub.Calls)
	assert.Zero(t, kb.calls)
	assert.Equal(t, []string{componentErrorParser}, result.Metadata.ComponentsUsed)
	assert.Nil(t, result.Analyses.Code)
	assert.Nil(t, result.Analyses.Solution)
}

func TestAnalyzeStagePanicIsolated(t *testing.T) {
	stub := &llmtest.Provider{Replies: []string{
		errorOverlayReply, syntaxReply, semanticReply, causalReply, solutionReply,
	}}
	kb := &stubKB{explode: true}
	e := NewEngine(llmtest.NewClient(stub), kb)

	result := e.Analyze(context.Background(), fullRequest())

	require.NotNil(t, result.Error)
	assert.Contains(t, result.Error.Message, "knowledge base exploded")
	assert.NotEmpty(t, result.Error.Stack)

	// Later stages still ran without the lookup's output.
	require.NotNil(t, result.Analyses.RootCause)
	require.NotNil(t, result.Analyses.Solution)
	assert.NotContains(t, result.Metadata.ComponentsUsed, componentKnowledgeBase)
	assert.Empty(t, result.SimilarBugs)
}

func TestAnalyzeWithoutKnowledgeBase(t *testing.T) {
	stub := &llmtest.Provider{Replies: []string{causalReply, solutionReply}}
	e := NewEngine(llmtest.NewClient(stub), nil)

	result := e.Analyze(context.Background(), apimodels.AnalysisRequest{
		ProblemDescription: "the nightly export is empty since the last deploy",
	})

	assert.Equal(t, 2, stub.Calls)
	assert.Empty(t, result.SimilarBugs)
	require.NotNil(t, result.Analyses.RootCause)
}

func TestSummaryRecommendationPriority(t *testing.T) {
	result := &apimodels.AnalysisResult{}
	result.Analyses.RootCause = &apimodels.RootCause{RootCause: "a concrete cause"}

	s := summarize(result)
	assert.True(t, s.RootCauseIdentified)
	assert.Equal(t, "the root cause is identified, a fix still needs to be designed", s.Recommendation)

	result.Analyses.Solution = &apimodels.Solution{Summary: "a fix"}
	s = summarize(result)
	assert.Equal(t, "apply the provided solution", s.Recommendation)
}
