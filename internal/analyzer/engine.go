// Package analyzer orchestrates the diagnosis pipeline: error parsing,
// code analysis, similar-bug lookup, root-cause inference and solution
// generation, run strictly in that order.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/codeanalyze"
	"github.com/fixwise/fixwise/internal/errorparse"
	"github.com/fixwise/fixwise/internal/inputs"
	"github.com/fixwise/fixwise/internal/llm"
	"github.com/fixwise/fixwise/internal/rootcause"
	"github.com/fixwise/fixwise/internal/solution"
)

// Component names recorded in result metadata.
const (
	componentErrorParser   = "ErrorMessageParser"
	componentCodeAnalyzer  = "CodeAnalyzer"
	componentKnowledgeBase = "BugKnowledgeBaseClient"
	componentRootCause     = "RootCauseEngine"
	componentSolution      = "FixSuggestionGenerator"
)

// Pipeline gates the individual stages. Disabled stages are skipped
// entirely; the stages that follow run with whatever is available.
type Pipeline struct {
	ErrorAnalysis      bool
	CodeAnalysis       bool
	SimilarBugLookup   bool
	RootCauseAnalysis  bool
	SolutionGeneration bool
}

// DefaultPipeline enables every stage.
func DefaultPipeline() Pipeline {
	return Pipeline{
		ErrorAnalysis:      true,
		CodeAnalysis:       true,
		SimilarBugLookup:   true,
		RootCauseAnalysis:  true,
		SolutionGeneration: true,
	}
}

// KnowledgeBase looks up similar historical bugs.
type KnowledgeBase interface {
	QuerySimilarBugs(ctx context.Context, in apimodels.AnalysisInputs) []apimodels.SimilarBug
}

// Engine coordinates the analysis components.
type Engine struct {
	parser    *errorparse.Parser
	code      *codeanalyze.Analyzer
	causes    *rootcause.Engine
	solutions *solution.Generator
	kb        KnowledgeBase
	pipeline  Pipeline
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPipeline overrides the default stage gating.
func WithPipeline(p Pipeline) EngineOption {
	return func(e *Engine) { e.pipeline = p }
}

// NewEngine builds an engine on the shared model client. kb may be nil,
// which disables the similar-bug lookup.
func NewEngine(client *llm.Client, kb KnowledgeBase, opts ...EngineOption) *Engine {
	e := &Engine{
		parser:    errorparse.NewParser(client),
		code:      codeanalyze.NewAnalyzer(client),
		causes:    rootcause.NewEngine(client),
		solutions: solution.NewGenerator(client),
		kb:        kb,
		pipeline:  DefaultPipeline(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the pipeline over a request. The result is always
// structurally complete: a stage that panics is recorded in the result's
// Error and the remaining stages continue without its output.
func (e *Engine) Analyze(ctx context.Context, req apimodels.AnalysisRequest) *apimodels.AnalysisResult {
	start := time.Now()

	result := &apimodels.AnalysisResult{
		Inputs: inputs.Process(req),
		Metadata: apimodels.Metadata{
			Timestamp:      start.UTC(),
			ComponentsUsed: []string{},
		},
	}
	in := result.Inputs

	var errorAnalysis *apimodels.ErrorAnalysis
	if in.ErrorMessage != nil && e.pipeline.ErrorAnalysis {
		if e.runStage(result, componentErrorParser, func() {
			errorAnalysis = e.parser.Parse(ctx, in.ErrorMessage)
		}) {
			result.Analyses.Error = errorAnalysis
			result.Metadata.ComponentsUsed = append(result.Metadata.ComponentsUsed, componentErrorParser)
		}
	}

	var codeAnalysis *apimodels.CodeAnalysis
	if in.CodeSnippet != nil && e.pipeline.CodeAnalysis {
		if e.runStage(result, componentCodeAnalyzer, func() {
			codeAnalysis = e.code.Analyze(ctx, in.CodeSnippet)
		}) {
			result.Analyses.Code = codeAnalysis
			result.Metadata.ComponentsUsed = append(result.Metadata.ComponentsUsed, componentCodeAnalyzer)
		}
	}

	var similarBugs []apimodels.SimilarBug
	if e.pipeline.SimilarBugLookup && e.kb != nil && !in.Empty() {
		e.runStage(result, componentKnowledgeBase, func() {
			similarBugs = e.kb.QuerySimilarBugs(ctx, in)
		})
		if len(similarBugs) > 0 {
			result.SimilarBugs = similarBugs
			result.Metadata.ComponentsUsed = append(result.Metadata.ComponentsUsed, componentKnowledgeBase)
		}
	}

	var cause *apimodels.RootCause
	if e.pipeline.RootCauseAnalysis && !in.Empty() {
		if e.runStage(result, componentRootCause, func() {
			cause = e.causes.Analyze(ctx, in, errorAnalysis, codeAnalysis, similarBugs)
		}) {
			result.Analyses.RootCause = cause
			result.Metadata.ComponentsUsed = append(result.Metadata.ComponentsUsed, componentRootCause)
		}
	}

	if e.pipeline.SolutionGeneration && !in.Empty() {
		var sol *apimodels.Solution
		if e.runStage(result, componentSolution, func() {
			sol = e.solutions.Generate(ctx, in, cause, similarBugs)
		}) {
			result.Analyses.Solution = sol
			result.Metadata.ComponentsUsed = append(result.Metadata.ComponentsUsed, componentSolution)
		}
	}

	result.Summary = summarize(result)
	result.Metadata.DurationMS = time.Since(start).Milliseconds()
	return result
}

// runStage isolates a stage: a panic is recovered, logged and recorded
// on the result, and the pipeline moves on.
func (e *Engine) runStage(result *apimodels.AnalysisResult, component string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis stage panicked", "component", component, "panic", r)
			result.Error = &apimodels.PipelineError{
				Message: fmt.Sprintf("%s: %v", component, r),
				Stack:   string(debug.Stack()),
			}
			ok = false
		}
	}()
	fn()
	return true
}

// summarize derives the human-facing digest from whatever the stages
// produced.
func summarize(result *apimodels.AnalysisResult) apimodels.Summary {
	summary := apimodels.Summary{
		Title:       "Analysis Summary",
		KeyFindings: []string{},
	}

	if ea := result.Analyses.Error; ea != nil && ea.ErrorType != apimodels.Unknown {
		summary.ProblemIdentified = true
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("identified a %s %s error", ea.ErrorLanguage, ea.ErrorType))
	}

	if ca := result.Analyses.Code; ca != nil && len(ca.PotentialBugs) > 0 {
		summary.ProblemIdentified = true
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("found %d potential problems in the code", len(ca.PotentialBugs)))
	}

	if rc := result.Analyses.RootCause; rc != nil && !rc.Undetermined() {
		summary.RootCauseIdentified = true
		summary.KeyFindings = append(summary.KeyFindings, "root cause: "+rc.RootCause)
		if len(rc.CausalChain) > 0 {
			summary.KeyFindings = append(summary.KeyFindings, "identified the problem's causal chain")
		}
	}

	if sol := result.Analyses.Solution; sol != nil && !sol.Degraded() {
		summary.SolutionProvided = true
		summary.KeyFindings = append(summary.KeyFindings, "solution: "+sol.Summary)
		if len(sol.FixSteps) > 0 {
			summary.KeyFindings = append(summary.KeyFindings,
				fmt.Sprintf("provided %d fix steps", len(sol.FixSteps)))
		}
		if len(sol.CodeChanges) > 0 {
			summary.KeyFindings = append(summary.KeyFindings,
				fmt.Sprintf("suggested %d code changes", len(sol.CodeChanges)))
		}
	}

	if n := len(result.SimilarBugs); n > 0 {
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("found %d similar historical problems", n))
	}

	switch {
	case summary.SolutionProvided:
		summary.Recommendation = "apply the provided solution"
	case summary.RootCauseIdentified:
		summary.Recommendation = "the root cause is identified, a fix still needs to be designed"
	case summary.ProblemIdentified:
		summary.Recommendation = "the problem is identified, the root cause needs further analysis"
	default:
		summary.Recommendation = "automatic analysis was inconclusive, manual review is needed"
	}
	return summary
}
