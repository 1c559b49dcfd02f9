// Package rootcause infers the root cause of a defect by integrating
// every available signal, scoring candidate cause categories, and asking
// the model for a causal synthesis that is then shaped deterministically.
package rootcause

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/jsonutil"
	"github.com/fixwise/fixwise/internal/llm"
)

const (
	maxLogExcerpt  = 2000
	maxKeyEvents   = 10
	maxSimilarBugs = 3
	maxRawExcerpt  = 500
)

// Engine runs root-cause inference.
type Engine struct {
	client *llm.Client
}

func NewEngine(client *llm.Client) *Engine {
	return &Engine{client: client}
}

// integrated collects every signal the inference works from. Absent
// signals stay zero-valued.
type integrated struct {
	errorRaw      string
	errorAnalysis *apimodels.ErrorAnalysis

	codeRaw      string
	codeLanguage string
	codeAnalysis *apimodels.CodeAnalysis

	problemDescription string

	logRaw    string
	keyEvents []apimodels.KeyLogEvent
}

// Analyze infers the root cause from the inputs and the earlier analysis
// stages. Any of the analyses and the similar bugs may be nil. The result
// is always usable; model failures degrade to the undetermined fallback.
func (e *Engine) Analyze(ctx context.Context, in apimodels.AnalysisInputs,
	errorAnalysis *apimodels.ErrorAnalysis, codeAnalysis *apimodels.CodeAnalysis,
	similarBugs []apimodels.SimilarBug) *apimodels.RootCause {

	info := e.integrate(ctx, in, errorAnalysis, codeAnalysis)
	scores := categorizeCauses(info)
	analysis := e.deepAnalysis(ctx, info, scores, similarBugs)
	return formConclusion(analysis, info, scores)
}

func (e *Engine) integrate(ctx context.Context, in apimodels.AnalysisInputs,
	errorAnalysis *apimodels.ErrorAnalysis, codeAnalysis *apimodels.CodeAnalysis) *integrated {

	info := &integrated{
		errorAnalysis: errorAnalysis,
		codeAnalysis:  codeAnalysis,
	}
	if in.ErrorMessage != nil {
		info.errorRaw = in.ErrorMessage.RawContent
	}
	if in.CodeSnippet != nil {
		info.codeRaw = in.CodeSnippet.RawContent
		info.codeLanguage = in.CodeSnippet.Language
	}
	if in.ProblemDescription != nil {
		info.problemDescription = in.ProblemDescription.RawContent
	}
	if in.LogInfo != nil {
		info.logRaw = in.LogInfo.RawContent
		info.keyEvents = e.extractKeyLogEvents(ctx, info.logRaw)
	}
	return info
}

const logEventsSystemPrompt = `You are a professional log analyst. Extract the key events from the provided log, focusing on errors, warnings and abnormal conditions. Reply with a JSON array where each event has the fields timestamp, level, message and component (when available). Extract only events directly relevant to the problem, at most 10.`

// extractKeyLogEvents asks the model for the notable events in the log.
// Empty logs never trigger a model call; failures yield no events.
func (e *Engine) extractKeyLogEvents(ctx context.Context, logRaw string) []apimodels.KeyLogEvent {
	if logRaw == "" {
		return nil
	}

	excerpt := logRaw
	if len(excerpt) > maxLogExcerpt {
		excerpt = excerpt[:maxLogExcerpt]
	}
	prompt := fmt.Sprintf("Extract the key events from this log, especially those tied to errors or anomalies:\n\n```\n%s\n```\n\nReply with the key events as a JSON array.", excerpt)

	text, err := e.client.GenerateWithRetry(ctx, prompt, logEventsSystemPrompt)
	if err != nil {
		slog.Warn("log event extraction model call failed", "error", err)
		return nil
	}

	var events []apimodels.KeyLogEvent
	if err := jsonutil.UnmarshalModelOutput(text, &events); err != nil {
		slog.Warn("log event reply was not valid JSON", "error", err)
		return nil
	}
	if len(events) > maxKeyEvents {
		events = events[:maxKeyEvents]
	}
	return events
}

const causalSystemPrompt = `You are an experienced software debugging expert specializing in root-cause analysis. Using every piece of information provided, work out the fundamental cause of the problem. Your analysis must cover:

1. a detailed root-cause description
2. the causal chain (how one event led to the final problem)
3. the code structures or system components involved
4. your confidence level (1-10) and why

Reply with JSON only, using this shape:
{
  "root_cause": "concise root-cause description",
  "causal_chain": ["first event in the chain", "second event", ...],
  "explanation": "detailed explanation, including technical detail",
  "affected_components": ["affected component", ...],
  "evidence": ["evidence supporting the analysis", ...],
  "confidence_level": <number 1-10>,
  "confidence_explanation": "why this confidence level"
}`

type modelRootCause struct {
	RootCause             string   `json:"root_cause"`
	CausalChain           []string `json:"causal_chain"`
	Explanation           string   `json:"explanation"`
	AffectedComponents    []string `json:"affected_components"`
	Evidence              []string `json:"evidence"`
	ConfidenceLevel       int      `json:"confidence_level"`
	ConfidenceExplanation string   `json:"confidence_explanation"`
}

func (e *Engine) deepAnalysis(ctx context.Context, info *integrated,
	scores apimodels.CauseScores, similarBugs []apimodels.SimilarBug) *modelRootCause {

	var parts []string

	if info.errorRaw != "" {
		parts = append(parts, fmt.Sprintf("Error message:\n```\n%s\n```", info.errorRaw))
	}
	if info.errorAnalysis != nil {
		parts = append(parts, "Error analysis:\n"+marshalIndent(info.errorAnalysis))
	}
	if info.codeRaw != "" {
		parts = append(parts, fmt.Sprintf("Code snippet (%s):\n```%s\n%s\n```",
			info.codeLanguage, info.codeLanguage, info.codeRaw))
	}
	if info.codeAnalysis != nil {
		summary := map[string]any{
			"potential_bugs":     info.codeAnalysis.PotentialBugs,
			"performance_issues": info.codeAnalysis.PerformanceIssues,
			"security_concerns":  info.codeAnalysis.SecurityConcerns,
		}
		parts = append(parts, "Code analysis summary:\n"+marshalIndent(summary))
	}
	if info.problemDescription != "" {
		parts = append(parts, "Problem description:\n"+info.problemDescription)
	}
	if len(info.keyEvents) > 0 {
		parts = append(parts, "Key log events:\n"+marshalIndent(info.keyEvents))
	}

	parts = append(parts, "Candidate cause categories:\n"+marshalIndent(scores))

	if len(similarBugs) > 0 {
		bugs := similarBugs
		if len(bugs) > maxSimilarBugs {
			bugs = bugs[:maxSimilarBugs]
		}
		summaries := make([]map[string]any, 0, len(bugs))
		for _, bug := range bugs {
			summaries = append(summaries, map[string]any{
				"title":       bug.Title,
				"description": bug.Description,
				"similarity":  bug.Similarity,
			})
		}
		parts = append(parts, "Similar known problems:\n"+marshalIndent(summaries))
	}

	prompt := "Using the following information, work out the fundamental cause of the problem:\n\n" +
		strings.Join(parts, "\n\n")

	text, err := e.client.GenerateWithRetry(ctx, prompt, causalSystemPrompt)
	if err != nil {
		slog.Warn("causal analysis model call failed", "error", err)
		return causalFallback("")
	}

	var analysis modelRootCause
	if err := jsonutil.UnmarshalModelOutput(text, &analysis); err != nil {
		slog.Warn("causal analysis reply was not valid JSON", "error", err)
		return causalFallback(text)
	}
	return &analysis
}

// causalFallback is the undetermined shape: minimal confidence and any
// raw reply carried in the explanation for audit.
func causalFallback(rawText string) *modelRootCause {
	explanation := "The analysis did not produce a structured result."
	if rawText != "" {
		if len(rawText) > maxRawExcerpt {
			rawText = rawText[:maxRawExcerpt]
		}
		explanation += " Raw analysis: " + rawText
	}
	return &modelRootCause{
		RootCause:             apimodels.RootCauseUndetermined,
		CausalChain:           []string{},
		Explanation:           explanation,
		AffectedComponents:    []string{},
		Evidence:              []string{},
		ConfidenceLevel:       1,
		ConfidenceExplanation: "confidence is minimal because the structured analysis could not be decoded",
	}
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
