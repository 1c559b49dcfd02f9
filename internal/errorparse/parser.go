// Package errorparse structures raw error text through a rule-based pass
// merged with a model-assisted pass.
package errorparse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/jsonutil"
	"github.com/fixwise/fixwise/internal/llm"
)

// errorPattern maps an error-name regex to a coarse error type. Order
// matters: the first match within the first matching language wins.
type errorPattern struct {
	errorType string
	re        *regexp.Regexp
}

type languagePatterns struct {
	language string
	patterns []errorPattern
}

var knownPatterns = []languagePatterns{
	{
		language: "python",
		patterns: []errorPattern{
			{"syntax", regexp.MustCompile(`SyntaxError|IndentationError`)},
			{"type", regexp.MustCompile(`TypeError`)},
			{"name", regexp.MustCompile(`NameError|AttributeError`)},
			{"index", regexp.MustCompile(`IndexError|KeyError`)},
			{"value", regexp.MustCompile(`ValueError`)},
			{"import", regexp.MustCompile(`ImportError|ModuleNotFoundError`)},
			{"exception", regexp.MustCompile(`ZeroDivisionError|AssertionError|RuntimeError|ArithmeticError`)},
		},
	},
	{
		language: "javascript",
		patterns: []errorPattern{
			{"syntax", regexp.MustCompile(`SyntaxError`)},
			{"type", regexp.MustCompile(`TypeError`)},
			{"reference", regexp.MustCompile(`ReferenceError`)},
			{"range", regexp.MustCompile(`RangeError`)},
			{"exception", regexp.MustCompile(`EvalError|URIError|InternalError`)},
		},
	},
	{
		language: "java",
		patterns: []errorPattern{
			{"null_pointer", regexp.MustCompile(`NullPointerException`)},
			{"class_cast", regexp.MustCompile(`ClassCastException`)},
			{"index", regexp.MustCompile(`IndexOutOfBoundsException`)},
			{"arithmetic", regexp.MustCompile(`ArithmeticException`)},
			{"exception", regexp.MustCompile(`IllegalArgumentException|IOException`)},
		},
	},
}

var (
	pyTracebackRe = regexp.MustCompile(`Traceback \(most recent call last\)`)
	pyFrameRe     = regexp.MustCompile(`File "([^"]+)", line (\d+), in (\S+)`)
	pyErrLineRe   = regexp.MustCompile(`(?m)([A-Za-z0-9_]+(?:Error|Exception)): (.+)$`)
	jsErrLineRe   = regexp.MustCompile(`([A-Za-z0-9_]+Error):?\s*(.+?)(?:\n|$)`)
	jsFrameRe     = regexp.MustCompile(`at (?:(\S+) \(([^:\s]+):(\d+):(\d+)\)|([^:\s]+):(\d+):(\d+))`)
)

// Parser structures raw error text.
type Parser struct {
	client *llm.Client
}

func NewParser(client *llm.Client) *Parser {
	return &Parser{client: client}
}

// Parse runs the rule-based pass, then overlays the model-assisted
// fields. It always returns a usable analysis; model failures degrade to
// a fixed fallback.
func (p *Parser) Parse(ctx context.Context, input *apimodels.ParsedInput) *apimodels.ErrorAnalysis {
	analysis := ruleBasedParse(input.RawContent)
	p.overlayModelAnalysis(ctx, input.RawContent, analysis)
	return analysis
}

func ruleBasedParse(rawError string) *apimodels.ErrorAnalysis {
	analysis := &apimodels.ErrorAnalysis{
		ErrorType:     apimodels.Unknown,
		ErrorLanguage: apimodels.Unknown,
		ErrorMessage:  rawError,
		StackTrace:    []apimodels.StackFrame{},
	}

	for _, lang := range knownPatterns {
		for _, pat := range lang.patterns {
			if pat.re.MatchString(rawError) {
				analysis.ErrorType = pat.errorType
				analysis.ErrorLanguage = lang.language
				break
			}
		}
		if analysis.ErrorType != apimodels.Unknown {
			break
		}
	}

	switch {
	case pyTracebackRe.MatchString(rawError):
		parsePythonTraceback(rawError, analysis)
	case strings.Contains(rawError, "at ") &&
		(strings.Contains(rawError, "TypeError") || strings.Contains(rawError, "ReferenceError")):
		parseJavaScriptTrace(rawError, analysis)
	}
	return analysis
}

// parsePythonTraceback extracts every frame; the last frame is the
// primary error location.
func parsePythonTraceback(rawError string, analysis *apimodels.ErrorAnalysis) {
	analysis.ErrorLanguage = "python"

	for _, m := range pyFrameRe.FindAllStringSubmatch(rawError, -1) {
		line, _ := strconv.Atoi(m[2])
		analysis.StackTrace = append(analysis.StackTrace, apimodels.StackFrame{
			File:     m[1],
			Line:     line,
			Function: m[3],
		})
	}
	if m := pyErrLineRe.FindStringSubmatch(rawError); m != nil {
		analysis.ErrorMessage = m[2]
	}
	if n := len(analysis.StackTrace); n > 0 {
		last := analysis.StackTrace[n-1]
		analysis.ErrorLocation = &last
	}
}

// parseJavaScriptTrace extracts every frame; the first frame is the
// primary error location.
func parseJavaScriptTrace(rawError string, analysis *apimodels.ErrorAnalysis) {
	analysis.ErrorLanguage = "javascript"

	if m := jsErrLineRe.FindStringSubmatch(rawError); m != nil {
		analysis.ErrorMessage = m[2]
	}
	for _, m := range jsFrameRe.FindAllStringSubmatch(rawError, -1) {
		var frame apimodels.StackFrame
		if m[1] != "" {
			line, _ := strconv.Atoi(m[3])
			col, _ := strconv.Atoi(m[4])
			frame = apimodels.StackFrame{Function: m[1], File: m[2], Line: line, Column: col}
		} else {
			line, _ := strconv.Atoi(m[6])
			col, _ := strconv.Atoi(m[7])
			frame = apimodels.StackFrame{File: m[5], Line: line, Column: col}
		}
		analysis.StackTrace = append(analysis.StackTrace, frame)
	}
	if len(analysis.StackTrace) > 0 {
		first := analysis.StackTrace[0]
		analysis.ErrorLocation = &first
	}
}

const analysisSystemPrompt = `You are an expert at analyzing software error messages. Deconstruct the provided error and extract:
1. the root cause
2. the severity (one of: low, medium, medium-high, high)
3. likely environmental factors and preconditions
4. relevant variables or parameter values
5. common scenarios that trigger this class of error

Reply with JSON only, using this shape:
{
  "root_cause_summary": "short root cause description",
  "severity": "severity level",
  "affected_components": ["affected components"],
  "common_triggers": ["common trigger scenarios"],
  "environmental_factors": ["possible environmental factors"],
  "relevant_variables": ["relevant variables or parameters"]
}`

type modelErrorAnalysis struct {
	RootCauseSummary     string   `json:"root_cause_summary"`
	Severity             string   `json:"severity"`
	AffectedComponents   []string `json:"affected_components"`
	CommonTriggers       []string `json:"common_triggers"`
	EnvironmentalFactors []string `json:"environmental_factors"`
	RelevantVariables    []string `json:"relevant_variables"`
}

func (p *Parser) overlayModelAnalysis(ctx context.Context, rawError string, analysis *apimodels.ErrorAnalysis) {
	location, _ := json.Marshal(analysis.ErrorLocation)
	prompt := fmt.Sprintf(`Analyze the following error message and extract the key information:

`+"```"+`
%s
`+"```"+`

Known so far:
- error type: %s
- error language: %s
- error location: %s`,
		rawError, analysis.ErrorType, analysis.ErrorLanguage, location)

	text, err := p.client.GenerateWithRetry(ctx, prompt, analysisSystemPrompt)
	if err != nil {
		slog.Warn("error analysis model call failed", "error", err)
		applyErrorFallback(analysis, "")
		return
	}

	var parsed modelErrorAnalysis
	if err := jsonutil.UnmarshalModelOutput(text, &parsed); err != nil {
		slog.Warn("error analysis reply was not valid JSON", "error", err)
		applyErrorFallback(analysis, text)
		return
	}

	analysis.RootCauseSummary = parsed.RootCauseSummary
	analysis.Severity = parsed.Severity
	analysis.AffectedComponents = parsed.AffectedComponents
	analysis.CommonTriggers = parsed.CommonTriggers
	analysis.EnvironmentalFactors = parsed.EnvironmentalFactors
	analysis.RelevantVariables = parsed.RelevantVariables
}

// applyErrorFallback fills the model-owned fields with the fixed fallback
// shape, preserving any raw text for audit.
func applyErrorFallback(analysis *apimodels.ErrorAnalysis, rawText string) {
	analysis.RootCauseSummary = apimodels.Unknown
	analysis.Severity = apimodels.Unknown
	analysis.AffectedComponents = []string{}
	analysis.CommonTriggers = []string{}
	analysis.EnvironmentalFactors = []string{}
	analysis.RelevantVariables = []string{}
	analysis.RawAnalysis = rawText
}
