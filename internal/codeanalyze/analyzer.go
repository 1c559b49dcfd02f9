// Package codeanalyze reviews submitted code in two model passes (syntax
// and structure, then deep semantics) and combines them into a single
// deterministic quality verdict.
package codeanalyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/jsonutil"
	"github.com/fixwise/fixwise/internal/llm"
)

// Enumeration values the model is asked to use and the combiner keys on.
const (
	qualityGood = "good"
	qualityFair = "fair"
	qualityPoor = "poor"

	styleConsistent   = "consistent"
	styleInconsistent = "inconsistent"

	commentsGood    = "good"
	commentsLacking = "lacking"
)

// Analyzer runs the two-pass code review.
type Analyzer struct {
	client *llm.Client
}

func NewAnalyzer(client *llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze reviews the preprocessed code input. Each pass degrades to a
// fixed neutral shape when the model reply cannot be decoded, so the
// combined result is always usable.
func (a *Analyzer) Analyze(ctx context.Context, input *apimodels.ParsedInput) *apimodels.CodeAnalysis {
	language := strings.ToLower(input.Language)
	strategy := strategyFor(language)

	syntax := a.analyzeSyntax(ctx, input.RawContent, language)
	semantic := a.analyzeSemantics(ctx, input.RawContent, language, input.Filename, input.Context, strategy)

	return combine(syntax, semantic, language)
}

const syntaxSystemPromptFmt = `You are a senior %s developer. Perform a first-pass syntax and structure review of the code below. Flag possible syntax errors, structural problems and style inconsistencies. This is a surface review, do not analyze semantics.

Reply with JSON only, using this shape:
{
  "syntax_issues": [
    {
      "issue_type": "kind of syntax problem",
      "description": "detailed description",
      "severity": "high/medium/low",
      "line_reference": "line number or code fragment"
    }
  ],
  "code_structure": {
    "complexity_score": <number 1-10>,
    "main_components": ["main components"],
    "structure_quality": "good/fair/poor",
    "structure_issues": ["structural problems"]
  },
  "style_consistency": {
    "naming_convention": "consistent/inconsistent",
    "indentation": "consistent/inconsistent",
    "comment_quality": "good/fair/lacking"
  }
}`

func (a *Analyzer) analyzeSyntax(ctx context.Context, code, language string) *apimodels.SyntaxAnalysis {
	systemPrompt := fmt.Sprintf(syntaxSystemPromptFmt, language)
	prompt := fmt.Sprintf("Review the syntax and structure of this %s code:\n\n```%s\n%s\n```\n\nReport syntax issues, a structure assessment and style consistency.",
		language, language, code)

	text, err := a.client.GenerateWithRetry(ctx, prompt, systemPrompt)
	if err != nil {
		slog.Warn("syntax analysis model call failed", "error", err)
		return syntaxFallback("")
	}

	var analysis apimodels.SyntaxAnalysis
	if err := jsonutil.UnmarshalModelOutput(text, &analysis); err != nil {
		slog.Warn("syntax analysis reply was not valid JSON", "error", err)
		return syntaxFallback(text)
	}
	return &analysis
}

// syntaxFallback is the neutral shape used when the syntax pass failed:
// no issues, midpoint complexity, every verdict unknown.
func syntaxFallback(rawText string) *apimodels.SyntaxAnalysis {
	return &apimodels.SyntaxAnalysis{
		SyntaxIssues: []apimodels.SyntaxIssue{},
		Structure: apimodels.StructureReport{
			ComplexityScore:  5,
			MainComponents:   []string{},
			StructureQuality: apimodels.Unknown,
			StructureIssues:  []string{},
		},
		Style: apimodels.StyleReport{
			NamingConvention: apimodels.Unknown,
			Indentation:      apimodels.Unknown,
			CommentQuality:   apimodels.Unknown,
		},
		RawAnalysis: rawText,
	}
}

const semanticSystemPromptFmt = `You are a veteran software architect fluent in %s. Perform a deep semantic review of the code below: reason about its logic, likely bugs, performance problems and security risks. Take the surrounding context and the filename into account.

Patterns worth particular attention in this language:
- common bugs: %s
- performance: %s
- security: %s

Reply with JSON only, using this shape:
{
  "logic_analysis": {
    "purpose": "what the code is for",
    "logic_flow": "how control and data flow",
    "edge_cases": ["unhandled edge cases"],
    "logic_issues": [
      {
        "issue": "logic problem description",
        "impact": "consequence",
        "severity": "high/medium/low"
      }
    ]
  },
  "potential_bugs": [
    {
      "bug_type": "kind of bug",
      "description": "description",
      "likely_outcome": "what it would cause",
      "fix_suggestion": "how to fix it"
    }
  ],
  "performance_issues": [
    {
      "issue": "performance problem description",
      "impact": "consequence",
      "optimization": "suggested optimization"
    }
  ],
  "security_concerns": [
    {
      "vulnerability": "kind of vulnerability",
      "description": "description",
      "severity": "high/medium/low",
      "mitigation": "mitigation"
    }
  ]
}`

func (a *Analyzer) analyzeSemantics(ctx context.Context, code, language, filename, codeContext string, strategy Strategy) *apimodels.SemanticAnalysis {
	systemPrompt := fmt.Sprintf(semanticSystemPromptFmt, language,
		strings.Join(strategy.CommonBugs, ", "),
		strings.Join(strategy.PerformancePatterns, ", "),
		strings.Join(strategy.SecurityPatterns, ", "))

	var contextInfo strings.Builder
	if codeContext != "" {
		fmt.Fprintf(&contextInfo, "\nCode context:\n%s", codeContext)
	}
	if filename != "" {
		fmt.Fprintf(&contextInfo, "\nFilename: %s", filename)
	}

	prompt := fmt.Sprintf("Perform a deep semantic review of this %s code:\n\n```%s\n%s\n```%s\n\nAnalyze the logic, potential bugs, performance problems and security risks. Consider the code's intent, edge cases and execution paths.",
		language, language, code, contextInfo.String())

	text, err := a.client.GenerateWithRetry(ctx, prompt, systemPrompt)
	if err != nil {
		slog.Warn("semantic analysis model call failed", "error", err)
		return semanticFallback("")
	}

	var analysis apimodels.SemanticAnalysis
	if err := jsonutil.UnmarshalModelOutput(text, &analysis); err != nil {
		slog.Warn("semantic analysis reply was not valid JSON", "error", err)
		return semanticFallback(text)
	}
	return &analysis
}

func semanticFallback(rawText string) *apimodels.SemanticAnalysis {
	return &apimodels.SemanticAnalysis{
		Logic: apimodels.LogicAnalysis{
			Purpose:     apimodels.Unknown,
			LogicFlow:   apimodels.Unknown,
			EdgeCases:   []string{},
			LogicIssues: []apimodels.LogicIssue{},
		},
		PotentialBugs:     []apimodels.PotentialBug{},
		PerformanceIssues: []apimodels.PerformanceIssue{},
		SecurityConcerns:  []apimodels.SecurityConcern{},
		RawAnalysis:       rawText,
	}
}
