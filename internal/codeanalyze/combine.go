package codeanalyze

import (
	"fmt"
	"math"

	"github.com/fixwise/fixwise/apimodels"
)

// Suggestion areas; security and bug-fix entries survive truncation first.
const (
	areaSyntax      = "syntax"
	areaStructure   = "structure"
	areaLogic       = "logic"
	areaBugFix      = "bug fix"
	areaPerformance = "performance"
	areaSecurity    = "security"
)

const maxSuggestions = 10

// combine merges both passes into the final verdict. The quality score
// is arithmetic over the passes' findings, not another model call, so
// identical analyses always score identically.
func combine(syntax *apimodels.SyntaxAnalysis, semantic *apimodels.SemanticAnalysis, language string) *apimodels.CodeAnalysis {
	score := evaluateQuality(syntax, semantic)

	return &apimodels.CodeAnalysis{
		Quality: apimodels.QualityAssessment{
			OverallScore: score,
			Summary:      qualitySummary(score),
			Strengths:    identifyStrengths(syntax, semantic),
			Weaknesses:   identifyWeaknesses(syntax, semantic),
		},
		PotentialBugs:     semantic.PotentialBugs,
		PerformanceIssues: semantic.PerformanceIssues,
		SecurityConcerns:  semantic.SecurityConcerns,
		Suggestions:       buildSuggestions(syntax, semantic, language),
	}
}

// evaluateQuality scores code quality on a 1-10 scale, starting from the
// midpoint and adjusting for complexity, structure, style and issue
// counts.
func evaluateQuality(syntax *apimodels.SyntaxAnalysis, semantic *apimodels.SemanticAnalysis) int {
	score := 5.0

	score -= float64(syntax.Structure.ComplexityScore-5) * 0.3

	switch syntax.Structure.StructureQuality {
	case qualityGood:
		score++
	case qualityPoor:
		score--
	}

	if syntax.Style.NamingConvention == styleConsistent {
		score += 0.5
	}
	if syntax.Style.Indentation == styleConsistent {
		score += 0.5
	}
	if syntax.Style.CommentQuality == commentsGood {
		score += 0.5
	}

	logicIssues := semantic.Logic.LogicIssues
	severe := 0
	for _, issue := range logicIssues {
		if issue.Severity == apimodels.SeverityHigh {
			severe++
		}
	}
	for _, concern := range semantic.SecurityConcerns {
		if concern.Severity == apimodels.SeverityHigh {
			severe++
		}
	}
	score -= float64(severe) * 0.8

	totalIssues := len(logicIssues) + len(semantic.PotentialBugs) + len(semantic.SecurityConcerns)
	score -= float64(totalIssues) * 0.2

	return int(math.Max(1, math.Min(10, math.Round(score))))
}

func qualitySummary(score int) string {
	switch {
	case score >= 8:
		return "Excellent code quality: clear structure, follows best practices."
	case score >= 6:
		return "Good code quality with a few areas for improvement."
	case score >= 4:
		return "Average code quality, several areas need improvement."
	default:
		return "Poor code quality, substantial refactoring needed."
	}
}

func identifyStrengths(syntax *apimodels.SyntaxAnalysis, semantic *apimodels.SemanticAnalysis) []string {
	var strengths []string

	if syntax.Structure.ComplexityScore <= 5 {
		strengths = append(strengths, "moderate complexity")
	}
	if syntax.Structure.StructureQuality == qualityGood {
		strengths = append(strengths, "clear structure")
	}
	if syntax.Style.NamingConvention == styleConsistent {
		strengths = append(strengths, "consistent naming")
	}
	if syntax.Style.CommentQuality == commentsGood {
		strengths = append(strengths, "well commented")
	}
	if syntax.Style.Indentation == styleConsistent {
		strengths = append(strengths, "consistent indentation")
	}
	if len(semantic.Logic.EdgeCases) == 0 {
		strengths = append(strengths, "edge cases handled")
	}
	if len(semantic.Logic.LogicIssues) == 0 {
		strengths = append(strengths, "sound logic")
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "implements its basic function")
	}
	return strengths
}

func identifyWeaknesses(syntax *apimodels.SyntaxAnalysis, semantic *apimodels.SemanticAnalysis) []string {
	var weaknesses []string

	if syntax.Structure.ComplexityScore > 7 {
		weaknesses = append(weaknesses, "excessive complexity")
	}
	if syntax.Structure.StructureQuality == qualityPoor {
		weaknesses = append(weaknesses, "disorganized structure")
	}
	if syntax.Style.NamingConvention == styleInconsistent {
		weaknesses = append(weaknesses, "inconsistent naming")
	}
	if syntax.Style.CommentQuality == commentsLacking {
		weaknesses = append(weaknesses, "insufficient comments")
	}
	if len(semantic.Logic.EdgeCases) > 0 {
		weaknesses = append(weaknesses, "unhandled edge cases")
	}
	if len(semantic.Logic.LogicIssues) > 0 {
		weaknesses = append(weaknesses, "logic problems")
	}
	if len(semantic.PotentialBugs) > 0 {
		weaknesses = append(weaknesses, "potential bugs")
	}
	if len(semantic.PerformanceIssues) > 0 {
		weaknesses = append(weaknesses, "performance problems")
	}
	if len(semantic.SecurityConcerns) > 0 {
		weaknesses = append(weaknesses, "security risks")
	}
	return weaknesses
}

// buildSuggestions turns every finding into a recommendation, appends
// the language's best-practice entries, and truncates to maxSuggestions
// keeping security and bug-fix entries first.
func buildSuggestions(syntax *apimodels.SyntaxAnalysis, semantic *apimodels.SemanticAnalysis, language string) []apimodels.Suggestion {
	var suggestions []apimodels.Suggestion

	for _, issue := range syntax.SyntaxIssues {
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaSyntax,
			Description: issue.Description,
			Suggestion:  fmt.Sprintf("fix syntax issue: %s", issue.Description),
		})
	}
	for _, issue := range syntax.Structure.StructureIssues {
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaStructure,
			Description: issue,
			Suggestion:  fmt.Sprintf("improve code structure: %s", issue),
		})
	}
	for _, issue := range semantic.Logic.LogicIssues {
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaLogic,
			Description: issue.Issue,
			Suggestion:  fmt.Sprintf("fix logic issue: %s", issue.Issue),
		})
	}
	for _, bug := range semantic.PotentialBugs {
		suggestion := bug.FixSuggestion
		if suggestion == "" {
			suggestion = fmt.Sprintf("fix potential bug: %s", bug.Description)
		}
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaBugFix,
			Description: bug.Description,
			Suggestion:  suggestion,
		})
	}
	for _, issue := range semantic.PerformanceIssues {
		suggestion := issue.Optimization
		if suggestion == "" {
			suggestion = fmt.Sprintf("optimize: %s", issue.Issue)
		}
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaPerformance,
			Description: issue.Issue,
			Suggestion:  suggestion,
		})
	}
	for _, concern := range semantic.SecurityConcerns {
		suggestion := concern.Mitigation
		if suggestion == "" {
			suggestion = fmt.Sprintf("address security risk: %s", concern.Description)
		}
		suggestions = append(suggestions, apimodels.Suggestion{
			Area:        areaSecurity,
			Description: concern.Description,
			Suggestion:  suggestion,
		})
	}

	suggestions = append(suggestions, languageSuggestions(language)...)

	if len(suggestions) > maxSuggestions {
		suggestions = prioritize(suggestions)
	}
	return suggestions
}

func prioritize(suggestions []apimodels.Suggestion) []apimodels.Suggestion {
	var security, bugs, rest []apimodels.Suggestion
	for _, s := range suggestions {
		switch s.Area {
		case areaSecurity:
			security = append(security, s)
		case areaBugFix:
			bugs = append(bugs, s)
		default:
			rest = append(rest, s)
		}
	}
	keep := maxSuggestions - len(security) - len(bugs)
	if keep < 0 {
		keep = 0
	}
	if keep > len(rest) {
		keep = len(rest)
	}

	prioritized := make([]apimodels.Suggestion, 0, len(security)+len(bugs)+keep)
	prioritized = append(prioritized, security...)
	prioritized = append(prioritized, bugs...)
	prioritized = append(prioritized, rest[:keep]...)
	return prioritized
}

func languageSuggestions(language string) []apimodels.Suggestion {
	switch language {
	case "python":
		return []apimodels.Suggestion{
			{
				Area:        "python best practices",
				Description: "use comprehensions instead of explicit loops",
				Suggestion:  "consider list comprehensions for conciseness and speed",
			},
			{
				Area:        "python best practices",
				Description: "use context managers for resources",
				Suggestion:  "wrap files and resources in 'with' statements so they are always released",
			},
		}
	case "javascript":
		return []apimodels.Suggestion{
			{
				Area:        "javascript best practices",
				Description: "use modern ES6+ features",
				Suggestion:  "consider arrow functions, destructuring and template literals",
			},
			{
				Area:        "javascript best practices",
				Description: "avoid callback nesting",
				Suggestion:  "replace deeply nested callbacks with promises or async/await",
			},
		}
	case "java":
		return []apimodels.Suggestion{
			{
				Area:        "java best practices",
				Description: "use the Stream API for collections",
				Suggestion:  "consider streams to simplify collection processing",
			},
			{
				Area:        "java best practices",
				Description: "use StringBuilder for concatenation",
				Suggestion:  "replace + concatenation in loops with StringBuilder",
			},
		}
	}
	return nil
}
