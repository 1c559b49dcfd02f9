// Package solution turns a root-cause conclusion into a concrete,
// actionable fix proposal.
package solution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/jsonutil"
	"github.com/fixwise/fixwise/internal/llm"
)

const (
	maxSimilarSolutions = 3
	maxSolutionExcerpt  = 200
)

// Generator produces fix proposals.
type Generator struct {
	client *llm.Client
}

func NewGenerator(client *llm.Client) *Generator {
	return &Generator{client: client}
}

type similarSolution struct {
	title      string
	solution   string
	similarity float64
}

// solutionContext collects every signal the generation works from.
type solutionContext struct {
	errorRaw      string
	errorType     string
	errorLanguage string

	codeRaw      string
	codeLanguage string
	codeFilename string

	problemDescription string

	rootCause        *apimodels.RootCause
	similarSolutions []similarSolution
}

// Generate builds the fix proposal: deterministic strategy selection,
// model synthesis, then a quality pass. The root cause and similar bugs
// may be nil. The result always carries the chosen strategy.
func (g *Generator) Generate(ctx context.Context, in apimodels.AnalysisInputs,
	rootCause *apimodels.RootCause, similarBugs []apimodels.SimilarBug) *apimodels.Solution {

	c := prepareContext(in, rootCause, similarBugs)
	strategy := determineStrategy(c)
	sol, structured := g.generateDetailed(ctx, c, strategy)
	if structured {
		enhance(sol, c)
	}
	sol.Strategy = strategy
	return sol
}

func prepareContext(in apimodels.AnalysisInputs, rootCause *apimodels.RootCause,
	similarBugs []apimodels.SimilarBug) *solutionContext {

	c := &solutionContext{rootCause: rootCause}

	if in.ErrorMessage != nil {
		c.errorRaw = in.ErrorMessage.RawContent
		c.errorType = in.ErrorMessage.Category
	}
	if in.CodeSnippet != nil {
		c.codeRaw = in.CodeSnippet.RawContent
		c.codeLanguage = in.CodeSnippet.Language
		c.codeFilename = in.CodeSnippet.Filename
	}
	if in.ProblemDescription != nil {
		c.problemDescription = in.ProblemDescription.RawContent
	}

	for _, bug := range similarBugs {
		if len(c.similarSolutions) == maxSimilarSolutions {
			break
		}
		if bug.Solution == "" {
			continue
		}
		c.similarSolutions = append(c.similarSolutions, similarSolution{
			title:      bug.Title,
			solution:   bug.Solution,
			similarity: bug.Similarity,
		})
	}
	return c
}

const solutionSystemPrompt = `You are a senior software engineer and debugging expert. Using the provided information, produce a detailed fix. Your solution must include:

1. a concise summary of the fix
2. detailed fix steps
3. concrete code changes (original code and fixed code)
4. an explanation of why the fix works
5. advice for preventing similar problems
6. alternative solutions where applicable

Make sure the fix targets the root cause directly and the code changes are accurate and applicable. Reply with JSON only, using this shape:
{
  "solution_summary": "short summary of the fix",
  "fix_steps": ["detailed fix step", ...],
  "code_changes": [
    {
      "file": "filename or location",
      "original_code": "original fragment",
      "fixed_code": "fixed fragment",
      "explanation": "why this change"
    }
  ],
  "explanation": "detailed explanation of the fix and why it works",
  "prevention_tips": ["advice for preventing similar problems", ...],
  "alternative_solutions": ["alternative solution", ...]
}`

// generateDetailed returns the decoded solution and whether it is
// structured; the degraded fallback shape reports false and is never
// enhanced.
func (g *Generator) generateDetailed(ctx context.Context, c *solutionContext,
	strategy *apimodels.FixStrategy) (*apimodels.Solution, bool) {

	var parts []string

	if c.errorRaw != "" {
		parts = append(parts, fmt.Sprintf("Error message:\n```\n%s\n```", c.errorRaw))
	}
	if c.codeRaw != "" {
		parts = append(parts, fmt.Sprintf("Code snippet (%s):\n```%s\n%s\n```",
			c.codeLanguage, c.codeLanguage, c.codeRaw))
	}
	if c.problemDescription != "" {
		parts = append(parts, "Problem description:\n"+c.problemDescription)
	}
	if c.rootCause != nil {
		parts = append(parts, fmt.Sprintf(`Root-cause analysis:
- root cause: %s
- problem type: %s
- explanation: %s
- affected components: %s`,
			c.rootCause.RootCause, c.rootCause.ProblemType, c.rootCause.Explanation,
			strings.Join(c.rootCause.AffectedComponents, ", ")))
	}

	parts = append(parts, fmt.Sprintf(`Fix strategy:
- approach: %s
- suggested strategies: %s
- target components: %s`,
		strategy.Approach,
		strings.Join(strategy.Strategies, ", "),
		strings.Join(strategy.TargetComponents, ", ")))

	if len(c.similarSolutions) > 0 {
		var b strings.Builder
		b.WriteString("Solutions to similar problems:\n")
		for _, sol := range c.similarSolutions {
			excerpt := sol.solution
			if len(excerpt) > maxSolutionExcerpt {
				excerpt = excerpt[:maxSolutionExcerpt] + "..."
			}
			fmt.Fprintf(&b, "- %s: %s\n", sol.title, excerpt)
		}
		parts = append(parts, b.String())
	}

	prompt := "Using the following information, provide a detailed fix:\n\n" + strings.Join(parts, "\n\n")

	text, err := g.client.GenerateWithRetry(ctx, prompt, solutionSystemPrompt)
	if err != nil {
		slog.Warn("solution model call failed", "error", err)
		return solutionFallback("the model call failed"), false
	}

	var sol apimodels.Solution
	if err := jsonutil.UnmarshalModelOutput(text, &sol); err != nil {
		slog.Warn("solution reply was not valid JSON", "error", err)
		return solutionFallback(text), false
	}
	return &sol, true
}

// solutionFallback is the degraded shape: the raw reply is preserved and
// every structured field stays empty. Degraded solutions are never
// enhanced.
func solutionFallback(rawText string) *apimodels.Solution {
	return &apimodels.Solution{
		Summary:              "a structured solution could not be generated",
		RawSolution:          rawText,
		FixSteps:             []string{},
		CodeChanges:          []apimodels.CodeChange{},
		Explanation:          "the reply could not be decoded, see the raw solution text",
		PreventionTips:       []string{},
		AlternativeSolutions: []string{},
	}
}
