package solution

import (
	"fmt"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
)

// enhance raises the quality of a structured solution in place: no-op
// code changes are dropped, missing steps are synthesized from the
// retained changes, and empty prevention tips and alternatives are
// filled from the problem type. Enhancing twice changes nothing.
func enhance(sol *apimodels.Solution, c *solutionContext) {
	if sol.Degraded() {
		return
	}

	kept := make([]apimodels.CodeChange, 0, len(sol.CodeChanges))
	for _, change := range sol.CodeChanges {
		original := strings.TrimSpace(change.OriginalCode)
		fixed := strings.TrimSpace(change.FixedCode)
		if original == "" || fixed == "" || original == fixed {
			continue
		}
		if change.File == "" {
			change.File = "unspecified file"
		}
		kept = append(kept, change)
	}
	sol.CodeChanges = kept

	if len(sol.FixSteps) == 0 {
		for i, change := range kept {
			sol.FixSteps = append(sol.FixSteps,
				fmt.Sprintf("step %d: edit %s - %s", i+1, change.File, change.Explanation))
		}
	}

	problemType := ""
	if c.rootCause != nil {
		problemType = c.rootCause.ProblemType
	}
	if len(sol.PreventionTips) == 0 {
		sol.PreventionTips = preventionTips(problemType)
	}
	if len(sol.AlternativeSolutions) == 0 {
		sol.AlternativeSolutions = alternativeSolutions(problemType, strings.ToLower(c.codeLanguage))
	}
}

func preventionTips(problemType string) []string {
	switch problemType {
	case apimodels.ProblemTypeData:
		return []string{
			"add thorough input validation",
			"implement more robust error handling",
			"add type and nil checks before critical operations",
		}
	case apimodels.ProblemTypeLogic:
		return []string{
			"add unit tests, especially for boundary conditions",
			"simplify the conditional logic",
			"document complex conditions in detail",
		}
	case apimodels.ProblemTypeSystem:
		return []string{
			"set up monitoring and alerting",
			"implement graceful degradation",
			"review configuration and dependencies regularly",
		}
	case apimodels.ProblemTypeCode:
		return []string{
			"adopt a code review process",
			"use static analysis tooling",
			"follow the language and project coding conventions",
		}
	}
	return []string{
		"raise unit and integration test coverage",
		"tighten the code review process",
		"improve log quality for easier diagnosis",
	}
}

func alternativeSolutions(problemType, language string) []string {
	switch problemType {
	case apimodels.ProblemTypeData:
		return []string{
			fmt.Sprintf("use a %s data validation library for stricter type checks", language),
			"adopt defensive programming with fallbacks for every missing value",
			"restructure the data handling around a functional pipeline",
		}
	case apimodels.ProblemTypeLogic:
		return []string{
			"redesign the algorithm around a simpler formulation",
			"introduce a state machine for the complex condition and state transitions",
			"express the business logic in a more declarative style",
		}
	case apimodels.ProblemTypeSystem:
		return []string{
			"manage every environment's configuration from a single system",
			"add a degradation strategy for resource exhaustion",
			"use dependency injection to simplify component wiring",
		}
	case apimodels.ProblemTypeCode:
		return []string{
			"refactor for readability and maintainability",
			"apply a design pattern suited to the architectural problem",
			"adopt newer language features or libraries to simplify the implementation",
		}
	}
	return []string{
		"implement a more comprehensive error handling strategy",
		"reassess whether the current architecture fits the problem domain",
		"consider specialized tooling or libraries for the specific problem",
	}
}
