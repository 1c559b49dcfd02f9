package solution

import (
	"strings"

	"github.com/fixwise/fixwise/apimodels"
)

// Fix approaches, keyed off the root-cause problem type.
const (
	approachData    = "data fix"
	approachLogic   = "logic fix"
	approachSystem  = "system fix"
	approachCode    = "code fix"
	approachGeneral = "general fix"
)

var fixStrategies = map[string][]string{
	apimodels.ProblemTypeData: {
		"add data validation and sanitization",
		"fix type mismatches",
		"handle edge cases and missing values",
		"correct data formats and encodings",
		"add defaults and fallback logic",
	},
	apimodels.ProblemTypeLogic: {
		"correct conditional checks",
		"improve the algorithm implementation",
		"handle boundary conditions",
		"fix state management",
		"improve exception flow handling",
	},
	apimodels.ProblemTypeSystem: {
		"adjust system configuration",
		"fix dependency problems",
		"resolve permission and security problems",
		"optimize resource usage",
		"fix network and connection problems",
	},
	apimodels.ProblemTypeCode: {
		"fix syntax errors",
		"restructure the code",
		"correct API usage",
		"resolve version incompatibilities",
		"implement the missing functionality",
	},
}

var generalStrategies = []string{
	"fix the coding errors",
	"improve the implementation",
	"add exception handling",
	"adopt defensive programming",
}

// languageFixTemplates are idiomatic fix snippets included in the
// strategy so the model anchors its code changes on them.
var languageFixTemplates = map[string][]string{
	"python": {
		"if variable is None:\n    # handle the missing value",
		"try:\n    # code that may raise\nexcept ExceptionType as e:\n    # handle the failure",
		"with open(file_path, 'r') as file:\n    # use the file",
	},
	"javascript": {
		"if (variable === undefined || variable === null) {\n    // handle the missing value\n}",
		"try {\n    // code that may throw\n} catch (error) {\n    // handle the failure\n}",
		"element.addEventListener('event', handler);\n// on cleanup\nelement.removeEventListener('event', handler);",
	},
	"java": {
		"if (variable == null) {\n    // handle the missing value\n}",
		"try (Resource resource = new Resource()) {\n    // use the resource\n}",
		"try {\n    // code that may throw\n} catch (Exception e) {\n    // handle the failure\n}",
	},
}

// determineStrategy derives the fix plan deterministically from the
// root-cause conclusion: approach and strategies per problem type (with
// a keyword fallback when the type is unclassified), difficulty raised
// for long causal chains, impact raised for wide blast radius.
func determineStrategy(c *solutionContext) *apimodels.FixStrategy {
	strategy := &apimodels.FixStrategy{
		Approach:        approachGeneral,
		Strategies:      generalStrategies,
		Difficulty:      "medium",
		EstimatedImpact: "medium",
	}

	problemType := ""
	rootCause := ""
	var causalChain, affectedComponents []string
	if c.rootCause != nil {
		problemType = c.rootCause.ProblemType
		rootCause = strings.ToLower(c.rootCause.RootCause)
		causalChain = c.rootCause.CausalChain
		affectedComponents = c.rootCause.AffectedComponents
	}

	if strategies, ok := fixStrategies[problemType]; ok {
		strategy.Approach = approachFor(problemType)
		strategy.Strategies = strategies
	} else {
		switch {
		case containsAny(rootCause, "null", "undefined", "type", "data"):
			strategy.Approach = approachData
			strategy.Strategies = fixStrategies[apimodels.ProblemTypeData]
		case containsAny(rootCause, "logic", "condition", "algorithm", "branch"):
			strategy.Approach = approachLogic
			strategy.Strategies = fixStrategies[apimodels.ProblemTypeLogic]
		case containsAny(rootCause, "system", "configuration", "environment", "resource", "permission"):
			strategy.Approach = approachSystem
			strategy.Strategies = fixStrategies[apimodels.ProblemTypeSystem]
		case containsAny(rootCause, "code", "syntax", "implementation", "function"):
			strategy.Approach = approachCode
			strategy.Strategies = fixStrategies[apimodels.ProblemTypeCode]
		}
	}

	strategy.TargetComponents = affectedComponents
	strategy.LanguagePatterns = languageFixTemplates[strings.ToLower(c.codeLanguage)]

	if len(causalChain) > 3 {
		strategy.Difficulty = "high"
	}
	if len(affectedComponents) > 2 {
		strategy.EstimatedImpact = "high"
	}
	return strategy
}

func approachFor(problemType string) string {
	switch problemType {
	case apimodels.ProblemTypeData:
		return approachData
	case apimodels.ProblemTypeLogic:
		return approachLogic
	case apimodels.ProblemTypeSystem:
		return approachSystem
	case apimodels.ProblemTypeCode:
		return approachCode
	}
	return approachGeneral
}

func containsAny(s string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
