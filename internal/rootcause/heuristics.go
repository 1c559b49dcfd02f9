package rootcause

import (
	"strings"

	"github.com/fixwise/fixwise/apimodels"
)

// categorizeCauses scores the four cause categories from the integrated
// signals. Scores are normalized to sum 1.0; with no signal at all every
// category gets 0.25.
func categorizeCauses(info *integrated) apimodels.CauseScores {
	scores := apimodels.CauseScores{
		apimodels.CauseData:   0,
		apimodels.CauseLogic:  0,
		apimodels.CauseSystem: 0,
		apimodels.CauseCode:   0,
	}

	if info.errorRaw != "" {
		raw := info.errorRaw
		if strings.Contains(raw, "TypeError") || strings.Contains(raw, "ValueError") {
			scores[apimodels.CauseData] += 0.3
		}
		if strings.Contains(raw, "IndexError") || strings.Contains(raw, "KeyError") {
			scores[apimodels.CauseLogic] += 0.3
			scores[apimodels.CauseData] += 0.2
		}
		if strings.Contains(raw, "PermissionError") || strings.Contains(raw, "ConnectionError") {
			scores[apimodels.CauseSystem] += 0.4
		}
		if strings.Contains(raw, "SyntaxError") || strings.Contains(raw, "ImportError") {
			scores[apimodels.CauseCode] += 0.4
		}
	}

	if info.errorAnalysis != nil {
		for _, component := range info.errorAnalysis.AffectedComponents {
			c := strings.ToLower(component)
			switch {
			case strings.Contains(c, "database") || strings.Contains(c, "data"):
				scores[apimodels.CauseData] += 0.2
			case strings.Contains(c, "network") || strings.Contains(c, "system"):
				scores[apimodels.CauseSystem] += 0.2
			}
		}
	}

	if info.codeAnalysis != nil {
		for _, bug := range info.codeAnalysis.PotentialBugs {
			bugType := strings.ToLower(bug.BugType)
			switch {
			case containsAny(bugType, "type", "null", "undefined", "reference"):
				scores[apimodels.CauseData] += 0.15
			case containsAny(bugType, "logic", "condition", "loop"):
				scores[apimodels.CauseLogic] += 0.15
			case containsAny(bugType, "syntax", "import", "declaration"):
				scores[apimodels.CauseCode] += 0.15
			}
		}
		if n := len(info.codeAnalysis.SecurityConcerns); n > 0 {
			scores[apimodels.CauseSystem] += 0.1 * float64(n)
			scores[apimodels.CauseCode] += 0.05 * float64(n)
		}
	}

	var total float64
	for _, v := range scores {
		total += v
	}
	if total > 0 {
		for k := range scores {
			scores[k] /= total
		}
	} else {
		for k := range scores {
			scores[k] = 0.25
		}
	}
	return scores
}

// formConclusion shapes the model's causal synthesis into the final
// verdict. Problem type and severity are derived deterministically so
// the same analysis always yields the same conclusion.
func formConclusion(analysis *modelRootCause, info *integrated, scores apimodels.CauseScores) *apimodels.RootCause {
	rootCause := analysis.RootCause
	if rootCause == "" {
		rootCause = apimodels.RootCauseUndetermined
	}

	return &apimodels.RootCause{
		RootCause:             rootCause,
		Explanation:           analysis.Explanation,
		ProblemType:           determineProblemType(rootCause, info.errorRaw),
		Severity:              determineSeverity(info.errorRaw, analysis.AffectedComponents),
		CausalChain:           analysis.CausalChain,
		AffectedComponents:    analysis.AffectedComponents,
		RelatedFactors:        relatedFactors(analysis),
		Evidence:              analysis.Evidence,
		ConfidenceLevel:       analysis.ConfidenceLevel,
		ConfidenceExplanation: analysis.ConfidenceExplanation,
		CauseScores:           scores,
	}
}

var (
	dataPatterns = []string{
		"null", "undefined", "nil value", "type error", "type mismatch",
		"data format", "inconsistent data", "missing data",
	}
	logicPatterns = []string{
		"logic error", "condition", "boundary", "algorithm",
		"state management", "race condition", "unhandled flow",
	}
	systemPatterns = []string{
		"out of memory", "insufficient resources", "permission",
		"configuration", "network", "environment", "dependency",
	}
	codePatterns = []string{
		"syntax error", "implementation error", "method call",
		"api misuse", "incompatible version", "missing function",
	}
)

// determineProblemType classifies the root cause by keyword, falling
// back to the raw error text when the description gives no signal.
func determineProblemType(rootCause, errorRaw string) string {
	rc := strings.ToLower(rootCause)
	switch {
	case containsAny(rc, dataPatterns...):
		return apimodels.ProblemTypeData
	case containsAny(rc, logicPatterns...):
		return apimodels.ProblemTypeLogic
	case containsAny(rc, systemPatterns...):
		return apimodels.ProblemTypeSystem
	case containsAny(rc, codePatterns...):
		return apimodels.ProblemTypeCode
	}

	if errorRaw != "" {
		raw := strings.ToLower(errorRaw)
		switch {
		case containsAny(raw, "typeerror", "valueerror", "keyerror", "indexerror"):
			return apimodels.ProblemTypeData
		case containsAny(raw, "logicerror", "assertionerror"):
			return apimodels.ProblemTypeLogic
		case containsAny(raw, "ioerror", "permissionerror", "memoryerror", "connectionerror"):
			return apimodels.ProblemTypeSystem
		case containsAny(raw, "syntaxerror", "importerror", "attributeerror", "nameerror"):
			return apimodels.ProblemTypeCode
		}
	}
	return apimodels.ProblemTypeUnclassified
}

var (
	criticalSeverityWords = []string{"crash", "fatal", "data loss", "critical vulnerability"}
	highSeverityWords     = []string{"error", "exception", "unable", "failed", "failure"}
	lowSeverityWords      = []string{"warning", "minor", "deprecated"}

	coreComponents = []string{"database", "security", "authentication", "payment", "core"}
)

// determineSeverity walks the low < medium < medium-high < high ladder:
// keyword match on the raw error sets the base, more than three affected
// components escalates one step, and a core component forces high.
func determineSeverity(errorRaw string, affectedComponents []string) string {
	severity := apimodels.SeverityMedium

	if errorRaw != "" {
		raw := strings.ToLower(errorRaw)
		switch {
		case containsAny(raw, criticalSeverityWords...):
			severity = apimodels.SeverityHigh
		case containsAny(raw, highSeverityWords...):
			severity = apimodels.SeverityMediumHigh
		case containsAny(raw, lowSeverityWords...):
			severity = apimodels.SeverityLow
		}
	}

	if len(affectedComponents) > 3 {
		switch severity {
		case apimodels.SeverityLow:
			severity = apimodels.SeverityMedium
		case apimodels.SeverityMedium:
			severity = apimodels.SeverityMediumHigh
		case apimodels.SeverityMediumHigh:
			severity = apimodels.SeverityHigh
		}
	}

	for _, component := range affectedComponents {
		if containsAny(strings.ToLower(component), coreComponents...) {
			return apimodels.SeverityHigh
		}
	}
	return severity
}

// relatedFactors flattens the causal chain, components and evidence into
// tagged, human-readable factors.
func relatedFactors(analysis *modelRootCause) []string {
	var factors []string
	for _, event := range analysis.CausalChain {
		factors = append(factors, "causal event: "+event)
	}
	for _, component := range analysis.AffectedComponents {
		factors = append(factors, "affected component: "+component)
	}
	for _, evidence := range analysis.Evidence {
		factors = append(factors, "supporting evidence: "+evidence)
	}
	return factors
}

func containsAny(s string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
