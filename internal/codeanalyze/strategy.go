package codeanalyze

// Strategy holds the per-language review heuristics: a cyclomatic
// complexity ceiling and the bug, performance and security patterns the
// semantic pass is asked to watch for.
type Strategy struct {
	ComplexityThreshold int
	CommonBugs          []string
	PerformancePatterns []string
	SecurityPatterns    []string
}

var strategies = map[string]Strategy{
	"python": {
		ComplexityThreshold: 10,
		CommonBugs: []string{
			"mutable default arguments",
			"late binding in closures",
			"unhandled None values",
			"mixing tabs and spaces",
		},
		PerformancePatterns: []string{
			"string concatenation in loops",
			"repeated attribute lookups in hot paths",
			"loading whole files into memory",
		},
		SecurityPatterns: []string{
			"use of eval or exec",
			"SQL built by string formatting",
			"pickle on untrusted input",
		},
	},
	"javascript": {
		ComplexityThreshold: 8,
		CommonBugs: []string{
			"== instead of ===",
			"accessing properties of undefined",
			"missing await on promises",
			"off-by-one array indexing",
		},
		PerformancePatterns: []string{
			"DOM access inside loops",
			"unnecessary re-renders",
			"synchronous blocking operations",
		},
		SecurityPatterns: []string{
			"innerHTML assignment from user input",
			"eval on dynamic strings",
			"unvalidated redirects",
		},
	},
	"java": {
		ComplexityThreshold: 12,
		CommonBugs: []string{
			"null pointer dereference",
			"== comparison on strings",
			"resource leaks without try-with-resources",
		},
		PerformancePatterns: []string{
			"string concatenation in loops",
			"autoboxing in tight loops",
			"excessive object allocation",
		},
		SecurityPatterns: []string{
			"SQL built by string concatenation",
			"deserialization of untrusted data",
			"hard-coded credentials",
		},
	},
}

// strategyFor returns the heuristics for a language, or a generic set
// when the language is unrecognized.
func strategyFor(language string) Strategy {
	if s, ok := strategies[language]; ok {
		return s
	}
	return Strategy{
		ComplexityThreshold: 10,
		CommonBugs:          []string{"unhandled edge cases", "incorrect error handling"},
		PerformancePatterns: []string{"inefficient loops", "redundant computation"},
		SecurityPatterns:    []string{"unvalidated input", "hard-coded secrets"},
	}
}
