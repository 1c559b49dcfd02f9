package apimodels

// Severity levels used across analyses. The ladder is ordered: low <
// medium < medium-high < high.
const (
	SeverityLow        = "low"
	SeverityMedium     = "medium"
	SeverityMediumHigh = "medium-high"
	SeverityHigh       = "high"
)

// Problem type labels produced by root-cause conclusion shaping.
const (
	ProblemTypeData         = "data"
	ProblemTypeLogic        = "logic"
	ProblemTypeSystem       = "system"
	ProblemTypeCode         = "code"
	ProblemTypeUnclassified = "unclassified"
)

// Unknown is the placeholder value for fields no analysis could fill.
const Unknown = "unknown"

// StackFrame is one frame extracted from an error trace.
type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Function string `json:"function,omitempty"`
}

// ErrorAnalysis is the merged rule-based + model-assisted view of an error.
type ErrorAnalysis struct {
	ErrorType     string       `json:"error_type"`
	ErrorLanguage string       `json:"error_language"`
	ErrorMessage  string       `json:"error_message"`
	StackTrace    []StackFrame `json:"stack_trace"`
	ErrorLocation *StackFrame  `json:"error_location,omitempty"`

	RootCauseSummary     string   `json:"root_cause_summary,omitempty"`
	Severity             string   `json:"severity,omitempty"`
	AffectedComponents   []string `json:"affected_components,omitempty"`
	CommonTriggers       []string `json:"common_triggers,omitempty"`
	EnvironmentalFactors []string `json:"environmental_factors,omitempty"`
	RelevantVariables    []string `json:"relevant_variables,omitempty"`

	// RawAnalysis preserves unparseable model output for audit.
	RawAnalysis string `json:"raw_analysis,omitempty"`
}

// SyntaxIssue is one problem flagged during the syntax pass.
type SyntaxIssue struct {
	IssueType     string `json:"issue_type"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	LineReference string `json:"line_reference,omitempty"`
}

// StructureReport summarizes code shape from the syntax pass.
type StructureReport struct {
	ComplexityScore  int      `json:"complexity_score"`
	MainComponents   []string `json:"main_components"`
	StructureQuality string   `json:"structure_quality"`
	StructureIssues  []string `json:"structure_issues"`
}

// StyleReport captures style-consistency flags from the syntax pass.
type StyleReport struct {
	NamingConvention string `json:"naming_convention"`
	Indentation      string `json:"indentation"`
	CommentQuality   string `json:"comment_quality"`
}

// SyntaxAnalysis is the full result of the syntax pass.
type SyntaxAnalysis struct {
	SyntaxIssues []SyntaxIssue   `json:"syntax_issues"`
	Structure    StructureReport `json:"code_structure"`
	Style        StyleReport     `json:"style_consistency"`
	RawAnalysis  string          `json:"raw_analysis,omitempty"`
}

// LogicIssue is one flaw in the code's logic.
type LogicIssue struct {
	Issue    string `json:"issue"`
	Impact   string `json:"impact,omitempty"`
	Severity string `json:"severity"`
}

// LogicAnalysis describes intent and flow of the analyzed code.
type LogicAnalysis struct {
	Purpose     string       `json:"purpose"`
	LogicFlow   string       `json:"logic_flow"`
	EdgeCases   []string     `json:"edge_cases"`
	LogicIssues []LogicIssue `json:"logic_issues"`
}

// PotentialBug is a defect the semantic pass suspects.
type PotentialBug struct {
	BugType       string `json:"bug_type"`
	Description   string `json:"description"`
	LikelyOutcome string `json:"likely_outcome,omitempty"`
	FixSuggestion string `json:"fix_suggestion,omitempty"`
}

// PerformanceIssue is a performance hazard in the analyzed code.
type PerformanceIssue struct {
	Issue        string `json:"issue"`
	Impact       string `json:"impact,omitempty"`
	Optimization string `json:"optimization,omitempty"`
}

// SecurityConcern is a security hazard in the analyzed code.
type SecurityConcern struct {
	Vulnerability string `json:"vulnerability"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	Mitigation    string `json:"mitigation,omitempty"`
}

// SemanticAnalysis is the full result of the semantic pass.
type SemanticAnalysis struct {
	Logic             LogicAnalysis      `json:"logic_analysis"`
	PotentialBugs     []PotentialBug     `json:"potential_bugs"`
	PerformanceIssues []PerformanceIssue `json:"performance_issues"`
	SecurityConcerns  []SecurityConcern  `json:"security_concerns"`
	RawAnalysis       string             `json:"raw_analysis,omitempty"`
}

// QualityAssessment carries the deterministic code-quality verdict.
type QualityAssessment struct {
	OverallScore int      `json:"overall_score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// Suggestion is one improvement recommendation.
type Suggestion struct {
	Area        string `json:"area"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// CodeAnalysis is the combined result over both code-analysis passes.
type CodeAnalysis struct {
	Quality           QualityAssessment  `json:"code_quality"`
	PotentialBugs     []PotentialBug     `json:"potential_bugs"`
	PerformanceIssues []PerformanceIssue `json:"performance_issues"`
	SecurityConcerns  []SecurityConcern  `json:"security_concerns"`
	Suggestions       []Suggestion       `json:"improvement_suggestions"`
}

// CauseCategory is one of the four fixed root-cause classes.
type CauseCategory string

const (
	CauseData   CauseCategory = "data"
	CauseLogic  CauseCategory = "logic"
	CauseSystem CauseCategory = "system"
	CauseCode   CauseCategory = "code"
)

// CauseCategories lists the four classes in canonical order.
func CauseCategories() []CauseCategory {
	return []CauseCategory{CauseData, CauseLogic, CauseSystem, CauseCode}
}

// CauseScores maps each cause category to its weight. Weights sum to 1.0,
// or are uniformly 0.25 when no signal exists.
type CauseScores map[CauseCategory]float64

// KeyLogEvent is one notable event extracted from submitted logs.
type KeyLogEvent struct {
	Timestamp string `json:"timestamp,omitempty"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
}

// RootCauseUndetermined is the fallback root-cause text when causal
// synthesis produced nothing usable.
const RootCauseUndetermined = "undetermined"

// RootCause is the shaped conclusion of root-cause inference.
type RootCause struct {
	RootCause             string      `json:"root_cause"`
	Explanation           string      `json:"explanation"`
	ProblemType           string      `json:"problem_type"`
	Severity              string      `json:"severity"`
	CausalChain           []string    `json:"causal_chain"`
	AffectedComponents    []string    `json:"affected_components"`
	RelatedFactors        []string    `json:"related_factors"`
	Evidence              []string    `json:"evidence,omitempty"`
	ConfidenceLevel       int         `json:"confidence_level"`
	ConfidenceExplanation string      `json:"confidence_explanation,omitempty"`
	CauseScores           CauseScores `json:"cause_scores,omitempty"`
}

// Undetermined reports whether this is the no-signal fallback conclusion.
func (rc *RootCause) Undetermined() bool {
	return rc == nil || rc.RootCause == RootCauseUndetermined || rc.RootCause == ""
}

// CodeChange is one original/fixed/explanation triple in a solution.
type CodeChange struct {
	File         string `json:"file"`
	OriginalCode string `json:"original_code"`
	FixedCode    string `json:"fixed_code"`
	Explanation  string `json:"explanation"`
}

// FixStrategy is the deterministic plan the solution synthesis follows.
type FixStrategy struct {
	Approach         string   `json:"approach"`
	Strategies       []string `json:"strategies"`
	Difficulty       string   `json:"difficulty"`
	EstimatedImpact  string   `json:"estimated_impact"`
	TargetComponents []string `json:"target_components,omitempty"`
	LanguagePatterns []string `json:"language_patterns,omitempty"`
}

// Solution is the generated fix proposal. When the model reply could not
// be decoded, RawSolution carries the text and every structured field is
// empty; such a solution is never enhanced.
type Solution struct {
	Summary              string       `json:"solution_summary"`
	FixSteps             []string     `json:"fix_steps"`
	CodeChanges          []CodeChange `json:"code_changes"`
	Explanation          string       `json:"explanation"`
	PreventionTips       []string     `json:"prevention_tips"`
	AlternativeSolutions []string     `json:"alternative_solutions"`
	RawSolution          string       `json:"raw_solution,omitempty"`
	Strategy             *FixStrategy `json:"strategy,omitempty"`
}

// Degraded reports whether this is the raw-fallback shape.
func (s *Solution) Degraded() bool {
	return s == nil || s.RawSolution != ""
}

// SimilarBug is one knowledge-base match.
type SimilarBug struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Solution    string  `json:"solution"`
	Similarity  float64 `json:"similarity"`
}
