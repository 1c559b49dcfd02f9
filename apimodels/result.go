package apimodels

import "time"

// Analyses groups the per-stage outputs. A nil field means the stage did
// not run (missing input, disabled flag, or an earlier fault).
type Analyses struct {
	Error     *ErrorAnalysis `json:"error_analysis,omitempty"`
	Code      *CodeAnalysis  `json:"code_analysis,omitempty"`
	RootCause *RootCause     `json:"root_cause,omitempty"`
	Solution  *Solution      `json:"solution,omitempty"`
}

// Empty reports whether no stage produced output.
func (a Analyses) Empty() bool {
	return a.Error == nil && a.Code == nil && a.RootCause == nil && a.Solution == nil
}

// Metadata describes one pipeline run.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	DurationMS     int64     `json:"duration_ms"`
	ComponentsUsed []string  `json:"components_used"`
}

// PipelineError reports an unanticipated fault during orchestration.
// Completed stage results are preserved alongside it.
type PipelineError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Summary is the deterministic digest of an analysis run.
type Summary struct {
	Title               string   `json:"title"`
	ProblemIdentified   bool     `json:"problem_identified"`
	RootCauseIdentified bool     `json:"root_cause_identified"`
	SolutionProvided    bool     `json:"solution_provided"`
	KeyFindings         []string `json:"key_findings"`
	Recommendation      string   `json:"recommendation"`
}

// AnalysisResult is the complete outcome handed to renderers. It is
// structurally complete even when individual stages degraded or faulted.
type AnalysisResult struct {
	Inputs      AnalysisInputs `json:"inputs"`
	Analyses    Analyses       `json:"analyses"`
	SimilarBugs []SimilarBug   `json:"similar_bugs,omitempty"`
	Metadata    Metadata       `json:"metadata"`
	Error       *PipelineError `json:"error,omitempty"`
	Summary     Summary        `json:"summary"`
}
