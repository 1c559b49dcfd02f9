package apimodels

// AnalysisRequest is the raw material a caller submits for diagnosis. Every
// field is optional, but at least one of the four inputs must be non-empty
// for the pipeline to do any work.
type AnalysisRequest struct {
	// ErrorMessage is the raw error output (traceback, stack trace, ...).
	ErrorMessage string `json:"error_message,omitempty"`

	// CodeSnippet is the suspect source code.
	CodeSnippet string `json:"code_snippet,omitempty"`

	// Filename gives extra context for the code snippet.
	Filename string `json:"filename,omitempty"`

	// CodeContext is free-text context around the snippet.
	CodeContext string `json:"code_context,omitempty"`

	// ProblemDescription is a free-text description of the defect.
	ProblemDescription string `json:"problem_description,omitempty"`

	// LogInfo is raw log output captured around the failure.
	LogInfo string `json:"log_info,omitempty"`
}

// Empty reports whether the request carries none of the recognized inputs.
func (r AnalysisRequest) Empty() bool {
	return r.ErrorMessage == "" && r.CodeSnippet == "" &&
		r.ProblemDescription == "" && r.LogInfo == ""
}
