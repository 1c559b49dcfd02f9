package apimodels

// InputKind tags a ParsedInput with the kind of raw material it came from.
type InputKind string

const (
	KindErrorMessage       InputKind = "error_message"
	KindCodeSnippet        InputKind = "code_snippet"
	KindProblemDescription InputKind = "problem_description"
	KindLogInfo            InputKind = "log_info"
)

// ParsedInput is one preprocessed input. RawContent is always set; the
// remaining fields depend on Kind.
type ParsedInput struct {
	Kind       InputKind `json:"kind"`
	RawContent string    `json:"raw_content"`

	// Error message fields.
	Category string `json:"category,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`

	// Code snippet fields.
	Language  string         `json:"language,omitempty"`
	Filename  string         `json:"filename,omitempty"`
	Context   string         `json:"context,omitempty"`
	Tokens    []TokenLine    `json:"tokens,omitempty"`
	Structure *CodeStructure `json:"structure,omitempty"`

	// Problem description fields.
	Keywords []string `json:"keywords,omitempty"`
	Summary  string   `json:"summary,omitempty"`

	// Log fields.
	Entries []LogEntry `json:"entries,omitempty"`
}

// TokenLine is one source line with its indentation depth.
type TokenLine struct {
	Line        int    `json:"line"`
	Content     string `json:"content"`
	Indentation int    `json:"indentation"`
}

// CodeStructure is a shallow structural sketch of a code snippet.
type CodeStructure struct {
	Functions []string `json:"functions"`
	Classes   []string `json:"classes"`
	Imports   []string `json:"imports"`
}

// LogEntry is a single parsed log line.
type LogEntry struct {
	Raw       string `json:"raw"`
	Timestamp string `json:"timestamp,omitempty"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message,omitempty"`
}

// AnalysisInputs holds the preprocessed inputs the pipeline consumes.
// A nil field means that input kind was not supplied.
type AnalysisInputs struct {
	ErrorMessage       *ParsedInput `json:"error_message,omitempty"`
	CodeSnippet        *ParsedInput `json:"code_snippet,omitempty"`
	ProblemDescription *ParsedInput `json:"problem_description,omitempty"`
	LogInfo            *ParsedInput `json:"log_info,omitempty"`
}

// Empty reports whether no input kind is present.
func (in AnalysisInputs) Empty() bool {
	return in.ErrorMessage == nil && in.CodeSnippet == nil &&
		in.ProblemDescription == nil && in.LogInfo == nil
}
