// Package inputs preprocesses raw request material into the tagged,
// structured inputs the analysis pipeline consumes.
package inputs

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fixwise/fixwise/apimodels"
)

// Process converts a raw request into pipeline inputs. Inputs that are
// not present in the request stay nil.
func Process(req apimodels.AnalysisRequest) apimodels.AnalysisInputs {
	var in apimodels.AnalysisInputs
	if req.ErrorMessage != "" {
		in.ErrorMessage = ProcessErrorMessage(req.ErrorMessage)
	}
	if req.CodeSnippet != "" {
		in.CodeSnippet = ProcessCodeSnippet(req.CodeSnippet, req.Filename, req.CodeContext)
	}
	if req.ProblemDescription != "" {
		in.ProblemDescription = ProcessProblemDescription(req.ProblemDescription)
	}
	if req.LogInfo != "" {
		in.LogInfo = ProcessLogInfo(req.LogInfo)
	}
	return in
}

var (
	lineRe = regexp.MustCompile(`line (\d+)`)
	fileRe = regexp.MustCompile(`File ["'](.+?)["']`)
)

// ProcessErrorMessage assigns a coarse category and pulls out the first
// file/line reference.
func ProcessErrorMessage(errorMessage string) *apimodels.ParsedInput {
	in := &apimodels.ParsedInput{
		Kind:       apimodels.KindErrorMessage,
		RawContent: errorMessage,
	}

	switch {
	case strings.Contains(errorMessage, "Syntax"):
		in.Category = "syntax_error"
	case strings.Contains(errorMessage, "TypeError"):
		in.Category = "type_error"
	case strings.Contains(errorMessage, "ReferenceError"):
		in.Category = "reference_error"
	case strings.Contains(errorMessage, "Exception"):
		in.Category = "exception"
	default:
		in.Category = "unknown_error"
	}

	if m := lineRe.FindStringSubmatch(errorMessage); m != nil {
		in.Line, _ = strconv.Atoi(m[1])
	}
	if m := fileRe.FindStringSubmatch(errorMessage); m != nil {
		in.File = m[1]
	}
	return in
}

// ProcessCodeSnippet detects the language and extracts token lines plus a
// shallow structural sketch.
func ProcessCodeSnippet(code, filename, context string) *apimodels.ParsedInput {
	language := DetectLanguage(code)
	return &apimodels.ParsedInput{
		Kind:       apimodels.KindCodeSnippet,
		RawContent: code,
		Language:   language,
		Filename:   filename,
		Context:    context,
		Tokens:     tokenize(code),
		Structure:  extractStructure(code, language),
	}
}

// DetectLanguage guesses the snippet's language from surface features.
func DetectLanguage(code string) string {
	switch {
	case strings.Contains(code, "import ") && (strings.Contains(code, "def ") || strings.Contains(code, "class ")):
		return "python"
	case strings.Contains(code, "{") && strings.Contains(code, "function"):
		return "javascript"
	case strings.Contains(code, "{") && (strings.Contains(code, "public") || strings.Contains(code, "private") || strings.Contains(code, "class")):
		return "java"
	case strings.Contains(code, "#include"):
		return "c++"
	default:
		return apimodels.Unknown
	}
}

func tokenize(code string) []apimodels.TokenLine {
	lines := strings.Split(code, "\n")
	tokens := make([]apimodels.TokenLine, 0, len(lines))
	for i, line := range lines {
		tokens = append(tokens, apimodels.TokenLine{
			Line:        i + 1,
			Content:     line,
			Indentation: len(line) - len(strings.TrimLeft(line, " \t")),
		})
	}
	return tokens
}

func extractStructure(code, language string) *apimodels.CodeStructure {
	structure := &apimodels.CodeStructure{
		Functions: []string{},
		Classes:   []string{},
		Imports:   []string{},
	}
	if language != "python" {
		return structure
	}

	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "def "):
			name := strings.SplitN(strings.TrimPrefix(line, "def "), "(", 2)[0]
			structure.Functions = append(structure.Functions, strings.TrimSpace(name))
		case strings.HasPrefix(line, "class "):
			name := strings.TrimPrefix(line, "class ")
			name = strings.SplitN(name, "(", 2)[0]
			name = strings.SplitN(name, ":", 2)[0]
			structure.Classes = append(structure.Classes, strings.TrimSpace(name))
		case strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "from "):
			structure.Imports = append(structure.Imports, line)
		}
	}
	return structure
}

var problemStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "and": {}, "with": {},
}

// ProcessProblemDescription extracts the most frequent keywords and a
// short summary.
func ProcessProblemDescription(description string) *apimodels.ParsedInput {
	return &apimodels.ParsedInput{
		Kind:       apimodels.KindProblemDescription,
		RawContent: description,
		Keywords:   extractKeywords(description),
		Summary:    summarize(description),
	}
}

func extractKeywords(text string) []string {
	counts := map[string]int{}
	order := map[string]int{}
	for i, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if len(word) <= 2 {
			continue
		}
		if _, stop := problemStopwords[word]; stop {
			continue
		}
		if _, seen := counts[word]; !seen {
			order[word] = i
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})
	if len(words) > 10 {
		words = words[:10]
	}
	return words
}

func summarize(text string) string {
	if len(text) <= 200 {
		return text
	}
	return text[:197] + "..."
}

var (
	timestampRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}[T\s]\d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`(?i)\b(ERROR|WARNING|WARN|INFO|DEBUG|CRITICAL)\b`)
)

// ProcessLogInfo parses log lines into timestamp/level/message entries.
func ProcessLogInfo(logText string) *apimodels.ParsedInput {
	lines := strings.Split(strings.TrimSpace(logText), "\n")
	entries := make([]apimodels.LogEntry, 0, len(lines))
	for _, line := range lines {
		entry := apimodels.LogEntry{Raw: line}
		rest := line
		if m := timestampRe.FindStringSubmatch(line); m != nil {
			entry.Timestamp = m[1]
			rest = strings.Replace(rest, m[1], "", 1)
		}
		if m := levelRe.FindStringSubmatch(line); m != nil {
			entry.Level = strings.ToUpper(m[1])
			rest = strings.Replace(rest, m[0], "", 1)
		}
		if entry.Timestamp != "" || entry.Level != "" {
			entry.Message = strings.Trim(rest, " -:[]\t")
		}
		entries = append(entries, entry)
	}
	return &apimodels.ParsedInput{
		Kind:       apimodels.KindLogInfo,
		RawContent: logText,
		Entries:    entries,
	}
}
