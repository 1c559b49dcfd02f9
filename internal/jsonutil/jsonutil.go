package jsonutil

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON document could be located in the text.
var ErrNoJSON = errors.New("jsonutil: no JSON document found")

// UnmarshalModelOutput decodes model-generated text into v. Models wrap
// JSON in markdown fences or prose more often than not, so a direct
// unmarshal is tried first and the first embedded JSON document second.
func UnmarshalModelOutput(text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}
	doc, err := ExtractDocument(trimmed)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc), v)
}

// ExtractDocument returns the first balanced JSON object or array embedded
// in text, after stripping markdown code fences.
func ExtractDocument(text string) (string, error) {
	text = stripFences(text)

	start := -1
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", ErrNoJSON
	}

	open := text[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

func stripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}
