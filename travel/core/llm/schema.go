package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports model output that could not be decoded into the
// caller's schema. It carries the raw content so callers can log it.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode llm response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeJSON extracts the JSON value from a model response and strictly
// unmarshals it into out. Models frequently wrap JSON in markdown fences or
// surround it with prose; both are stripped before decoding.
func DecodeJSON(content string, out any) error {
	cleaned := extractJSON(content)
	if cleaned == "" {
		return &DecodeError{Raw: content, Err: fmt.Errorf("no JSON value found in response")}
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &DecodeError{Raw: content, Err: err}
	}
	return nil
}

// extractJSON returns the outermost JSON object or array in content.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	// Prose around the value: find the first opening brace/bracket and its
	// matching close.
	objStart := strings.IndexAny(s, "{[")
	if objStart < 0 {
		return ""
	}
	open := s[objStart]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := objStart; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == open:
			depth++
		case !inString && c == close:
			depth--
			if depth == 0 {
				return s[objStart : i+1]
			}
		}
	}
	return s[objStart:]
}
