package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSONObject is returned when a response carries no parseable JSON object.
var ErrNoJSONObject = errors.New("no valid JSON object found in response")

// thinkTagPattern matches <think>...</think> tags that may appear at the start of LLM responses.
var thinkTagPattern = regexp.MustCompile(`(?s)^[\s]*<think>.*?</think>[\s]*`)

// ExtractJSONObject pulls the first complete JSON object out of a model
// response that may contain <think> tags, markdown fences or prose around it.
func ExtractJSONObject(response string) (json.RawMessage, error) {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	trimmed := strings.TrimSpace(cleaned)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	// Scan every opening brace; prose before the payload may contain stray braces.
	for offset := 0; offset < len(cleaned); {
		idx := strings.IndexByte(cleaned[offset:], '{')
		if idx < 0 {
			break
		}
		start := offset + idx
		if obj, ok := extractBalanced(cleaned[start:], '{', '}'); ok && json.Valid([]byte(obj)) {
			return json.RawMessage(obj), nil
		}
		offset = start + 1
	}

	return nil, ErrNoJSONObject
}

// extractBalanced returns the balanced structure that starts at s[0].
// It tracks string literals so brackets inside strings are ignored.
func extractBalanced(s string, openChar, closeChar byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}
