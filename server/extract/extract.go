// Package extract recovers a JSON object from raw model output. Models asked
// for JSON still occasionally wrap it in a markdown code fence or pad it with
// prose, so the extractor strips an optional fence and slices from the first
// '{' to the last '}' before parsing.
//
// This is a best-effort heuristic, not a balanced-brace parser. Using the
// last '}' in the whole text is correct for a single top-level object, but if
// the model emits explanatory prose containing a brace after the JSON block
// the candidate slice is over-long and the parse fails. That limitation is
// part of the contract; callers and tests rely on it.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedOutputError indicates that no JSON object could be recovered from
// the model's reply.
type MalformedOutputError struct {
	Reason string
	err    error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.err
}

// Extract parses the outermost JSON object from raw model output text.
// The returned value is whatever encoding/json produces for the candidate
// slice, normally a map[string]any.
func Extract(raw string) (any, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 {
		return nil, &MalformedOutputError{Reason: "No JSON object found"}
	}

	// end < start ("} ... {") yields an empty candidate, which fails the
	// parse below with the parser's own message.
	var candidate string
	if end >= start {
		candidate = s[start : end+1]
	}

	var out any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, &MalformedOutputError{Reason: err.Error(), err: err}
	}
	return out, nil
}
