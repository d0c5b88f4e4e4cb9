package mission

import (
	"encoding/json"
	"strings"
)

// ParseFailure means the completion text was not a well-formed JSON object.
type ParseFailure struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseFailure) Error() string {
	if e.Err != nil {
		return "parse failure: " + e.Reason + ": " + e.Err.Error()
	}
	return "parse failure: " + e.Reason
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// Decode turns completion text into an untyped document. The text must be a
// single JSON object, optionally wrapped in one markdown code fence.
// Trailing text after the object is rejected.
func Decode(raw string) (map[string]any, error) {
	text := stripFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, &ParseFailure{Reason: "empty completion", Raw: short(raw)}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &ParseFailure{Reason: "malformed json", Raw: short(raw), Err: err}
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseFailure{Reason: "top-level value is not an object", Raw: short(raw)}
	}
	return doc, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(body, '\n')
	if nl == -1 {
		return s
	}
	// drop the opening fence line, including any language tag
	return strings.TrimSpace(body[nl+1:])
}

func short(s string) string {
	if len(s) > 180 {
		return s[:180] + "..."
	}
	return s
}
