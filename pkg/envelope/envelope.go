// Package envelope decodes the JSON bodies the diary backend sends with failed
// responses and stamps outgoing requests with correlation identifiers.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the client generated correlation id.
const RequestIDHeader = "X-Request-ID"

// Error is the structured API error envelope:
//
//	{"success": false, "error": "...", "code": "VALIDATION_ERROR", "details": {...}, "retry_after": 30}
type Error struct {
	Message string
	Code    string
	// Details holds field level validation messages. Array values are reduced to
	// their first element. Nil when the envelope carried no object-shaped details.
	Details map[string]string
	// RetryAfter is the server hint in seconds, nil when absent.
	RetryAfter *float64
}

// Body is a lenient view over any response body.
type Body struct {
	// Envelope is set only when the body matches the structured error shape.
	Envelope *Error
	// Legacy shapes used by older endpoints.
	Error   string
	Message string
	Detail  string
}

// Empty reports whether nothing usable was found in the body.
func (b Body) Empty() bool {
	return b.Envelope == nil && b.Error == "" && b.Message == "" && b.Detail == ""
}

// Decode inspects raw as a JSON object. It never fails: bodies that are not JSON
// objects produce an empty Body.
func Decode(raw []byte) Body {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Body{}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Body{}
	}

	var b Body
	b.Error = stringField(fields, "error")
	b.Message = stringField(fields, "message")
	b.Detail = stringField(fields, "detail")

	if !isEnvelope(fields) {
		return b
	}
	env := &Error{
		Message: b.Error,
		Code:    stringField(fields, "code"),
		Details: decodeDetails(fields["details"]),
	}
	if rawRetry, ok := fields["retry_after"]; ok {
		var secs float64
		if err := json.Unmarshal(rawRetry, &secs); err == nil && secs >= 0 {
			env.RetryAfter = &secs
		}
	}
	b.Envelope = env
	return b
}

// isEnvelope mirrors the backend contract: success must be literally false and an
// error field must be present.
func isEnvelope(fields map[string]json.RawMessage) bool {
	rawSuccess, ok := fields["success"]
	if !ok {
		return false
	}
	var success bool
	if err := json.Unmarshal(rawSuccess, &success); err != nil || success {
		return false
	}
	_, ok = fields["error"]
	return ok
}

func decodeDetails(raw json.RawMessage) map[string]string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var entries map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	out := make(map[string]string, len(entries))
	for field, value := range entries {
		switch v := value.(type) {
		case string:
			out[field] = v
		case []any:
			if len(v) == 0 {
				continue
			}
			if s, ok := v[0].(string); ok {
				out[field] = s
			} else if v[0] != nil {
				out[field] = fmt.Sprint(v[0])
			}
		}
	}
	return out
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// NewRequestID returns a fresh correlation id for an outgoing request.
func NewRequestID() string {
	return uuid.NewString()
}
