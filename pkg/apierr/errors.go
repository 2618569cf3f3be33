package apierr

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/Goden-Gun/diary-client/pkg/codes"
)

const maxBodyInError = 256

// ResponseError is returned when the backend answered with a non-2xx status.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := string(e.Body)
	if len(body) > maxBodyInError {
		body = truncateUTF8(body, maxBodyInError) + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// TransportError is returned when no response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClassifiedError is the normalised view of a raw error. It is built fresh by
// Classify and owned by the caller.
type ClassifiedError struct {
	Kind    codes.Kind
	Message string
	// ValidationFields maps a request field to its first validation message.
	ValidationFields map[string]string
	// RetryAfter is zero when the server gave no hint.
	RetryAfter time.Duration
	// StatusCode is zero when no response was received.
	StatusCode int
	// RawCode is the envelope code exactly as sent, kept even when it did not
	// match the taxonomy.
	RawCode string
	Cause   error
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func (e ClassifiedError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the kind describes a transient condition.
func (e ClassifiedError) Retryable() bool {
	switch e.Kind {
	case codes.NetworkError, codes.Timeout, codes.ServerError, codes.ServiceUnavailable:
		return true
	}
	return false
}

// Auth reports whether the kind requires the user to sign in again.
func (e ClassifiedError) Auth() bool {
	switch e.Kind {
	case codes.AuthRequired, codes.AuthFailed, codes.TokenExpired:
		return true
	}
	return false
}

// New builds a ClassifiedError of kind with its default message.
func New(kind codes.Kind, cause error) ClassifiedError {
	if !kind.Valid() {
		kind = codes.Unknown
	}
	return ClassifiedError{Kind: kind, Message: codes.DefaultMessage(kind), Cause: cause}
}
