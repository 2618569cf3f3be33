// Package apierr maps any error raised by a call to the diary backend onto the
// closed taxonomy in package codes.
//
// Classify is total: it accepts nil, foreign errors and malformed bodies, and
// always produces exactly one kind with a non-empty message. It has no side
// effects; LogError is the separate, optional logging helper.
package apierr

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Goden-Gun/diary-client/pkg/codes"
)

// Classify converts err into a ClassifiedError.
func Classify(err error) (ce ClassifiedError) {
	defer func() {
		// a foreign error whose Error/Unwrap panics still resolves to Unknown
		if r := recover(); r != nil {
			ce = New(codes.Unknown, err)
		}
	}()

	switch f := decode(err).(type) {
	case alreadyClassified:
		ce = f.err
		if !ce.Kind.Valid() {
			ce.Kind = codes.Unknown
		}
		if ce.Message == "" {
			ce.Message = codes.DefaultMessage(ce.Kind)
		}
		return ce

	case networkFailure:
		if f.timeout {
			return New(codes.Timeout, err)
		}
		return New(codes.NetworkError, err)

	case structuredFailure:
		kind := kindFromStatus(f.status)
		if f.env.Code != "" {
			kind = codes.Parse(f.env.Code)
		}
		ce = ClassifiedError{
			Kind:             kind,
			Message:          firstNonEmpty(f.env.Message, f.body.Message, f.body.Detail, codes.DefaultMessage(kind)),
			ValidationFields: f.env.Details,
			StatusCode:       f.status,
			RawCode:          f.env.Code,
			Cause:            err,
		}
		if f.env.RetryAfter != nil {
			ce.RetryAfter = secondsToDuration(*f.env.RetryAfter)
		} else {
			ce.RetryAfter = retryAfterHeader(f.header, time.Now())
		}
		return ce

	case httpFailure:
		kind := kindFromStatus(f.status)
		return ClassifiedError{
			Kind:       kind,
			Message:    firstNonEmpty(f.body.Error, f.body.Message, f.body.Detail, codes.DefaultMessage(kind)),
			StatusCode: f.status,
			RetryAfter: retryAfterHeader(f.header, time.Now()),
			Cause:      err,
		}

	default:
		return New(codes.Unknown, err)
	}
}

// IsAuthError reports whether err requires the user to sign in again.
func IsAuthError(err error) bool {
	return Classify(err).Auth()
}

// IsRetryableError reports whether err describes a transient condition worth retrying.
func IsRetryableError(err error) bool {
	return Classify(err).Retryable()
}

// Message returns the user-facing message for err.
func Message(err error) string {
	return Classify(err).Message
}

// ValidationErrors returns field level validation messages, nil when err carried none.
func ValidationErrors(err error) map[string]string {
	return Classify(err).ValidationFields
}

func kindFromStatus(status int) codes.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return codes.AuthRequired
	case status == http.StatusForbidden:
		return codes.PermissionDenied
	case status == http.StatusNotFound:
		return codes.NotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return codes.ValidationError
	case status == http.StatusTooManyRequests:
		return codes.RateLimitExceeded
	case status >= 500:
		return codes.ServerError
	default:
		return codes.Unknown
	}
}

func retryAfterHeader(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return secondsToDuration(secs)
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func secondsToDuration(secs float64) time.Duration {
	if secs <= 0 || math.IsNaN(secs) {
		return 0
	}
	if secs >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return codes.DefaultMessage(codes.Unknown)
}
