package apierr

import (
	"errors"

	log "github.com/Goden-Gun/diary-client/pkg/logger"
)

const maxLoggedBody = 1024

// Logger is the capability LogError writes through. Call sites inject it so the
// library never decides on its own whether to log.
type Logger interface {
	Log(context string, fields map[string]any)
}

// NopLogger discards everything. It is the default for production builds.
type NopLogger struct{}

func (NopLogger) Log(string, map[string]any) {}

// LogrusLogger writes failures through the shared logrus backend.
type LogrusLogger struct {
	entry *log.Entry
}

// NewLogrusLogger adapts entry; a nil entry uses the standard logger.
func NewLogrusLogger(entry *log.Entry) *LogrusLogger {
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	return &LogrusLogger{entry: entry}
}

func (l *LogrusLogger) Log(context string, fields map[string]any) {
	l.entry.WithFields(log.Fields(fields)).Errorf("[%s] request failed", context)
}

// LogError classifies err and hands the result to l. A nil logger is a no-op.
func LogError(l Logger, err error, context string) {
	if l == nil || err == nil {
		return
	}
	if context == "" {
		context = "Error"
	}
	ce := Classify(err)
	fields := map[string]any{
		"code":    ce.Kind.String(),
		"message": ce.Message,
		"error":   err.Error(),
	}
	if ce.RawCode != "" && ce.RawCode != ce.Kind.String() {
		fields["raw_code"] = ce.RawCode
	}

	var resp *ResponseError
	var transport *TransportError
	switch {
	case errors.As(err, &resp):
		fields["method"] = resp.Method
		fields["url"] = resp.URL
		fields["status"] = resp.StatusCode
		fields["data"] = truncateUTF8(string(resp.Body), maxLoggedBody)
	case errors.As(err, &transport):
		fields["method"] = transport.Method
		fields["url"] = transport.URL
	}
	l.Log(context, fields)
}
