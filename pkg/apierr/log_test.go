package apierr

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	context string
	fields  map[string]any
	calls   int
}

func (r *recordingLogger) Log(context string, fields map[string]any) {
	r.calls++
	r.context = context
	r.fields = fields
}

func TestLogErrorResponseFields(t *testing.T) {
	rec := &recordingLogger{}
	err := response(422, `{"success": false, "error": "bad title", "code": "VALIDATION_ERROR"}`)

	LogError(rec, err, "CreateDiary")

	require.Equal(t, 1, rec.calls)
	require.Equal(t, "CreateDiary", rec.context)
	require.Equal(t, "VALIDATION_ERROR", rec.fields["code"])
	require.Equal(t, "bad title", rec.fields["message"])
	require.Equal(t, 422, rec.fields["status"])
	require.Equal(t, "GET", rec.fields["method"])
	require.NotContains(t, rec.fields, "raw_code")
}

func TestLogErrorTruncatesBodyOnRuneBoundary(t *testing.T) {
	rec := &recordingLogger{}
	err := response(500, "xy"+strings.Repeat("오늘의 일기", 200))

	LogError(rec, err, "ListDiaries")

	data, ok := rec.fields["data"].(string)
	require.True(t, ok)
	require.LessOrEqual(t, len(data), maxLoggedBody)
	require.True(t, utf8.ValidString(data))
	require.True(t, strings.HasPrefix(data, "xy오늘의"))
}

func TestLogErrorDefaults(t *testing.T) {
	rec := &recordingLogger{}
	LogError(rec, &TransportError{Method: "POST", URL: "http://x/api/token/", Err: errors.New("refused")}, "")
	require.Equal(t, "Error", rec.context)
	require.Equal(t, "NETWORK_ERROR", rec.fields["code"])
	require.Equal(t, "http://x/api/token/", rec.fields["url"])

	LogError(rec, nil, "ignored")
	LogError(nil, errors.New("x"), "ignored")
	NopLogger{}.Log("x", nil)
	require.Equal(t, 1, rec.calls)
}

func TestLogErrorUnknownCodeKeepsRaw(t *testing.T) {
	rec := &recordingLogger{}
	LogError(rec, response(400, `{"success": false, "error": "?", "code": "BRAND_NEW"}`), "x")
	require.Equal(t, "UNKNOWN", rec.fields["code"])
	require.Equal(t, "BRAND_NEW", rec.fields["raw_code"])
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	LogError(NewLogrusLogger(logrus.NewEntry(base)), response(500, ""), "ListDiaries")

	out := buf.String()
	require.Contains(t, out, `"code":"SERVER_ERROR"`)
	require.Contains(t, out, "[ListDiaries] request failed")
	require.NotNil(t, NewLogrusLogger(nil))
}
