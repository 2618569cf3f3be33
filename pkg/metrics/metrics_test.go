package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
)

func TestObserveRequest(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest(http.MethodGet, "/api/diaries/", 200, 20*time.Millisecond, nil)
	c.ObserveRequest(http.MethodGet, "/api/diaries/1/", 404, 10*time.Millisecond,
		&apierr.ResponseError{Method: http.MethodGet, URL: "/api/diaries/1/", StatusCode: 404})
	c.ObserveRequest(http.MethodPost, "/api/diaries/", 0, time.Second, context.DeadlineExceeded)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ErrorsTotal.WithLabelValues("NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ErrorsTotal.WithLabelValues("TIMEOUT")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.RequestDuration))
}

func TestObserveRetryAndPublish(t *testing.T) {
	c := NewCollector()
	c.ObserveRetry(1, time.Second, errors.New("boom"))
	c.ObserveRetry(2, 2*time.Second, errors.New("boom"))
	c.ObservePublish("diary.errors", time.Millisecond, nil)
	c.ObservePublish("diary.errors", time.Millisecond, errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RetriesTotal.WithLabelValues("UNKNOWN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReportsPublished.WithLabelValues("diary.errors", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReportsPublished.WithLabelValues("diary.errors", "error")))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveRetry(1, time.Second, context.DeadlineExceeded)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `diary_client_retries_total{kind="TIMEOUT"} 1`)
}
