// Package api is the diary backend client. Every call goes through one
// pipeline: bearer token, per-attempt deadline, retry with backoff for
// idempotent methods, classification, logging and optional error reporting.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/auth"
	"github.com/Goden-Gun/diary-client/pkg/codes"
	"github.com/Goden-Gun/diary-client/pkg/envelope"
	"github.com/Goden-Gun/diary-client/pkg/logger"
	"github.com/Goden-Gun/diary-client/pkg/retry"
	"github.com/Goden-Gun/diary-client/pkg/tracing"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	maxResponseBody = 10 << 20
)

var (
	// ErrNoToken is the cause of the AuthRequired error returned when an
	// authenticated endpoint is called without a stored token.
	ErrNoToken = errors.New("api: no access token stored")
	// ErrTokenExpired is the cause of the TokenExpired error returned when the
	// stored token's exp claim has passed.
	ErrTokenExpired = errors.New("api: stored access token expired")
)

// RequestObserver is an optional hook to observe finished calls, retries
// included in duration.
type RequestObserver interface {
	ObserveRequest(method, path string, status int, duration time.Duration, err error)
}

// ErrorReporter receives every failed call. *report.Reporter satisfies it.
type ErrorReporter interface {
	Report(ctx context.Context, context string, err error) error
}

type Options struct {
	BaseURL string
	// Timeout bounds each attempt, not the whole retried call.
	Timeout   time.Duration
	UserAgent string
	Tokens    auth.TokenStore
	// ClockSkew is subtracted from a stored token's expiry.
	ClockSkew time.Duration
	// Retry is applied on top of retry.DefaultPolicy for idempotent methods.
	Retry []retry.Option
	// RetryUnsafe also retries POST requests.
	RetryUnsafe bool
	Logger      apierr.Logger
	Observer    RequestObserver
	Reporter    ErrorReporter
	HTTPClient  *http.Client
}

type Client struct {
	baseURL *url.URL
	opts    Options
	http    *http.Client
	tokens  auth.TokenStore
	logger  apierr.Logger
	now     func() time.Time
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "diary-client"
	}
	c := &Client{
		baseURL: base,
		opts:    opts,
		http:    opts.HTTPClient,
		tokens:  opts.Tokens,
		logger:  opts.Logger,
		now:     time.Now,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.tokens == nil {
		c.tokens = auth.NewMemoryTokenStore("")
	}
	if c.logger == nil {
		c.logger = apierr.NopLogger{}
	}
	return c, nil
}

// Tokens returns the store the client reads its bearer token from.
func (c *Client) Tokens() auth.TokenStore {
	return c.tokens
}

func (c *Client) Diaries() *DiaryService {
	return &DiaryService{c: c}
}

func (c *Client) Speech() *SpeechService {
	return &SpeechService{c: c}
}

func (c *Client) Auth() *AuthService {
	return &AuthService{c: c}
}

// Ping calls the connection test endpoint.
func (c *Client) Ping(ctx context.Context) (ConnectionStatus, error) {
	var status ConnectionStatus
	err := c.do(ctx, call{name: "Ping", method: http.MethodGet, path: "/api/test/connection/"}, &status)
	return status, err
}

// call describes one logical request.
type call struct {
	// name is the logging and reporting context
	name   string
	method string
	path   string
	query  url.Values
	// body is JSON encoded unless raw is set
	body        any
	raw         []byte
	contentType string
	// authed calls require a stored, unexpired token
	authed  bool
	timeout time.Duration
	// timeoutMessage overrides the default "Timeout after {ms}ms"
	timeoutMessage string
}

func (c *Client) do(ctx context.Context, rc call, out any) (err error) {
	start := time.Now()
	ctx, span := tracing.StartRequest(ctx, rc.method, rc.path)
	var status int
	defer func() {
		kind := ""
		if err != nil {
			kind = string(apierr.Classify(err).Kind)
		}
		tracing.EndRequest(span, status, kind, err)
		if c.opts.Observer != nil {
			c.opts.Observer.ObserveRequest(rc.method, rc.path, status, time.Since(start), err)
		}
	}()

	status, err = c.execute(ctx, rc, out)
	if err != nil {
		c.fail(ctx, rc, err)
	}
	return err
}

// execute returns the status of the last response received, zero when none
// arrived.
func (c *Client) execute(ctx context.Context, rc call, out any) (int, error) {
	var token string
	if rc.authed {
		t, err := c.bearer(ctx)
		if err != nil {
			return 0, err
		}
		token = t
	}

	payload := rc.raw
	if payload == nil && rc.body != nil {
		b, err := json.Marshal(rc.body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", rc.name, err)
		}
		payload = b
	}

	timeout := rc.timeout
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	requestID := envelope.NewRequestID()
	attempt := func(ctx context.Context) (response, error) {
		return retry.WithTimeout(ctx, timeout, func(ctx context.Context) (response, error) {
			return c.send(ctx, rc, payload, token, requestID)
		}, rc.timeoutMessage)
	}

	var (
		resp response
		err  error
	)
	if c.retryable(rc.method) {
		resp, err = retry.Do(ctx, attempt, c.retryOptions(rc)...)
	} else {
		resp, err = attempt(ctx)
	}
	if err != nil {
		return apierr.Classify(err).StatusCode, err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return resp.status, nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return resp.status, fmt.Errorf("decode %s response: %w", rc.name, err)
	}
	return resp.status, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, rc call, payload []byte, token, requestID string) (response, error) {
	u := c.resolve(rc.path, rc.query)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, u, reader)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set(envelope.RequestIDHeader, requestID)
	if payload != nil {
		ct := rc.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	tracing.InjectHeaders(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, &apierr.TransportError{Method: rc.method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return response{}, &apierr.TransportError{Method: rc.method, URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, &apierr.ResponseError{
			Method:     rc.method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
	}
	return response{status: resp.StatusCode, body: body}, nil
}

// bearer loads the stored token, failing fast when it is missing or expired.
func (c *Client) bearer(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx)
	if errors.Is(err, auth.ErrTokenNotFound) || (err == nil && token == "") {
		return "", apierr.New(codes.AuthRequired, ErrNoToken)
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if auth.Expired(token, c.opts.ClockSkew, c.now()) {
		if rmErr := c.tokens.Remove(ctx); rmErr != nil {
			logger.WithTrace(ctx).WithError(rmErr).Warn("remove expired token failed")
		}
		return "", apierr.New(codes.TokenExpired, ErrTokenExpired)
	}
	return token, nil
}

func (c *Client) retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	case http.MethodPost:
		return c.opts.RetryUnsafe
	}
	return false
}

func (c *Client) retryOptions(rc call) []retry.Option {
	opts := make([]retry.Option, 0, len(c.opts.Retry)+1)
	opts = append(opts, retry.WithOnRetry(func(err error, attempt int) {
		logger.Component("api").WithFields(logger.Fields{
			"call":    rc.name,
			"attempt": attempt,
			"kind":    apierr.Classify(err).Kind,
		}).Debug("retrying request")
	}))
	return append(opts, c.opts.Retry...)
}

// fail runs the side effects of a failed call. Only calls that sent the token
// can invalidate it; a rejected login keeps the current session.
func (c *Client) fail(ctx context.Context, rc call, err error) {
	apierr.LogError(c.logger, err, rc.name)
	if rc.authed && apierr.IsAuthError(err) {
		if rmErr := c.tokens.Remove(ctx); rmErr != nil {
			logger.WithTrace(ctx).WithError(rmErr).Warn("remove token after auth failure failed")
		}
	}
	if c.opts.Reporter != nil {
		if repErr := c.opts.Reporter.Report(ctx, rc.name, err); repErr != nil {
			logger.WithTrace(ctx).WithError(repErr).Debug("error report dropped")
		}
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
