package client

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

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wolfeidau/asknalyze/internal/logger"
	"github.com/wolfeidau/asknalyze/internal/telemetry"
)

const (
	// RequestIDHeader carries a fresh UUID on every outgoing request.
	RequestIDHeader = "X-Request-Id"

	maxBodySize = 1 << 20
)

// ErrInvalidServerURL is returned by New when the server URL lacks a scheme or host.
var ErrInvalidServerURL = errors.New("invalid server url")

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	// CacheDir persists cacheable GET responses; empty keeps them in memory.
	CacheDir string
	// Tracing wraps the transport with OpenTelemetry spans.
	Tracing bool

	PingAttempts  uint
	RetryInterval time.Duration

	// RequestsPerSecond throttles outgoing calls; zero disables it.
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:         "http://localhost:9091",
		Timeout:           30 * time.Second,
		PingAttempts:      3,
		RetryInterval:     500 * time.Millisecond,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// Hooks installs request and response hooks on an http.Client.
type Hooks interface {
	InstallHTTPHooks(c *http.Client)
}

// Client calls the asknalyze auth API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	pingAttempts  uint
	retryInterval time.Duration
}

// New builds a client for cfg.ServerURL. The transport chain is, outermost
// first: hooks, request logging, rate limiting, tracing (when enabled),
// response cache. hooks may be nil.
func New(cfg Config, hooks Hooks) (*Client, error) {
	u, err := url.Parse(cfg.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidServerURL, cfg.ServerURL)
	}

	var transport http.RoundTripper = NewCachingTransport(cfg.CacheDir, nil)
	if cfg.Tracing {
		transport = otelhttp.NewTransport(transport)
	}
	transport = newRateLimitedTransport(cfg.RequestsPerSecond, cfg.Burst, transport)
	transport = logger.NewRequestLogger(log.Logger, transport)

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
	if hooks != nil {
		hooks.InstallHTTPHooks(httpClient)
	}

	attempts := cfg.PingAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &Client{
		baseURL:       strings.TrimRight(u.String(), "/"),
		httpClient:    httpClient,
		pingAttempts:  attempts,
		retryInterval: cfg.RetryInterval,
	}, nil
}

type apiResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (r apiResponse) check(status int) (string, error) {
	if !r.Success {
		return "", &APIError{StatusCode: status, Message: r.Message}
	}
	return r.Message, nil
}

// do sends in as JSON and decodes a 2xx body into out. Non-2xx responses
// become an *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	telemetry.RecordAPIRequest(ctx, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: messageFrom(data)}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// messageFrom pulls "message" out of a JSON error body, falling back to the
// raw text.
func messageFrom(data []byte) string {
	var r apiResponse
	if err := json.Unmarshal(data, &r); err == nil && r.Message != "" {
		return r.Message
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// Ping checks the auth service is reachable, retrying transport errors and
// 5xx responses with exponential backoff.
func (c *Client) Ping(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		b.InitialInterval = c.retryInterval
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		_, err := c.do(ctx, http.MethodGet, "/api/auth", nil, nil)
		if err == nil {
			return struct{}{}, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.pingAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			telemetry.RecordAPIRetry(ctx)
			log.Debug().Err(err).Dur("next", next).Msg("retrying ping")
		}),
	)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return nil
}
