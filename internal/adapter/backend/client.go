// Package backend talks to the remote restaurant REST API. It is the system of
// record for menu, orders, expenses and manual movements.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/iho/restoledger/internal/domain"
)

// errNotFound is wrapped by StatusError for 404 responses. Repositories turn
// it into the matching domain error.
var errNotFound = errors.New("backend resource not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.Code)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return errNotFound
	}
	return domain.ErrBackendUnavailable
}

// Observer receives one call per backend round trip.
type Observer interface {
	ObserveBackendRequest(method, endpoint string, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveBackendRequest(string, string, int, time.Duration) {}

// Config configures the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	ForceHTTPS bool
	MaxRetries int
}

// Client is a thin JSON client for the restaurant backend.
type Client struct {
	http     *resty.Client
	retrier  *Retrier
	observer Observer
	logger   zerolog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg Config, logger zerolog.Logger, observer Observer) (*Client, error) {
	base, err := NormalizeBaseURL(cfg.BaseURL, cfg.ForceHTTPS)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if observer == nil {
		observer = nopObserver{}
	}

	logger = logger.With().Str("component", "backend").Logger()

	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:     rc,
		retrier:  NewRetrier(cfg.MaxRetries, logger),
		observer: observer,
		logger:   logger,
	}, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// NormalizeBaseURL cleans up a configured backend URL: surrounding spaces are
// trimmed, a scheme-relative "//host" gets https, forceHTTPS upgrades http,
// and trailing slashes are removed.
func NormalizeBaseURL(raw string, forceHTTPS bool) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("backend URL is empty")
	}
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	if forceHTTPS && strings.HasPrefix(strings.ToLower(s), "http://") {
		s = "https://" + s[len("http://"):]
	}
	s = strings.TrimRight(s, "/")

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q", raw)
	}
	return s, nil
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/menu", nil, nil)
}

// get runs an idempotent GET with retries and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.retrier.Retry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	})
}

// send runs a single mutating request. Writes are never retried.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		c.observer.ObserveBackendRequest(method, endpoint(path), 0, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	c.observer.ObserveBackendRequest(method, endpoint(path), resp.StatusCode(), elapsed)
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", elapsed).
		Msg("backend request")

	if !resp.IsSuccess() {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode()}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &decodeError{path: path, err: err}
	}
	return nil
}

type decodeError struct {
	path string
	err  error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.path, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }

// endpoint collapses numeric path segments so metric labels stay bounded.
func endpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
