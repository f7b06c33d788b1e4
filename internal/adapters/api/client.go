package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 1 << 20
)

// Client is the JSON gateway to the platform's admin API. Credentials travel
// as cookies in the attached jar; the transport retries a request once after
// a coordinated session refresh when it comes back 401.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	jar         http.CookieJar
	coordinator *RefreshCoordinator
	log         zerolog.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Jar carries the session cookies. A fresh in-memory jar is created when
	// nil.
	Jar http.CookieJar
	// OnSessionExpired runs once per failed refresh, before the failure is
	// propagated to callers.
	OnSessionExpired func()
	// Logger must be set; pass zerolog.Nop() to silence the client.
	Logger zerolog.Logger
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}

	jar := cfg.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: base,
		jar:     jar,
		log:     cfg.Logger,
	}

	// The refresh call bypasses the retrying transport so a 401 from the
	// refresh endpoint itself can never re-enter the coordinator.
	refreshClient := &http.Client{Jar: jar, Timeout: timeout}
	c.coordinator = NewRefreshCoordinator(func(ctx context.Context) error {
		return c.refreshSession(ctx, refreshClient)
	}, cfg.OnSessionExpired, cfg.Logger)

	c.http = &http.Client{
		Jar:     jar,
		Timeout: timeout,
		Transport: &refreshTransport{
			base:        http.DefaultTransport,
			coordinator: c.coordinator,
			jar:         jar,
			log:         cfg.Logger,
		},
	}
	return c, nil
}

// Coordinator exposes the session-refresh coordinator, mainly so tests can
// reset its in-flight state.
func (c *Client) Coordinator() *RefreshCoordinator {
	return c.coordinator
}

func (c *Client) refreshSession(ctx context.Context, client *http.Client) error {
	endpoint := c.baseURL.JoinPath(refreshPath).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("refresh session: %w", decodeAPIError(resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	return nil
}

// APIError is any non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: %w", method, path, decodeAPIError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
