package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	signInPath       = "api/admin/auth/sign-in"
	googleSignInPath = "api/admin/auth/google-sign-in"
	refreshPath      = "api/admin/auth/refresh-token"
)

// refreshTransport retries a request exactly once after a coordinated
// session refresh when the backend answers 401. Requests against auth-entry
// endpoints are exempt: a 401 there means bad credentials, not a stale
// session.
type refreshTransport struct {
	base        http.RoundTripper
	coordinator *RefreshCoordinator
	jar         http.CookieJar
	log         zerolog.Logger
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if isAuthEntry(req.URL.Path) {
		return resp, nil
	}
	// A body without GetBody cannot be replayed.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	t.log.Debug().Str("path", req.URL.Path).Msg("got 401, refreshing session")
	drainAndClose(resp)

	if err := t.coordinator.Refresh(req.Context()); err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	// The jar updated during the refresh; the clone still carries the stale
	// cookie header.
	if t.jar != nil {
		retry.Header.Del("Cookie")
		for _, cookie := range t.jar.Cookies(retry.URL) {
			retry.AddCookie(cookie)
		}
	}

	// Issued against the base transport directly, so a second 401 propagates
	// instead of looping back through the coordinator.
	return t.base.RoundTrip(retry)
}

func isAuthEntry(path string) bool {
	for _, entry := range []string{signInPath, googleSignInPath, refreshPath} {
		if strings.HasSuffix(strings.TrimSuffix(path, "/"), entry) {
			return true
		}
	}
	return false
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()
}
