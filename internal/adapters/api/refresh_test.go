package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klyve/vodctl/internal/domain"
)

// protectedBackend answers /protected with 200 only when the session cookie
// is fresh, and rotates the cookie on /api/admin/auth/refresh-token.
func protectedBackend(t *testing.T, refreshStatus int) (*httptest.Server, *atomic.Int32, *atomic.Int32) {
	t.Helper()

	var refreshCalls, protectedCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		if refreshStatus != http.StatusOK {
			w.WriteHeader(refreshStatus)
			_, _ = w.Write([]byte(`{"message":"refresh token expired"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "fresh", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		protectedCalls.Add(1)
		if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value == "fresh" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &refreshCalls, &protectedCalls
}

func newTestClient(t *testing.T, baseURL string, onExpired func()) *Client {
	t.Helper()

	client, err := New(Config{BaseURL: baseURL, OnSessionExpired: onExpired, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client
}

func TestConcurrentUnauthorizedRequestsShareOneRefresh(t *testing.T) {
	t.Parallel()

	server, refreshCalls, _ := protectedBackend(t, http.StatusOK)
	client := newTestClient(t, server.URL, nil)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				OK bool `json:"ok"`
			}
			errs[i] = client.do(context.Background(), http.MethodGet, "protected", nil, nil, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestRetriedRequestIsNotRetriedTwice(t *testing.T) {
	t.Parallel()

	var refreshCalls, protectedCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, _ *http.Request) {
		protectedCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "protected", nil, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), protectedCalls.Load())
}

func TestRefreshFailurePropagatesToAllCallers(t *testing.T) {
	t.Parallel()

	server, refreshCalls, _ := protectedBackend(t, http.StatusUnauthorized)

	var expired atomic.Int32
	client := newTestClient(t, server.URL, func() { expired.Add(1) })

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.do(context.Background(), http.MethodGet, "protected", nil, nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.ErrorIs(t, err, domain.ErrSessionExpired, "caller %d", i)
	}
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestAuthEntryRequestsBypassRefresh(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/admin/auth/sign-in", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	expired := false
	client := newTestClient(t, server.URL, func() { expired = true })

	_, err := client.SignIn(context.Background(), "admin@example.com", "nope")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, expired)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestNonAuthFailuresPassThrough(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "protected", nil, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestCoordinatorResetReleasesWaiters(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	coordinator := NewRefreshCoordinator(func(context.Context) error {
		close(started)
		<-release
		return nil
	}, nil, testLogger())

	winner := make(chan error, 1)
	go func() { winner <- coordinator.Refresh(context.Background()) }()
	<-started

	waiter := make(chan error, 1)
	go func() { waiter <- coordinator.Refresh(context.Background()) }()

	// Give the waiter a moment to queue before resetting.
	require.Eventually(t, func() bool {
		coordinator.mu.Lock()
		defer coordinator.mu.Unlock()
		return len(coordinator.waiters) == 1
	}, time.Second, 5*time.Millisecond)

	coordinator.Reset()
	assert.ErrorIs(t, <-waiter, domain.ErrSessionExpired)

	close(release)
	assert.NoError(t, <-winner)
}

func TestCoordinatorWaiterHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	coordinator := NewRefreshCoordinator(func(context.Context) error {
		close(started)
		<-release
		return nil
	}, nil, testLogger())

	winner := make(chan error, 1)
	go func() { winner <- coordinator.Refresh(context.Background()) }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	waiter := make(chan error, 1)
	go func() { waiter <- coordinator.Refresh(ctx) }()
	require.Eventually(t, func() bool {
		coordinator.mu.Lock()
		defer coordinator.mu.Unlock()
		return len(coordinator.waiters) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-waiter, context.Canceled)

	close(release)
	assert.NoError(t, <-winner)
}

func TestNonReplayableBodyIsNotRetried(t *testing.T) {
	t.Parallel()

	server, refreshCalls, _ := protectedBackend(t, http.StatusOK)
	client := newTestClient(t, server.URL, nil)

	// A plain reader gives the request no GetBody, so the transport cannot
	// replay it after a refresh.
	req, err := http.NewRequest(http.MethodPost, server.URL+"/protected", plainReader{strings.NewReader("payload")})
	require.NoError(t, err)
	require.Nil(t, req.GetBody)

	resp, err := client.http.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

type plainReader struct{ r io.Reader }

func (p plainReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func testLogger() zerolog.Logger { return zerolog.Nop() }
