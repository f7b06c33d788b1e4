package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend serves the admin API surface the CLI tests touch. Sign-in sets
// the session cookies the way the real backend does.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/admin/auth/sign-in", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, `{"message":"invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "tok-access", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "tok-refresh", Path: "/"})
		_, _ = fmt.Fprintf(w, `{"admin":{"id":"adm-1","email":%q,"firstName":"Ada","lastName":"Lovelace"}}`, body.Email)
	})

	mux.HandleFunc("POST /api/admin/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/admin/profile", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("accessToken"); err != nil || cookie.Value == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, `{"message":"unauthorized"}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"admin":{"id":"adm-1","email":"ops@example.com","firstName":"Ada","lastName":"Lovelace"}}`)
	})

	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = fmt.Fprint(w, `{"success":true,"data":{"users":[{"id":"usr-1","email":"viewer@example.com","firstName":"Vera","isBanned":false,"planName":"Pro"}],"pagination":{"total":1,"totalPages":1,"currentPage":1,"limit":20}}}`)
	})

	mux.HandleFunc("PUT /api/admin/users/usr-1/ban", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IsBanned bool `json:"isBanned"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.IsBanned)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/subscriptions/admin/plans", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"plan-1","planId":"prov-1","name":"Pro","price":19.99,"interval":1,"period":"MONTHLY","videoPerMonth":30,"isActive":true}]`)
	})

	mux.HandleFunc("GET /api/admin/sales/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":{"totalRevenue":1234.5,"totalSubscriptions":40,"activeSubscriptions":31,"refundedAmount":12}}`)
	})

	mux.HandleFunc("GET /api/admin/promotional-videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":[{"id":"promo-1","videoId":"vid-1","category":"trailer","priority":3,"hidden":false,"title":"Launch"}]}`)
	})

	mux.HandleFunc("GET /api/admin/videos/vid-1/video", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":{"url":"https://cdn.example.com/vid-1/master.m3u8"}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func loginCLI(t *testing.T, home string) {
	t.Helper()

	stdout, _, err := executeCLI(t, home, "login", "--email", "ops@example.com", "--password", "hunter2")
	require.NoError(t, err)
	require.Contains(t, stdout, "Signed in as Ada Lovelace")
}

func TestLoginRequiresCredentialFlags(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	_, _, err := executeCLI(t, t.TempDir(), "login", "--email", "ops@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email and --password")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	_, _, err := executeCLI(t, t.TempDir(), "login", "--email", "ops@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ada Lovelace <ops@example.com>")
}

func TestWhoamiFallsBackToCachedProfileWhenOffline(t *testing.T) {
	server := newBackend(t)
	t.Setenv("VODCTL_API_URL", server.URL)

	home := t.TempDir()
	loginCLI(t, home)

	// Backend gone; the cached profile still answers.
	t.Setenv("VODCTL_API_URL", "http://127.0.0.1:1")
	stdout, _, err := executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ada Lovelace")
}

func TestLogoutClearsSession(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	_, _, err = executeCLI(t, home, "whoami")
	require.Error(t, err)
}

func TestUsersListRendersTableWithPagination(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "viewer@example.com")
	assert.Contains(t, stdout, "Pro")
	assert.Contains(t, stdout, "page 1/1 (1 users)")
}

func TestUsersListJSONOutput(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "users", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"usr-1\"")
}

func TestUsersBanSendsFlag(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "users", "ban", "usr-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "user usr-1 banned=true")
}

func TestPlansListShowsBillingColumn(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pro")
	assert.Contains(t, stdout, "19.99")
	assert.Contains(t, stdout, "1 MONTHLY")
	assert.Contains(t, stdout, "active")
}

func TestPlansToggleRequiresExactlyOneDirection(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "plans", "toggle", "plan-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--activate or --deactivate")
}

func TestVideosListRendersVisibility(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "videos", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "promo-1")
	assert.Contains(t, stdout, "trailer")
	assert.Contains(t, stdout, "visible")
}

func TestVideosURLPrintsPlaybackURL(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "videos", "url", "vid-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://cdn.example.com/vid-1/master.m3u8")
}

func TestSalesSummaryPrintsHeadlineFigures(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "sales", "summary")
	require.NoError(t, err)
	assert.Contains(t, stdout, "total revenue: 1234.50")
	assert.Contains(t, stdout, "subscriptions: 40 (31 active)")
}

func TestSalesRevenueRejectsUnknownPeriod(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "sales", "revenue", "--period", "hourly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period")
}

func TestDashboardRequiresLogin(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)

	_, _, err := executeCLI(t, t.TempDir(), "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vodctl login")
}

func TestGoogleLoginRequiresClientID(t *testing.T) {
	t.Setenv("VODCTL_API_URL", newBackend(t).URL)
	t.Setenv("VODCTL_GOOGLE_CLIENT_ID", "")

	_, _, err := executeCLI(t, t.TempDir(), "login", "google")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VODCTL_GOOGLE_CLIENT_ID")
}
