package api

import (
	"context"
	"fmt"

	"github.com/klyve/vodctl/internal/domain"
)

type adminEnvelope struct {
	Admin domain.Admin `json:"admin"`
}

// SignIn authenticates with email/password. The backend answers with the
// admin profile and sets the session cookies on the jar.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Admin, error) {
	body := map[string]string{"email": email, "password": password}
	var out adminEnvelope
	if err := c.post(ctx, signInPath, body, &out); err != nil {
		return domain.Admin{}, fmt.Errorf("sign in: %w", err)
	}
	return out.Admin, nil
}

// GoogleSignIn exchanges a Google OAuth access token for a session.
func (c *Client) GoogleSignIn(ctx context.Context, accessToken string) (domain.Admin, error) {
	body := map[string]any{"code": map[string]string{"access_token": accessToken}}
	var out struct {
		Admin   domain.Admin `json:"admin"`
		Message string       `json:"message"`
	}
	if err := c.post(ctx, googleSignInPath, body, &out); err != nil {
		return domain.Admin{}, fmt.Errorf("google sign in: %w", err)
	}
	return out.Admin, nil
}

// RefreshSession forces a coordinated refresh outside the 401 path, e.g. on
// startup with persisted cookies of unknown age.
func (c *Client) RefreshSession(ctx context.Context) error {
	return c.coordinator.Refresh(ctx)
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "api/admin/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Client) Profile(ctx context.Context) (domain.Admin, error) {
	var out adminEnvelope
	if err := c.get(ctx, "api/admin/profile", nil, &out); err != nil {
		return domain.Admin{}, fmt.Errorf("fetch profile: %w", err)
	}
	return out.Admin, nil
}
