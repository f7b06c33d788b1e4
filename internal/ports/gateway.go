package ports

import (
	"context"

	"github.com/klyve/vodctl/internal/domain"
)

// AuthGateway is the slice of the admin API the session service needs.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (domain.Admin, error)
	GoogleSignIn(ctx context.Context, accessToken string) (domain.Admin, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (domain.Admin, error)
	RefreshSession(ctx context.Context) error
}
