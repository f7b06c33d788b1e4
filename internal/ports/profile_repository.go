package ports

import (
	"context"

	"github.com/klyve/vodctl/internal/domain"
)

// ProfileRepository caches the signed-in admin profile between invocations.
type ProfileRepository interface {
	Load(ctx context.Context) (domain.Admin, error)
	Save(ctx context.Context, admin domain.Admin) error
	Clear(ctx context.Context) error
}
