package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/klyve/vodctl/internal/domain"
	"github.com/klyve/vodctl/internal/ports"
)

// SessionService orchestrates sign-in, sign-out and profile caching on top
// of the auth gateway. The actual credentials live in the transport's cookie
// jar; this service only ever clears them wholesale.
type SessionService struct {
	gateway     ports.AuthGateway
	credentials ports.CredentialSource
	profiles    ports.ProfileRepository
	log         zerolog.Logger
}

func NewSessionService(gateway ports.AuthGateway, credentials ports.CredentialSource, profiles ports.ProfileRepository, log zerolog.Logger) *SessionService {
	return &SessionService{
		gateway:     gateway,
		credentials: credentials,
		profiles:    profiles,
		log:         log,
	}
}

func (s *SessionService) SignIn(ctx context.Context, email, password string) (domain.Admin, error) {
	admin, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("sign in: %w", err)
	}
	if err := s.profiles.Save(ctx, admin); err != nil {
		s.log.Warn().Err(err).Msg("cache admin profile")
	}
	return admin, nil
}

func (s *SessionService) GoogleSignIn(ctx context.Context, accessToken string) (domain.Admin, error) {
	admin, err := s.gateway.GoogleSignIn(ctx, accessToken)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("google sign in: %w", err)
	}
	if err := s.profiles.Save(ctx, admin); err != nil {
		s.log.Warn().Err(err).Msg("cache admin profile")
	}
	return admin, nil
}

// SignOut tells the backend to drop the session, then clears local state.
// Local cleanup happens even when the backend call fails: an expired session
// must still be removable.
func (s *SessionService) SignOut(ctx context.Context) error {
	logoutErr := s.gateway.Logout(ctx)
	if clearErr := s.clearLocal(ctx); clearErr != nil {
		return errors.Join(logoutErr, clearErr)
	}
	if logoutErr != nil {
		return fmt.Errorf("sign out: %w", logoutErr)
	}
	return nil
}

// Profile returns the live profile, refreshing the local cache. When the
// backend is unreachable it falls back to the cached copy.
func (s *SessionService) Profile(ctx context.Context) (domain.Admin, error) {
	admin, err := s.gateway.Profile(ctx)
	if err != nil {
		cached, cacheErr := s.profiles.Load(ctx)
		if cacheErr != nil {
			return domain.Admin{}, fmt.Errorf("fetch profile: %w", err)
		}
		s.log.Debug().Err(err).Msg("profile fetch failed, serving cached copy")
		return cached, nil
	}
	if err := s.profiles.Save(ctx, admin); err != nil {
		s.log.Warn().Err(err).Msg("cache admin profile")
	}
	return admin, nil
}

// Refresh rotates the session up front, proving the stored credentials are
// still good before a long-lived consumer such as the dashboard attaches.
func (s *SessionService) Refresh(ctx context.Context) error {
	if err := s.gateway.RefreshSession(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

// AccessToken hands the ambient access credential to the socket layer.
func (s *SessionService) AccessToken() string {
	return s.credentials.AccessToken()
}

// HandleExpired is the refresh coordinator's expiry hook: wipe local session
// state so the next command lands on sign-in.
func (s *SessionService) HandleExpired() {
	if err := s.clearLocal(context.Background()); err != nil {
		s.log.Warn().Err(err).Msg("clear expired session")
	}
}

func (s *SessionService) clearLocal(ctx context.Context) error {
	var errs []error
	if err := s.credentials.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear credentials: %w", err))
	}
	if err := s.profiles.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear cached profile: %w", err))
	}
	return errors.Join(errs...)
}
