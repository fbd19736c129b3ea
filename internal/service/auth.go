package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/internal/oauth"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/pkg/cryptox"
	"github.com/corethink/backend/pkg/idx"
	"github.com/corethink/backend/pkg/slogx"
)

var (
	ErrMissingEmail    = errors.New("provider_identity_missing_email")
	ErrUnknownProvider = oauth.ErrUnknownProvider
)

// AuthService bridges external OAuth identities to local user records and
// issues session token pairs for them.
type AuthService struct {
	Store     store.Store
	Tokens    *TokenService
	Providers *oauth.Registry
}

// LoginURL returns the provider's authorization URL together with the
// state value the callback must echo back.
func (s *AuthService) LoginURL(providerName string) (url, state string, err error) {
	p, err := s.Providers.Get(providerName)
	if err != nil {
		return "", "", err
	}

	state, err = cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", "", err
	}

	return p.AuthCodeURL(state), state, nil
}

// HandleCallback exchanges the authorization code, finds or creates the
// matching user and issues a fresh token pair.
func (s *AuthService) HandleCallback(ctx context.Context, providerName, code string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Providers.Get(providerName)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		l.Info("oauth exchange failed", slog.String("provider", providerName), "error", err)
		return domain.User{}, domain.TokenPair{}, err
	}

	user, err := s.findOrCreateUser(ctx, identity)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("provider", providerName),
	)
	return user, pair, nil
}

// findOrCreateUser locates the user by email; a miss creates the record.
// Email is the linking key, so a login without one cannot proceed.
func (s *AuthService) findOrCreateUser(ctx context.Context, identity oauth.Identity) (domain.User, error) {
	if identity.Email == "" {
		return domain.User{}, ErrMissingEmail
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	now := time.Now()
	user = domain.User{
		ID:         idx.New().String(),
		Email:      identity.Email,
		Name:       identity.Name,
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent first login; the row is there now.
			return s.Store.Users().GetUserByEmail(ctx, identity.Email)
		}
		return domain.User{}, err
	}

	return user, nil
}
