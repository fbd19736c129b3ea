package oauth

import "context"

// Provider is the contract every external login provider implements.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL returns the provider's authorization URL. The state
	// value is round-tripped through the provider for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange swaps the authorization code for provider credentials and
	// returns a normalized identity.
	Exchange(ctx context.Context, code string) (Identity, error)
}
