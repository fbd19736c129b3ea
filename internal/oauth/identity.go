// Package oauth normalizes external login providers behind a single
// interface. Implementations return identity facts only and must not
// perform user creation, linking, or session management.
package oauth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider.
type Identity struct {
	Provider   string // e.g. "google", "github"
	ProviderID string // provider-scoped unique user identifier
	Email      string // email returned by the provider, may be empty
	Name       string // display name, may be empty
}
