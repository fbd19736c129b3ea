package domain

import "time"

// User is a local account resolved from a third-party OAuth identity.
// There is no password; the only way in is through a provider handshake.
type User struct {
	ID         string
	Email      string
	Name       string
	Provider   string // "google" or "github"
	ProviderID string // the provider's own id for this user
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
