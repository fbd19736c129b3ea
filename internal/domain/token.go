package domain

import "time"

// TokenPair is what a login or renewal produces: a short-lived access
// token and a long-lived refresh token, both signed for the same subject.
// Pairs are always minted together, never individually.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"-"` // access token lifetime
}
