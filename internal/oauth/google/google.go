// Package google implements the Google login provider via OpenID Connect.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/corethink/backend/internal/oauth"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "google"

const issuerURL = "https://accounts.google.com"

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: cfg,
		verifier:    verifier,
	}, nil
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange swaps the authorization code for tokens and extracts the
// verified identity from the id_token.
func (p *Provider) Exchange(ctx context.Context, code string) (oauth.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return oauth.Identity{}, fmt.Errorf("google token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return oauth.Identity{}, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return oauth.Identity{}, fmt.Errorf("google id_token verification: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return oauth.Identity{}, fmt.Errorf("google id_token claims: %w", err)
	}

	if claims.Subject == "" {
		return oauth.Identity{}, errors.New("google id_token missing subject")
	}

	return oauth.Identity{
		Provider:   providerName,
		ProviderID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
	}, nil
}
