// Package github implements the GitHub login provider. GitHub does not
// issue OIDC id_tokens for OAuth apps, so the identity comes from the
// REST API using the exchanged access token.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/corethink/backend/internal/oauth"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

const providerName = "github"

const (
	userURL   = "https://api.github.com/user"
	emailsURL = "https://api.github.com/user/emails"
)

type Provider struct {
	oauthConfig *oauth2.Config
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githubendpoint.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
	}, nil
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) Exchange(ctx context.Context, code string) (oauth.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return oauth.Identity{}, fmt.Errorf("github token exchange: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)

	profile, err := fetchProfile(ctx, client)
	if err != nil {
		return oauth.Identity{}, err
	}

	email := profile.Email
	if email == "" {
		// Users can hide their email on the public profile; the emails
		// endpoint still returns it with the user:email scope.
		email, err = fetchPrimaryEmail(ctx, client)
		if err != nil {
			return oauth.Identity{}, err
		}
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return oauth.Identity{
		Provider:   providerName,
		ProviderID: strconv.FormatInt(profile.ID, 10),
		Email:      email,
		Name:       name,
	}, nil
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func fetchProfile(ctx context.Context, client *http.Client) (githubProfile, error) {
	var profile githubProfile
	if err := getJSON(ctx, client, userURL, &profile); err != nil {
		return githubProfile{}, fmt.Errorf("github profile: %w", err)
	}
	if profile.ID == 0 {
		return githubProfile{}, errors.New("github profile missing id")
	}
	return profile, nil
}

func fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, emailsURL, &emails); err != nil {
		return "", fmt.Errorf("github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
