// Package hosting deploys generated sites to an external hosting provider.
package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/corethink/backend/pkg/slogx"

	"golang.org/x/time/rate"
)

// Deployer pushes a single HTML document live and returns its public URL.
type Deployer interface {
	Deploy(ctx context.Context, name, htmlCode string) (string, error)
}

var ErrDeploymentFailed = errors.New("hosting: deployment failed")

const vercelBaseURL = "https://api.vercel.com"

const (
	defaultPollAttempts = 30
	defaultPollInterval = 10 * time.Second
)

// VercelConfig configures the Vercel deployment client. Token is required;
// TeamID is only needed for team-scoped accounts.
type VercelConfig struct {
	Token        string
	TeamID       string
	BaseURL      string
	PollAttempts int
	PollInterval time.Duration
}

func (c VercelConfig) Validate() error {
	if c.Token == "" {
		return errors.New("hosting: vercel token is required")
	}
	return nil
}

type VercelClient struct {
	cfg        VercelConfig
	httpClient *http.Client
}

func NewVercelClient(cfg VercelConfig) (*VercelClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = vercelBaseURL
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = defaultPollAttempts
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &VercelClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type deploymentFile struct {
	File string `json:"file"`
	Data string `json:"data"`
}

type projectSettings struct {
	Framework       *string `json:"framework"`
	BuildCommand    *string `json:"buildCommand"`
	OutputDirectory *string `json:"outputDirectory"`
}

type createDeploymentRequest struct {
	Name            string           `json:"name"`
	Files           []deploymentFile `json:"files"`
	ProjectSettings projectSettings  `json:"projectSettings"`
	Target          string           `json:"target"`
}

type deploymentStatus struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	ReadyState string   `json:"readyState"`
	Alias      []string `json:"alias"`
}

// Deploy creates a static deployment holding a single index.html and polls
// until the provider reports it ready. When polling exhausts its attempts
// the raw deployment URL is returned rather than failing the whole run.
func (c *VercelClient) Deploy(ctx context.Context, name, htmlCode string) (string, error) {
	log := slogx.FromContext(ctx)

	created, err := c.createDeployment(ctx, name, htmlCode)
	if err != nil {
		return "", err
	}
	log.Info("deployment created", "deployment_id", created.ID, "name", name)

	return c.waitForDeployment(ctx, created)
}

func (c *VercelClient) createDeployment(ctx context.Context, name, htmlCode string) (deploymentStatus, error) {
	payload := createDeploymentRequest{
		Name: name,
		Files: []deploymentFile{
			{File: "index.html", Data: htmlCode},
		},
		// Static HTML, nothing to build.
		ProjectSettings: projectSettings{},
		Target:          "production",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return deploymentStatus{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v13/deployments", bytes.NewReader(body))
	if err != nil {
		return deploymentStatus{}, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return deploymentStatus{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	case http.StatusUnauthorized:
		return deploymentStatus{}, fmt.Errorf("%w: invalid hosting token", ErrDeploymentFailed)
	case http.StatusForbidden:
		return deploymentStatus{}, fmt.Errorf("%w: insufficient token permissions", ErrDeploymentFailed)
	default:
		return deploymentStatus{}, fmt.Errorf("%w: create returned %s", ErrDeploymentFailed, resp.Status)
	}

	var created deploymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return deploymentStatus{}, fmt.Errorf("%w: decode create response: %v", ErrDeploymentFailed, err)
	}
	return created, nil
}

func (c *VercelClient) waitForDeployment(ctx context.Context, created deploymentStatus) (string, error) {
	log := slogx.FromContext(ctx)

	// The limiter spaces out status checks; its initial token makes the
	// first check immediate.
	limiter := rate.NewLimiter(rate.Every(c.cfg.PollInterval), 1)

	for attempt := 0; attempt < c.cfg.PollAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}

		status, err := c.getDeployment(ctx, created.ID)
		if err != nil {
			// Transient status-check failures burn an attempt but do not
			// abort the deployment.
			log.Warn("deployment status check failed", "error", err)
			continue
		}

		log.Debug("deployment status", "ready_state", status.ReadyState)

		switch status.ReadyState {
		case "READY":
			return cleanURL(status.Name, status.Alias), nil
		case "ERROR":
			return "", fmt.Errorf("%w: provider reported ERROR", ErrDeploymentFailed)
		}
	}

	log.Warn("deployment not ready after polling, returning raw url", "deployment_id", created.ID)
	return "https://" + created.URL, nil
}

func (c *VercelClient) getDeployment(ctx context.Context, id string) (deploymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v13/deployments/"+id, nil)
	if err != nil {
		return deploymentStatus{}, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return deploymentStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return deploymentStatus{}, fmt.Errorf("status returned %s", resp.Status)
	}

	var status deploymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return deploymentStatus{}, err
	}
	return status, nil
}

func (c *VercelClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if c.cfg.TeamID != "" {
		req.Header.Set("X-Vercel-Team-Id", c.cfg.TeamID)
	}
}

// cleanURL prefers the first alias (custom domain) over the hashed
// deployment URL.
func cleanURL(name string, aliases []string) string {
	if len(aliases) > 0 {
		return "https://" + aliases[0]
	}
	return "https://" + name + ".vercel.app"
}
