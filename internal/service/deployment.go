package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/corethink/backend/internal/hosting"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/pkg/slogx"
)

// DeploymentService pushes generated HTML live and records the resulting
// public URL on the project.
type DeploymentService struct {
	Store    store.Store
	Deployer hosting.Deployer
}

// Deploy publishes htmlCode under the project's domain name and returns
// the public URL. The caller must own the project.
func (s *DeploymentService) Deploy(ctx context.Context, userID, projectID, htmlCode string) (string, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrProjectNotFound
		}
		return "", err
	}
	if p.UserID != userID {
		return "", ErrAccessDenied
	}

	url, err := s.Deployer.Deploy(ctx, p.DomainName, htmlCode)
	if err != nil {
		return "", err
	}

	if err := s.Store.Projects().UpdateProjectURL(ctx, p.ID, url); err != nil {
		return "", err
	}

	l.Info("project deployed",
		slog.String("project_id", p.ID),
		slog.String("url", url),
	)
	return url, nil
}
