package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/corethink/backend/internal/hosting"
	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
)

type DeploymentsHandler struct {
	DeploymentService *service.DeploymentService
}

type createDeploymentRequest struct {
	HTMLCode  string `json:"htmlCode"`
	ProjectID string `json:"projectId"`
}

// ServeHTTP deploys generated HTML for a project the caller owns and
// returns the public URL. The request blocks while the deployment is
// polled to readiness.
func (h *DeploymentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req createDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HTMLCode == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "htmlCode and projectId are required")
		return
	}

	url, err := h.DeploymentService.Deploy(ctx, userID, req.ProjectID, req.HTMLCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Project not found")
		case errors.Is(err, service.ErrAccessDenied):
			writeError(w, http.StatusForbidden, "access_denied", "Access denied")
		case errors.Is(err, hosting.ErrDeploymentFailed):
			writeError(w, http.StatusBadGateway, "deployment_failed", err.Error())
		default:
			writeServerError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
