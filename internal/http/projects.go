package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

type projectResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	Name       string           `json:"name"`
	DomainName string           `json:"domainName"`
	Category   string           `json:"category,omitempty"`
	URL        string           `json:"url,omitempty"`
	Messages   []domain.Message `json:"messages"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func toProjectResponse(p domain.Project) projectResponse {
	msgs := p.Messages
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return projectResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       p.Name,
		DomainName: p.DomainName,
		Category:   p.Category,
		URL:        p.URL,
		Messages:   msgs,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toProjectResponses(projects []domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

type createProjectRequest struct {
	Name       string           `json:"name"`
	DomainName string           `json:"domainName"`
	Category   string           `json:"category"`
	URL        string           `json:"url"`
	Messages   []domain.Message `json:"messages"`
}

// HandleCreate creates a project owned by the caller.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if req.Name == "" || req.DomainName == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "name and domainName are required")
		return
	}

	p, err := h.ProjectService.CreateProject(ctx, userID, service.CreateProjectInput{
		Name:       req.Name,
		DomainName: req.DomainName,
		Category:   req.Category,
		URL:        req.URL,
		Messages:   req.Messages,
	})
	if err != nil {
		writeProjectError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(p))
}

// HandleList returns the caller's projects, newest first.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	projects, err := h.ProjectService.ListProjectsByUser(ctx, userID)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponses(projects))
}

// HandleGet returns a single project by id. Public: generated sites are
// viewable by anyone holding a link.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProjectService.GetProjectByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeProjectError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

// HandleGetByDomain resolves a project by its unique domain name. Public.
func (h *ProjectsHandler) HandleGetByDomain(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProjectService.GetProjectByDomain(r.Context(), r.PathValue("domain"))
	if err != nil {
		writeProjectError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

// HandleListByUser lists any user's projects. Public.
func (h *ProjectsHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ProjectService.ListProjectsByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponses(projects))
}

type updateProjectRequest struct {
	Name       *string `json:"name"`
	DomainName *string `json:"domainName"`
	Category   *string `json:"category"`
	URL        *string `json:"url"`
}

// HandleUpdate applies a partial update to a project the caller owns.
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	p, err := h.ProjectService.UpdateProject(ctx, userID, r.PathValue("id"), service.UpdateProjectInput{
		Name:       req.Name,
		DomainName: req.DomainName,
		Category:   req.Category,
		URL:        req.URL,
	})
	if err != nil {
		writeProjectError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

// HandleDelete removes a project the caller owns.
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	if err := h.ProjectService.DeleteProject(ctx, userID, r.PathValue("id")); err != nil {
		writeProjectError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type messageRequest struct {
	Message string `json:"message"`
}

// HandleAddMessage appends a user message to the project history without
// a model round trip.
func (h *ProjectsHandler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "message is required")
		return
	}

	p, err := h.ProjectService.AddMessage(ctx, userID, r.PathValue("id"), req.Message)
	if err != nil {
		writeProjectError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

type chatTurnResponse struct {
	Success     bool             `json:"success"`
	Project     projectResponse  `json:"project"`
	UserMessage domain.Message   `json:"userMessage"`
	AIMessage   domain.Message   `json:"aiMessage"`
	History     []domain.Message `json:"conversationHistory"`
}

// HandleChat runs a full chat turn against the project's history.
func (h *ProjectsHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "message is required")
		return
	}

	turn, err := h.ProjectService.SendMessage(ctx, userID, r.PathValue("id"), req.Message)
	if err != nil {
		writeProjectError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatTurnResponse{
		Success:     true,
		Project:     toProjectResponse(turn.Project),
		UserMessage: turn.UserMessage,
		AIMessage:   turn.AIMessage,
		History:     turn.Project.Messages,
	})
}

// writeProjectError maps the project service's sentinel errors onto HTTP
// statuses; anything unexpected is a 500.
func writeProjectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Project not found")
	case errors.Is(err, service.ErrDomainTaken):
		writeError(w, http.StatusConflict, "domain_taken", "Domain name already exists")
	case errors.Is(err, service.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access_denied", "Access denied")
	case errors.Is(err, service.ErrOwnerNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found")
	default:
		writeServerError(w, r, err)
	}
}
