package http

import (
	"encoding/json"
	"net/http"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
)

type ChatHandler struct {
	ChatService *service.ChatService
}

type generateRequest struct {
	Message             string                `json:"message"`
	ConversationHistory []service.ChatMessage `json:"conversationHistory"`
}

// HandleGenerate runs one stateless template-generation turn. The client
// owns the history and sends it with every call.
func (h *ChatHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "message is required")
		return
	}

	result, err := h.ChatService.GenerateTemplate(ctx, req.Message, req.ConversationHistory)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type pagesRequest struct {
	ConversationHistory []service.ChatMessage `json:"conversationHistory"`
}

// HandlePages flattens every generated page out of a conversation history.
func (h *ChatHandler) HandlePages(w http.ResponseWriter, r *http.Request) {
	var req pagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	pages := h.ChatService.CollectPages(req.ConversationHistory)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"pages": pages})
}
