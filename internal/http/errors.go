package http

import (
	"net/http"

	"github.com/corethink/backend/pkg/httpx"
	"github.com/corethink/backend/pkg/slogx"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, kind, message string) {
	httpx.WriteJSON(w, code, errorResponse{Error: kind, Message: message})
}

func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
