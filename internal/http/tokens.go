package http

import (
	"encoding/json"
	"net/http"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
)

type RefreshHandler struct {
	Tokens *service.TokenService
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ServeHTTP exchanges a refresh token for a fresh pair. The failure
// response is deliberately uniform: callers are not told whether the
// token was expired, malformed, or absent.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "Invalid refresh token")
		return
	}

	pair, err := h.Tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "Invalid refresh token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
