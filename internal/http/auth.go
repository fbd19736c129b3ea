package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
	"github.com/corethink/backend/pkg/slogx"
)

// stateCookie holds the OAuth CSRF state between the login redirect and
// the provider callback.
const stateCookie = "oauthState"

const stateCookieMaxAge = 10 * time.Minute

type AuthHandler struct {
	AuthService *service.AuthService
	Cookies     *CookieManager
	FrontendURL string
}

// HandleLogin starts the provider handshake by redirecting the browser to
// the provider's authorization page.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	url, state, err := h.AuthService.LoginURL(provider)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			writeError(w, http.StatusNotFound, "unknown_provider", "Unknown login provider")
			return
		}
		writeServerError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.Cookies.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, url, http.StatusFound)
}

// HandleCallback finishes the handshake: the code is exchanged, the user
// resolved, session cookies set, and the browser sent back to the
// front-end.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	provider := r.PathValue("provider")

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "Authorization code is required")
		return
	}

	if c, err := r.Cookie(stateCookie); err == nil {
		if c.Value != r.URL.Query().Get("state") {
			writeError(w, http.StatusUnauthorized, "state_mismatch", "OAuth state does not match")
			return
		}
	}
	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	_, pair, err := h.AuthService.HandleCallback(ctx, provider, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownProvider):
			writeError(w, http.StatusNotFound, "unknown_provider", "Unknown login provider")
		case errors.Is(err, service.ErrMissingEmail):
			writeError(w, http.StatusUnauthorized, "missing_email", "Provider did not supply an email address")
		default:
			log.Warn("oauth callback failed", "provider", provider, "error", err)
			writeError(w, http.StatusUnauthorized, "oauth_failed", "Login failed")
		}
		return
	}

	h.Cookies.SetSession(w, pair.AccessToken, pair.RefreshToken)
	http.Redirect(w, r, h.FrontendURL, http.StatusFound)
}

// HandleLogout clears both session cookies. Tokens already issued stay
// cryptographically valid until they expire; logout is advisory.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.ClearSession(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
