package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/corethink/backend/pkg/jwtx"
	"github.com/corethink/backend/pkg/slogx"
)

// AccessTokenCookie is the cookie the session middleware maintains and the
// guard reads. The Authorization header is only a fallback for API callers
// that manage tokens themselves.
const AccessTokenCookie = "accessToken"

// Guard messages. The status code is always 401; the message is how a
// caller tells the three failure conditions apart.
const (
	msgTokenRequired = "Access token is required"
	msgTokenExpired  = "Access token has expired"
	msgTokenInvalid  = "Invalid access token"
)

// AuthnMiddleware is the mandatory-authentication route guard. It extracts
// the access token from the session cookie, falling back to a bearer
// header, verifies it and attaches the resolved subject to the request
// context. Requests without a valid access credential are rejected with
// 401 before the handler runs.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := extractAccessToken(r)
			if raw == "" {
				writeUnauthenticated(w, msgTokenRequired)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, jwtx.ErrExpired):
					writeUnauthenticated(w, msgTokenExpired)
				default:
					log.Warn("jwt verify failed", "err", err)
					writeUnauthenticated(w, msgTokenInvalid)
				}
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAccessToken prefers the HTTP-only cookie, then the
// "Authorization: Bearer <token>" header.
func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

func writeUnauthenticated(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":   "unauthenticated",
		"message": msg,
	})
}
