package http

import (
	"errors"
	"net/http"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
	"github.com/corethink/backend/pkg/jwtx"
	"github.com/corethink/backend/pkg/slogx"
)

// SessionMiddleware runs before every route and keeps the session cookies
// fresh: an expired or absent access token is silently renewed from the
// refresh token, so a browser session survives the 15-minute access
// window without the front-end ever calling the refresh endpoint.
//
// It never rejects a request. Renewal failure clears both cookies and the
// request continues unauthenticated; whether that matters is the route
// guard's decision.
func SessionMiddleware(tokens *service.TokenService, cookies *CookieManager) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := cookieValue(r, httpx.AccessTokenCookie)
			refresh := cookieValue(r, RefreshTokenCookie)

			switch {
			case access == "" && refresh != "":
				r = renewSession(w, r, tokens, cookies, refresh)

			case access != "":
				_, err := tokens.Verify(access)
				switch {
				case err == nil:
					// Still valid, nothing to do.
				case errors.Is(err, jwtx.ErrExpired) && refresh != "":
					r = renewSession(w, r, tokens, cookies, refresh)
				default:
					// Expired with no refresh token, or malformed. Either
					// way the cookies are useless now.
					cookies.ClearSession(w)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// renewSession mints a fresh pair from the refresh token. On success both
// cookies are reset and the new access token is substituted into the
// current request so downstream guards see it. On failure both cookies
// are cleared.
func renewSession(
	w http.ResponseWriter,
	r *http.Request,
	tokens *service.TokenService,
	cookies *CookieManager,
	refresh string,
) *http.Request {
	ctx := r.Context()

	pair, err := tokens.Refresh(ctx, refresh)
	if err != nil {
		slogx.FromContext(ctx).Debug("silent renewal failed", "error", err)
		cookies.ClearSession(w)
		return r
	}

	cookies.SetSession(w, pair.AccessToken, pair.RefreshToken)
	return withAccessCookie(r, pair.AccessToken)
}

// withAccessCookie rewrites the request's Cookie header so the access
// token cookie carries the given value.
func withAccessCookie(r *http.Request, token string) *http.Request {
	replaced := false
	existing := r.Cookies()

	r.Header.Del("Cookie")
	for _, c := range existing {
		if c.Name == httpx.AccessTokenCookie {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: token})
			replaced = true
			continue
		}
		r.AddCookie(c)
	}
	if !replaced {
		r.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: token})
	}
	return r
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
