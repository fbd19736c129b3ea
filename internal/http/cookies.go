package http

import (
	"net/http"
	"time"

	"github.com/corethink/backend/pkg/httpx"
)

// RefreshTokenCookie pairs with httpx.AccessTokenCookie to hold the full
// session on the client.
const RefreshTokenCookie = "refreshToken"

// Cookie lifetimes. The access cookie deliberately outlives the 15-minute
// token inside it: renewal logic gates access, cookie expiry just keeps
// the value around so the middleware has something to renew from.
const (
	accessCookieMaxAge  = 24 * time.Hour
	refreshCookieMaxAge = 7 * 24 * time.Hour
)

// CookieManager sets and clears the two session cookies with a posture
// appropriate for the deployment: in dev the front-end runs on localhost
// over plain HTTP, in every other env the cookies are cross-site between
// the front-end origin and this API, which requires Secure + SameSite=None.
type CookieManager struct {
	secure   bool
	sameSite http.SameSite
}

func NewCookieManager(dev bool) *CookieManager {
	if dev {
		return &CookieManager{secure: false, sameSite: http.SameSiteLaxMode}
	}
	return &CookieManager{secure: true, sameSite: http.SameSiteNoneMode}
}

// SetSession writes both session cookies.
func (m *CookieManager) SetSession(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, m.cookie(httpx.AccessTokenCookie, accessToken, accessCookieMaxAge))
	http.SetCookie(w, m.cookie(RefreshTokenCookie, refreshToken, refreshCookieMaxAge))
}

// ClearSession expires both session cookies. Idempotent.
func (m *CookieManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(httpx.AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, m.cookie(RefreshTokenCookie, "", -time.Second))
}

func (m *CookieManager) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	}
}
