package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/pkg/httpx"
	"github.com/corethink/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSessionTestTokens(t *testing.T) *service.TokenService {
	t.Helper()

	secret := []byte("session-test-secret")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)

	return &service.TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifierHS256(secret, "corethink", []string{"corethink-web"}),
		Issuer:     "corethink",
		Audience:   []string{"corethink-web"},
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// echoSubject records what access token and subject the downstream
// handler observed.
type echoSubject struct {
	sawToken   string
	sawSubject string
}

func (e *echoSubject) handler(tokens *service.TokenService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.sawToken = ""
		e.sawSubject = ""
		if c, err := r.Cookie(httpx.AccessTokenCookie); err == nil {
			e.sawToken = c.Value
			if claims, err := tokens.Verify(c.Value); err == nil {
				e.sawSubject = claims.Subject
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func setCookies(cookies []*http.Cookie) map[string]*http.Cookie {
	byName := make(map[string]*http.Cookie)
	for _, c := range cookies {
		byName[c.Name] = c
	}
	return byName
}

func expiredPair(t *testing.T, tokens *service.TokenService, subject string) (access, refresh string) {
	t.Helper()

	stale := *tokens
	stale.AccessTTL = -time.Minute
	stale.RefreshTTL = -time.Minute

	pair, err := stale.IssuePair(context.Background(), subject)
	require.NoError(t, err)
	return pair.AccessToken, pair.RefreshToken
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	tokens := newSessionTestTokens(t)
	cookies := NewCookieManager(true)

	run := func(t *testing.T, reqCookies ...*http.Cookie) (*httptest.ResponseRecorder, *echoSubject) {
		t.Helper()

		echo := &echoSubject{}
		h := SessionMiddleware(tokens, cookies)(echo.handler(tokens))

		req := httptest.NewRequest(http.MethodGet, "/anything", nil)
		for _, c := range reqCookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, echo
	}

	t.Run("no cookies passes through untouched", func(t *testing.T) {
		rec, echo := run(t)
		require.Empty(t, rec.Result().Cookies())
		require.Empty(t, echo.sawSubject)
	})

	t.Run("valid access token passes through untouched", func(t *testing.T) {
		pair, err := tokens.IssuePair(context.Background(), "user-1")
		require.NoError(t, err)

		rec, echo := run(t, &http.Cookie{Name: httpx.AccessTokenCookie, Value: pair.AccessToken})
		require.Empty(t, rec.Result().Cookies())
		require.Equal(t, "user-1", echo.sawSubject)
	})

	t.Run("refresh cookie alone renews the session", func(t *testing.T) {
		pair, err := tokens.IssuePair(context.Background(), "user-2")
		require.NoError(t, err)

		rec, echo := run(t, &http.Cookie{Name: RefreshTokenCookie, Value: pair.RefreshToken})

		set := setCookies(rec.Result().Cookies())
		require.Contains(t, set, httpx.AccessTokenCookie)
		require.Contains(t, set, RefreshTokenCookie)
		require.Positive(t, set[httpx.AccessTokenCookie].MaxAge)

		// The handler saw the freshly minted token's subject.
		require.Equal(t, "user-2", echo.sawSubject)
		require.Equal(t, set[httpx.AccessTokenCookie].Value, echo.sawToken)
	})

	t.Run("expired access with valid refresh renews", func(t *testing.T) {
		expiredAccess, _ := expiredPair(t, tokens, "user-3")
		pair, err := tokens.IssuePair(context.Background(), "user-3")
		require.NoError(t, err)

		rec, echo := run(t,
			&http.Cookie{Name: httpx.AccessTokenCookie, Value: expiredAccess},
			&http.Cookie{Name: RefreshTokenCookie, Value: pair.RefreshToken},
		)

		set := setCookies(rec.Result().Cookies())
		require.Contains(t, set, httpx.AccessTokenCookie)
		require.NotEqual(t, expiredAccess, set[httpx.AccessTokenCookie].Value)
		require.Equal(t, "user-3", echo.sawSubject)
	})

	t.Run("expired access with no refresh clears cookies", func(t *testing.T) {
		expiredAccess, _ := expiredPair(t, tokens, "user-4")

		rec, echo := run(t, &http.Cookie{Name: httpx.AccessTokenCookie, Value: expiredAccess})

		set := setCookies(rec.Result().Cookies())
		require.Contains(t, set, httpx.AccessTokenCookie)
		require.Negative(t, set[httpx.AccessTokenCookie].MaxAge)
		require.Empty(t, echo.sawSubject)
	})

	t.Run("expired access with expired refresh clears both cookies", func(t *testing.T) {
		expiredAccess, expiredRefresh := expiredPair(t, tokens, "user-5")

		rec, echo := run(t,
			&http.Cookie{Name: httpx.AccessTokenCookie, Value: expiredAccess},
			&http.Cookie{Name: RefreshTokenCookie, Value: expiredRefresh},
		)

		set := setCookies(rec.Result().Cookies())
		require.Contains(t, set, httpx.AccessTokenCookie)
		require.Contains(t, set, RefreshTokenCookie)
		require.Negative(t, set[httpx.AccessTokenCookie].MaxAge)
		require.Negative(t, set[RefreshTokenCookie].MaxAge)
		require.Empty(t, echo.sawSubject)
	})

	t.Run("malformed access token clears cookies", func(t *testing.T) {
		rec, echo := run(t, &http.Cookie{Name: httpx.AccessTokenCookie, Value: "garbage"})

		set := setCookies(rec.Result().Cookies())
		require.Contains(t, set, httpx.AccessTokenCookie)
		require.Negative(t, set[httpx.AccessTokenCookie].MaxAge)
		require.Empty(t, echo.sawSubject)
	})

	t.Run("never rejects a request", func(t *testing.T) {
		rec, _ := run(t, &http.Cookie{Name: httpx.AccessTokenCookie, Value: "garbage"})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
