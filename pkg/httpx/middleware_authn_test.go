package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corethink/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const guardTestSecret = "guard-test-secret"

func signGuardToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(guardTestSecret))
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewSessionClaims("user-42", ttl, "corethink", []string{"corethink-web"}, time.Now()))
	require.NoError(t, err)
	return token
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	verifier := jwtx.NewVerifierHS256([]byte(guardTestSecret), "corethink", []string{"corethink-web"})

	newGuarded := func(sawSubject *string) http.Handler {
		return AuthnMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*sawSubject = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
	}

	do := func(t *testing.T, mutate func(*http.Request)) (*httptest.ResponseRecorder, string) {
		t.Helper()

		var sawSubject string
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if mutate != nil {
			mutate(req)
		}
		rec := httptest.NewRecorder()
		newGuarded(&sawSubject).ServeHTTP(rec, req)
		return rec, sawSubject
	}

	requireGuardError := func(t *testing.T, rec *httptest.ResponseRecorder, message string) {
		t.Helper()

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "unauthenticated", body.Error)
		require.Equal(t, message, body.Message)
	}

	t.Run("missing token", func(t *testing.T) {
		rec, _ := do(t, nil)
		requireGuardError(t, rec, "Access token is required")
	})

	t.Run("expired token", func(t *testing.T) {
		rec, _ := do(t, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signGuardToken(t, -time.Minute)})
		})
		requireGuardError(t, rec, "Access token has expired")
	})

	t.Run("malformed token", func(t *testing.T) {
		rec, _ := do(t, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-jwt"})
		})
		requireGuardError(t, rec, "Invalid access token")
	})

	t.Run("wrong secret is invalid, not expired", func(t *testing.T) {
		foreign, err := jwtx.NewSignerHS256([]byte("some-other-secret"))
		require.NoError(t, err)
		token, err := foreign.Sign(jwtx.NewSessionClaims("user-42", -time.Minute, "corethink", []string{"corethink-web"}, time.Now()))
		require.NoError(t, err)

		rec, _ := do(t, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		})
		requireGuardError(t, rec, "Invalid access token")
	})

	t.Run("valid cookie attaches subject", func(t *testing.T) {
		rec, subject := do(t, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signGuardToken(t, time.Minute)})
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-42", subject)
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		rec, subject := do(t, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signGuardToken(t, time.Minute))
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-42", subject)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		rec, _ := do(t, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-jwt"})
			r.Header.Set("Authorization", "Bearer "+signGuardToken(t, time.Minute))
		})
		requireGuardError(t, rec, "Invalid access token")
	})
}
