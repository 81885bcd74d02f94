package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticSession is a SessionSource pinned to one identity.
type staticSession struct {
	identity account.Identity
}

func (s staticSession) Session() inbound.SessionDTO {
	return inbound.SessionDTO{Identity: s.identity}
}

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key-for-testing-only-32b",
			JWTExpiration: time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerMin: 600,
			BurstSize:      10,
		},
	}
	return New(cfg, zap.NewNop())
}

func authRouter(mw *Middleware, sessions SessionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", mw.Auth(sessions), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMissingTokenFallsThroughAsGuest(t *testing.T) {
	mw := newTestMiddleware(t)
	router := authRouter(mw, staticSession{identity: account.GuestIdentity})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAcceptsTokenForActiveSession(t *testing.T) {
	mw := newTestMiddleware(t)
	router := authRouter(mw, staticSession{identity: account.Identity("cook@example.com")})

	token, err := mw.IssueToken("cook@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsTokenForDifferentIdentity(t *testing.T) {
	mw := newTestMiddleware(t)
	router := authRouter(mw, staticSession{identity: account.Identity("cook@example.com")})

	token, err := mw.IssueToken("stranger@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "does not match the active session")
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	mw := newTestMiddleware(t)
	router := authRouter(mw, staticSession{identity: account.GuestIdentity})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
