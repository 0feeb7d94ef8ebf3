package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/logger"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func adminRouter(cfg JWTConfig) *gin.Engine {
	r := gin.New()
	r.GET("/admin", JWTAuth(cfg), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountID))
	})
	return r
}

func TestJWTAuth_AdminOnly(t *testing.T) {
	cfg := JWTConfig{Secret: "s3cret", Issuer: "profile-creator"}
	r := adminRouter(cfg)

	admin, err := IssueAdminToken(cfg, "ops-1", "admin", time.Hour)
	require.NoError(t, err)
	user, err := IssueAdminToken(cfg, "u-1", "", time.Hour)
	require.NoError(t, err)
	foreign, err := IssueAdminToken(JWTConfig{Secret: "s3cret", Issuer: "elsewhere"}, "ops-1", "admin", time.Hour)
	require.NoError(t, err)
	expired, err := IssueAdminToken(cfg, "ops-1", "admin", -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"admin header", "Bearer " + admin, "", http.StatusOK},
		{"admin query", "", admin, http.StatusOK},
		{"plain user", "Bearer " + user, "", http.StatusForbidden},
		{"wrong issuer", "Bearer " + foreign, "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/admin"
			if tc.query != "" {
				target += "?access_token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "ops-1", w.Body.String())
			}
		})
	}
}

func TestJWTAuth_MissingSecret(t *testing.T) {
	w := httptest.NewRecorder()
	adminRouter(JWTConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoadSession(t *testing.T) {
	sessions := services.NewSessionService(cache.NewMemoryCache(), time.Hour)
	cookie := CookieConfig{Name: "pc_session", TTL: time.Hour}

	r := gin.New()
	r.Use(RequestLogger(logger.Discard()), LoadSession(sessions, cookie, logger.Discard()))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountID))
	})

	ss, err := sessions.Create(t.Context(), "acc-1", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pc_session", Value: ss.SessionID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "acc-1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pc_session", Value: "unknown"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "", w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "pc_session=;")
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if role := c.Query("role"); role != "" {
			c.Set(CtxRole, role)
		}
		c.Next()
	}, RequireRole(models.RoleAdmin, "Editor"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"":       http.StatusUnauthorized,
		"user":   http.StatusForbidden,
		"admin":  http.StatusNoContent,
		"ADMIN":  http.StatusNoContent,
		"editor": http.StatusNoContent,
	}
	for role, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?role="+role, nil))
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}

func TestRequestLogger_PropagatesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logger.Discard()))
	r.GET("/forms/:type", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/forms/dap", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
}

type downCache struct{}

func (downCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}
func (downCache) SetJSON(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}
func (downCache) Del(context.Context, ...string) error { return errors.New("connection refused") }

func TestLoadSession_StoreOutageKeepsCookie(t *testing.T) {
	sessions := services.NewSessionService(downCache{}, time.Hour)
	cookie := CookieConfig{Name: "pc_session", TTL: time.Hour}

	r := gin.New()
	r.Use(LoadSession(sessions, cookie, logger.Discard()))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pc_session", Value: "still-valid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", w.Body.String())
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}
