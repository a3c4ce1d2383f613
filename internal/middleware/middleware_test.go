package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/db/dbtest"
	"backoffice/internal/domain"
	"backoffice/internal/session"
	"backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	repos   *store.Store
	manager *session.Manager
	router  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := dbtest.New(t)
	repos := store.New(gdb)
	manager := session.NewManager(session.NewDBStore(gdb), repos.Users, "secret", 24*time.Hour)

	r := gin.New()
	r.Use(RequestLogger())
	protected := r.Group("/api", SessionAuth(manager), DemoReadOnly())
	protected.GET("/things", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentSession(c).UserID})
	})
	protected.POST("/things", func(c *gin.Context) { c.Status(http.StatusCreated) })
	protected.GET("/admin", AdminOnlyMiddleware(repos.Users), func(c *gin.Context) { c.Status(http.StatusOK) })
	return &env{repos: repos, manager: manager, router: r}
}

func (e *env) login(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()
	token, _, err := e.manager.Start(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func (e *env) do(method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSessionAuth(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/things", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = e.do(http.MethodGet, "/api/things", &http.Cookie{Name: SessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin, err := e.repos.Users.Get(context.Background(), 1)
	require.NoError(t, err)
	w = e.do(http.MethodGet, "/api/things", e.login(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1}`, w.Body.String())
}

func TestDemoSessionsAreReadOnly(t *testing.T) {
	e := newEnv(t)
	demo, err := e.repos.Users.FindOrCreateDemo(context.Background())
	require.NoError(t, err)
	cookie := e.login(t, demo)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/things", cookie).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/things", cookie).Code)

	admin, err := e.repos.Users.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/things", e.login(t, admin)).Code)
}

func TestAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user, err := e.repos.Users.Create(ctx, "bob", "password", domain.RoleUser)
	require.NoError(t, err)
	admin, err := e.repos.Users.Get(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/admin", e.login(t, user)).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/admin", e.login(t, admin)).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rl.Cleanup(-time.Second) // Everything counts as idle
	assert.Empty(t, rl.limiters)
}

func TestRequestLoggerLevelsAndRequestID(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "req-123", hook.LastEntry().Data["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
