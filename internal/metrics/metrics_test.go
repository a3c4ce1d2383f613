package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestInstrumentCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Instrument())
	r.GET("/api/clients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `backoffice_http_requests_total{method="GET",path="/api/clients/:id",status="200"} 2`)
	assert.NotContains(t, body, `path="/api/clients/1"`)
}

func TestReminderRunAndLoginCounters(t *testing.T) {
	m := New()
	m.ReminderRun(2, 1, 0)
	m.LoginAttempt("password", false)

	body := scrape(t, m)
	assert.Contains(t, body, `backoffice_reminder_emails_total{outcome="sent"} 2`)
	assert.Contains(t, body, `backoffice_reminder_runs_total 1`)
	assert.Contains(t, body, `backoffice_auth_login_attempts_total{kind="password",outcome="failure"} 1`)
}
