package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/metrics"
	"backoffice/internal/middleware"
	"backoffice/internal/session"
	"backoffice/internal/store"

	"github.com/gin-contrib/cors"  // CORS with credentials for the dev UI
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	DB        *gorm.DB
	Store     *store.Store
	Sessions  *session.Manager
	Reminders ReminderTester
	Metrics   *metrics.Metrics
	Limiter   *middleware.RateLimiter // Applied to login, signup and demo login
	Redis     redis.Cmdable           // Optional cache for the admin user listing

	CORSOrigins    []string
	TrustedProxies []string
	StaticDir      string
	DemoMode       bool
	SecureCookies  bool
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	registerValidation()

	r := gin.New()
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(middleware.RequestLogger(), middleware.Recovery(), d.Metrics.Instrument())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", healthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	cookies := CookieConfig{Secure: d.SecureCookies}
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.Limiter.Handler(), h}
	}

	// Auth routes
	public := r.Group("/api")
	public.POST("/create-user", limited(CreateUserHandler(d.Store.Users, d.Sessions, cookies, d.Metrics, d.Redis))...)
	public.POST("/login", limited(LoginHandler(d.Store.Users, d.Sessions, cookies, d.Metrics))...)
	if d.DemoMode {
		public.POST("/demo_login", limited(DemoLoginHandler(d.Store.Users, d.Sessions, cookies, d.Metrics))...)
	}
	public.POST("/logout", LogoutHandler(d.Sessions, cookies))
	public.GET("/check_auth", CheckAuthHandler(d.Sessions, cookies))

	// Entity routes (session required, demo sessions read-only)
	protected := r.Group("/api", middleware.SessionAuth(d.Sessions), middleware.DemoReadOnly())
	registerEntity[domain.Client, domain.Client, clientRequest](protected, "/clients", "Client", d.Store.Clients)
	registerEntity[domain.Service, domain.Service, serviceRequest](protected, "/services", "Service", d.Store.Services)
	registerEntity[domain.Quote, domain.QuoteView, quoteRequest](protected, "/quotes", "Quote", d.Store.Quotes)
	registerEntity[domain.Project, domain.ProjectView, projectRequest](protected, "/projects", "Project", d.Store.Projects)
	registerEntity[domain.Invoice, domain.InvoiceView, invoiceRequest](protected, "/invoices", "Invoice", d.Store.Invoices)
	registerEntity[domain.Task, domain.TaskView, taskRequest](protected, "/tasks", "Task", d.Store.Tasks)
	registerEntity[domain.Bug, domain.BugView, bugRequest](protected, "/bugs", "Bug", d.Store.Bugs)

	protected.GET("/settings/:userId", GetSettingsHandler(d.Store.Settings))
	protected.PUT("/settings/:userId", UpdateSettingsHandler(d.Store.Settings))
	protected.POST("/send-test-project-reminder/:userId", TestReminderHandler(d.Reminders))

	// Admin routes
	protected.GET("/users", middleware.AdminOnlyMiddleware(d.Store.Users), ListUsersHandler(d.Store.Users, d.Redis))

	r.NoRoute(spaHandler(d.StaticDir))
	return r, nil
}

// healthHandler reports whether the database answers a ping
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			middleware.Logger(c).WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// spaHandler serves built UI files and falls back to index.html for client-side routes.
// Unknown /api paths stay JSON 404s.
func spaHandler(dir string) gin.HandlerFunc {
	root := ""
	if dir != "" {
		root, _ = filepath.Abs(dir)
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if root == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		file := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		index := filepath.Join(root, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	}
}
