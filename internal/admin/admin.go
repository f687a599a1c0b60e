// Package admin is the privacy-conscious admin area: login, site stats,
// recent visitors and contact submission outcomes.
package admin

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SabirovSR/portfolio/internal/store"
	"github.com/SabirovSR/portfolio/internal/visitor"
)

const (
	tokenCookie   = "admin_token"
	tokenLifetime = 24 * time.Hour
	listLimit     = 200
)

// Store is what the admin pages read from.
type Store interface {
	Stats(ctx context.Context, now time.Time) (*store.Stats, error)
	RecentVisitors(ctx context.Context, limit int) ([]store.Visit, error)
	RecentSubmissions(ctx context.Context, limit int) ([]store.Submission, error)
	CleanupVisitors(ctx context.Context, before time.Time) (int64, error)
}

type Credentials struct {
	Username string
	Password string
}

type Handler struct {
	store     Store
	hasher    *visitor.Hasher
	token     string
	creds     Credentials
	debug     bool
	retention time.Duration
	now       func() time.Time
}

// New prepares the admin area. In debug mode missing credentials fall back
// to admin/admin123; in release mode they leave login disabled.
func New(st Store, h *visitor.Hasher, creds Credentials, retention time.Duration, debug bool) (*Handler, error) {
	token, err := visitor.RandomToken()
	if err != nil {
		return nil, err
	}

	if debug {
		if creds.Username == "" {
			creds.Username = "admin"
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
		if creds.Password == "" {
			creds.Password = "admin123"
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
		log.Printf("Admin token (dev only): %s", token)
	} else if creds.Username == "" || creds.Password == "" {
		log.Println("WARNING: ADMIN_USERNAME/ADMIN_PASSWORD not set, admin login disabled")
	}
	log.Printf("Admin access available at: /admin/login")

	return &Handler{
		store:     st,
		hasher:    h,
		token:     token,
		creds:     creds,
		debug:     debug,
		retention: retention,
		now:       time.Now,
	}, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// authMiddleware redirects to the login page unless the admin cookie matches.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenCookie)
		if err != nil || !equal(token, h.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Register mounts the admin routes on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/admin/login", h.loginPage)
	r.POST("/admin/login", h.login)
	r.GET("/admin/logout", h.logout)

	g := r.Group("/admin")
	g.Use(h.authMiddleware())

	g.GET("/dashboard", h.dashboard)
	g.GET("/api/stats", h.statsJSON)
	g.GET("/visitors", h.visitors)
	g.GET("/submissions", h.submissions)
	g.GET("/export/stats", h.export)
	g.POST("/privacy/delete-visitor-data", h.privacyCleanup)
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	who := h.hasher.Hash(c.ClientIP())

	enabled := h.creds.Username != "" && h.creds.Password != ""
	// evaluate both comparisons so timing does not reveal which one failed
	userOK := equal(username, h.creds.Username)
	passOK := equal(password, h.creds.Password)
	if !enabled || !userOK || !passOK {
		log.Printf("Failed admin login attempt from %s", who)
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(tokenCookie, h.token, int(tokenLifetime.Seconds()), "/admin", "", !h.debug, true)
	log.Printf("Admin login successful from %s", who)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/admin", "", !h.debug, true)
	log.Printf("Admin logout from %s", h.hasher.Hash(c.ClientIP()))
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), h.now())
	if err != nil {
		log.Printf("Error loading admin stats: %v", err)
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
}

func (h *Handler) statsJSON(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), h.now())
	if err != nil {
		log.Printf("Error loading admin stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) visitors(c *gin.Context) {
	visits, err := h.store.RecentVisitors(c.Request.Context(), listLimit)
	if err != nil {
		log.Printf("Error loading visitors: %v", err)
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visits})
}

func (h *Handler) submissions(c *gin.Context) {
	subs, err := h.store.RecentSubmissions(c.Request.Context(), listLimit)
	if err != nil {
		log.Printf("Error loading submissions: %v", err)
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load submissions"})
		return
	}
	c.HTML(http.StatusOK, "admin-submissions.html", gin.H{"submissions": subs})
}

// export serves the stats as a JSON download for backups or analysis.
func (h *Handler) export(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	log.Printf("Admin stats exported by %s", h.hasher.Hash(c.ClientIP()))
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) privacyCleanup(c *gin.Context) {
	n, err := h.store.CleanupVisitors(c.Request.Context(), h.now().Add(-h.retention))
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "privacy cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "deleted": n})
}
