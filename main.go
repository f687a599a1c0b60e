package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/SabirovSR/portfolio/internal/admin"
	"github.com/SabirovSR/portfolio/internal/config"
	"github.com/SabirovSR/portfolio/internal/contact"
	"github.com/SabirovSR/portfolio/internal/contactapi"
	"github.com/SabirovSR/portfolio/internal/i18n"
	"github.com/SabirovSR/portfolio/internal/mailer"
	"github.com/SabirovSR/portfolio/internal/site"
	"github.com/SabirovSR/portfolio/internal/store"
	"github.com/SabirovSR/portfolio/internal/visitor"
	"github.com/SabirovSR/portfolio/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	hasher, err := visitor.NewHasher()
	if err != nil {
		log.Fatalf("Failed to generate hashing salt: %v", err)
	}

	tmpl, err := templates.Load()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	sender := newSender(cfg)
	sessions := site.NewSessions(func() *contact.Controller {
		return contact.New(sender, contact.WithResetDelay(cfg.Contact.ResetDelay))
	}, cfg.SessionTTL)

	locale, ok := i18n.Parse(cfg.DefaultLocale)
	if !ok {
		log.Printf("Unsupported DEFAULT_LOCALE %q, using %s", cfg.DefaultLocale, locale)
	}

	srv, err := site.New(sessions, db, hasher, site.Options{
		BackendURL:    cfg.Contact.BackendURL,
		DefaultLocale: locale,
		SecureCookies: cfg.Release(),
		SiteURL:       cfg.SiteURL,
	})
	if err != nil {
		log.Fatalf("Failed to set up site: %v", err)
	}

	adm, err := admin.New(db, hasher, admin.Credentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, cfg.VisitorRetention, !cfg.Release())
	if err != nil {
		log.Fatalf("Failed to set up admin: %v", err)
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Static("/images", "./images")
	r.Static("/static", "./static")
	r.Use(visitor.Middleware(db, hasher))
	srv.Register(r)
	adm.Register(r)

	go sessions.Run(ctx)
	go cleanupLoop(ctx, db, cfg.VisitorRetention)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Portfolio listening on :%s (contact delivery: %s)", cfg.Port, cfg.Contact.Delivery)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	sessions.CloseAll()
}

func newSender(cfg config.Config) contact.Sender {
	if cfg.Contact.Delivery == config.DeliverySMTP {
		return mailer.New(mailer.Config{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.SMTP.To,
		})
	}
	return contactapi.New(cfg.Contact.Endpoint, cfg.Contact.APIKey)
}

// cleanupLoop drops visitor rows past the retention window at startup and daily.
func cleanupLoop(ctx context.Context, db *store.Store, retention time.Duration) {
	cleanup := func() {
		if _, err := db.CleanupVisitors(ctx, time.Now().Add(-retention)); err != nil && ctx.Err() == nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		}
	}
	cleanup()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanup()
		}
	}
}
