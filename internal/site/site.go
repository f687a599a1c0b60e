// Package site serves the public portfolio pages and drives each visitor's
// contact form controller through HTMX fragments.
package site

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/language"

	"github.com/SabirovSR/portfolio/internal/contact"
	"github.com/SabirovSR/portfolio/internal/i18n"
	"github.com/SabirovSR/portfolio/internal/store"
	"github.com/SabirovSR/portfolio/internal/visitor"
)

const (
	sessionCookie = "contact_session"
	localeCookie  = "locale"
	messagesKey   = "messages"
)

// Recorder keeps the audit trail of submission attempts.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub store.Submission) error
}

type Options struct {
	// BackendURL enables the /api/public proxy when set.
	BackendURL    string
	DefaultLocale language.Tag
	SecureCookies bool
	ServiceName   string
	Content       Content
	// SiteURL is the public origin used in the sitemap.
	SiteURL       string
}

type Server struct {
	sessions *Sessions
	recorder Recorder
	hasher   *visitor.Hasher
	proxy    http.Handler
	opts     Options
	started  time.Time
}

func New(sessions *Sessions, rec Recorder, h *visitor.Hasher, opts Options) (*Server, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = "portfolio"
	}
	if opts.DefaultLocale == language.Und {
		opts.DefaultLocale = i18n.Supported[0]
	}
	if opts.Content.Name == "" {
		opts.Content = DefaultContent
	}
	if opts.SiteURL == "" {
		opts.SiteURL = "https://sabirov.tech"
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	s := &Server{sessions: sessions, recorder: rec, hasher: h, opts: opts, started: time.Now()}

	if opts.BackendURL != "" {
		target, err := url.Parse(opts.BackendURL)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("site: invalid backend url %q", opts.BackendURL)
		}
		s.proxy = newProxy(target)
	}
	return s, nil
}

// Register mounts the public routes on r.
func (s *Server) Register(r *gin.Engine) {
	r.Use(s.localeMiddleware())

	r.GET("/", s.index)
	r.GET("/privacy", s.privacy)
	r.GET("/sitemap.xml", s.sitemap)

	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submit)
	r.POST("/contact/channels/:channel", s.toggleChannel)
	r.GET("/contact/status", s.status)

	r.GET("/api/health", s.health)
	if s.proxy != nil {
		r.Any("/api/public/*path", gin.WrapH(s.proxy))
	}
}

func (s *Server) localeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := s.opts.DefaultLocale
		if lang := c.Query("lang"); lang != "" {
			if t, ok := i18n.Parse(lang); ok {
				tag = t
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(localeCookie, t.String(), 365*24*3600, "/", "", s.opts.SecureCookies, false)
			}
		} else if v, err := c.Cookie(localeCookie); err == nil {
			if t, ok := i18n.Parse(v); ok {
				tag = t
			}
		} else if h := c.GetHeader("Accept-Language"); h != "" {
			tag = i18n.Match(h)
		}

		c.Set(visitor.LocaleKey, tag.String())
		c.Set(messagesKey, i18n.For(tag))
		c.Next()
	}
}

func messages(c *gin.Context) *i18n.Messages {
	if m, ok := c.Get(messagesKey); ok {
		if msgs, ok := m.(*i18n.Messages); ok {
			return msgs
		}
	}
	return i18n.For(i18n.Supported[0])
}

// session returns the visitor's controller, creating one if needed, and
// refreshes the session cookie.
func (s *Server) session(c *gin.Context) *contact.Controller {
	id, _ := c.Cookie(sessionCookie)
	ctl, id := s.sessions.Get(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.sessions.TTL().Seconds()), "/", "", s.opts.SecureCookies, true)
	ctl.SetLocalizer(messages(c))
	return ctl
}

// peekState renders an existing session, or a fresh form without creating one.
func (s *Server) peekState(c *gin.Context) contact.State {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if ctl, ok := s.sessions.Peek(id); ok {
			return ctl.State()
		}
	}
	return contact.New(nil).State()
}

func (s *Server) view(c *gin.Context, st contact.State) gin.H {
	msgs := messages(c)
	return gin.H{
		"L":        msgs,
		"Lang":     msgs.Lang(),
		"State":    st,
		"Channels": contact.Channels(),
		"Content":  s.opts.Content,
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.view(c, s.peekState(c)))
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", s.view(c, contact.State{}))
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", s.view(c, s.peekState(c)))
}

func (s *Server) status(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-status.html", s.view(c, s.peekState(c)))
}

// contactFields is the fixed part of the posted form. Nil means the field
// was not posted and the controller keeps its value.
type contactFields struct {
	Name    *string `form:"name"`
	Message *string `form:"message"`
}

// applyFields copies posted form values into the controller so typing is
// never lost across fragment swaps.
func applyFields(c *gin.Context, ctl *contact.Controller, f contactFields) error {
	if f.Name != nil {
		if err := ctl.SetName(*f.Name); err != nil {
			return err
		}
	}
	if f.Message != nil {
		if err := ctl.SetMessage(*f.Message); err != nil {
			return err
		}
	}
	for _, ch := range contact.Channels() {
		if v, ok := c.GetPostForm("contact_" + ch.String()); ok {
			if err := ctl.SetContactValue(ch, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) toggleChannel(c *gin.Context) {
	ch, err := contact.ParseChannel(c.Param("channel"))
	if err != nil {
		c.String(http.StatusBadRequest, "unknown channel")
		return
	}

	var f contactFields
	if err := c.ShouldBindWith(&f, binding.FormPost); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	ctl := s.session(c)
	if err := applyFields(c, ctl, f); err != nil {
		s.sessionGone(c)
		return
	}
	if err := ctl.ToggleChannel(ch); err != nil {
		s.sessionGone(c)
		return
	}
	c.HTML(http.StatusOK, "contact-form.html", s.view(c, ctl.State()))
}

func (s *Server) submit(c *gin.Context) {
	var f contactFields
	if err := c.ShouldBindWith(&f, binding.FormPost); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	ctl := s.session(c)
	if err := applyFields(c, ctl, f); err != nil {
		s.sessionGone(c)
		return
	}

	channels := ctl.State().Selected
	err := ctl.Submit(c.Request.Context())
	switch {
	case errors.Is(err, contact.ErrSubmitInFlight):
		c.HTML(http.StatusConflict, "contact-form.html", s.view(c, ctl.State()))
		return
	case errors.Is(err, contact.ErrClosed):
		s.sessionGone(c)
		return
	}

	outcome := outcomeOf(err)
	if err != nil {
		log.Printf("[CONTACT] submission %s: %v", outcome, err)
	}
	s.record(c, outcome, channels)
	c.HTML(http.StatusOK, "contact-form.html", s.view(c, ctl.State()))
}

func (s *Server) sessionGone(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", s.opts.SecureCookies, true)
	c.HTML(http.StatusGone, "contact-form.html", s.view(c, contact.New(nil).State()))
}

func outcomeOf(err error) store.Outcome {
	var verr *contact.ValidationError
	switch {
	case err == nil:
		return store.OutcomeQueued
	case errors.As(err, &verr):
		return store.OutcomeInvalid
	default:
		return store.OutcomeFailed
	}
}

func (s *Server) record(c *gin.Context, outcome store.Outcome, channels []contact.Channel) {
	if s.recorder == nil {
		return
	}
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.String()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
	defer cancel()
	err := s.recorder.RecordSubmission(ctx, store.Submission{
		Outcome:   outcome,
		Channels:  names,
		HashedIP:  s.hasher.Hash(c.ClientIP()),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Error recording submission: %v", err)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   s.opts.ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// newProxy forwards /api/public/* to the backend unchanged.
func newProxy(target *url.URL) http.Handler {
	p := httputil.NewSingleHostReverseProxy(target)
	director := p.Director
	p.Director = func(req *http.Request) {
		director(req)
		req.Host = target.Host
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("[PROXY] %s %s: %v", r.Method, r.URL.Path, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"backend unavailable"}`))
	}
	return p
}
