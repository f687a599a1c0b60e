package config

import (
	"errors"
	"fmt"
	"os"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DeliveryAPI  = "api"
	DeliverySMTP = "smtp"
)

// Config holds application configuration.
type Config struct {
	Port         string
	GinMode      string
	DatabasePath string
	// SiteURL is the public origin used for absolute links such as the sitemap.
	SiteURL      string

	Contact ContactConfig
	SMTP    SMTPConfig
	Admin   AdminConfig

	SessionTTL       time.Duration
	VisitorRetention time.Duration
	DefaultLocale    string
}

// ContactConfig controls where submissions go.
type ContactConfig struct {
	Delivery   string
	BackendURL string
	Endpoint   string
	APIKey     string
	ResetDelay time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type AdminConfig struct {
	Username string
	Password string
}

// keys maps config keys to the environment variables the site has always used.
var keys = map[string]string{
	"port":               "PORT",
	"gin_mode":           "GIN_MODE",
	"database.path":      "DATABASE_PATH",
	"site.url":           "SITE_URL",
	"contact.delivery":   "CONTACT_DELIVERY",
	"contact.backend":    "BACKEND_URL",
	"contact.endpoint":   "CONTACT_ENDPOINT",
	"contact.api_key":    "PUBLIC_API_KEY",
	"contact.reset":      "STATUS_RESET_DELAY",
	"smtp.host":          "SMTP_HOST",
	"smtp.port":          "SMTP_PORT",
	"smtp.user":          "SMTP_USER",
	"smtp.pass":          "SMTP_PASS",
	"smtp.to":            "TO_EMAIL",
	"admin.username":     "ADMIN_USERNAME",
	"admin.password":     "ADMIN_PASSWORD",
	"session.ttl":        "SESSION_TTL",
	"visitors.retention": "VISITOR_RETENTION",
	"locale.default":     "DEFAULT_LOCALE",
}

// Load reads configuration from the environment and, if PORTFOLIO_CONFIG
// points to one, a config file. Environment wins over the file.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("database.path", "portfolio.db")
	v.SetDefault("site.url", "https://sabirov.tech")
	v.SetDefault("contact.delivery", DeliveryAPI)
	v.SetDefault("contact.backend", "http://backend:8000")
	v.SetDefault("contact.endpoint", "")
	v.SetDefault("contact.api_key", "public-key")
	v.SetDefault("contact.reset", "10s")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("visitors.retention", "8760h")
	v.SetDefault("locale.default", "ru")

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("PORTFOLIO_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	c := Config{
		Port:         v.GetString("port"),
		GinMode:      v.GetString("gin_mode"),
		DatabasePath: v.GetString("database.path"),
		SiteURL:      strings.TrimRight(v.GetString("site.url"), "/"),
		Contact: ContactConfig{
			Delivery:   strings.ToLower(v.GetString("contact.delivery")),
			BackendURL: strings.TrimRight(v.GetString("contact.backend"), "/"),
			Endpoint:   v.GetString("contact.endpoint"),
			APIKey:     v.GetString("contact.api_key"),
			ResetDelay: v.GetDuration("contact.reset"),
		},
		SMTP: SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetString("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			To:   v.GetString("smtp.to"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		SessionTTL:       v.GetDuration("session.ttl"),
		VisitorRetention: v.GetDuration("visitors.retention"),
		DefaultLocale:    v.GetString("locale.default"),
	}
	if c.Contact.Endpoint == "" && c.Contact.BackendURL != "" {
		c.Contact.Endpoint = c.Contact.BackendURL + "/api/public/contact"
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the combinations Load cannot default its way out of.
func (c Config) Validate() error {
	var errs []error
	switch c.Contact.Delivery {
	case DeliveryAPI:
		if c.Contact.Endpoint == "" {
			errs = append(errs, errors.New("contact endpoint is empty: set BACKEND_URL or CONTACT_ENDPOINT"))
		}
	case DeliverySMTP:
		if c.SMTP.User == "" || c.SMTP.Pass == "" {
			errs = append(errs, errors.New("SMTP credentials not configured: set SMTP_USER and SMTP_PASS"))
		}
		if c.SMTP.To == "" {
			errs = append(errs, errors.New("TO_EMAIL is required for smtp delivery"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CONTACT_DELIVERY %q", c.Contact.Delivery))
	}
	if c.Contact.ResetDelay <= 0 {
		errs = append(errs, errors.New("STATUS_RESET_DELAY must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.VisitorRetention <= 0 {
		errs = append(errs, errors.New("VISITOR_RETENTION must be positive"))
	}
	if u, err := url.Parse(c.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("SITE_URL %q is not an absolute url", c.SiteURL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Release reports whether the site runs in gin release mode.
func (c Config) Release() bool { return c.GinMode == "release" }
