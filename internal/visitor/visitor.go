// Package visitor tracks page views without storing raw IP addresses.
package visitor

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SabirovSR/portfolio/internal/store"
)

// Hasher turns client IPs into salted, truncated digests. The salt lives
// only in memory, so digests are consistent per process and not reversible
// across restarts.
type Hasher struct {
	salt string
}

func NewHasher() (*Hasher, error) {
	salt, err := RandomToken()
	if err != nil {
		return nil, err
	}
	return &Hasher{salt: salt}, nil
}

// NewHasherWithSalt is for tests and deterministic tooling.
func NewHasherWithSalt(salt string) *Hasher { return &Hasher{salt: salt} }

func (h *Hasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RandomToken returns 32 random bytes hex-encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Recorder persists visits.
type Recorder interface {
	RecordVisit(ctx context.Context, v store.Visit) error
}

var skipPrefixes = []string{"/static/", "/images/", "/admin/", "/api/", "/contact", "/favicon", "/privacy", "/sitemap.xml"}

func shouldSkip(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// LocaleKey is the gin context key holding the negotiated locale, if any.
const LocaleKey = "locale"

// Middleware records page views in the background. Static assets, admin
// and API calls, form fragments and Do-Not-Track requests are skipped.
func Middleware(rec Recorder, h *Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || shouldSkip(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()

		v := store.Visit{
			HashedIP:  h.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Locale:    c.GetString(LocaleKey),
			Timestamp: time.Now().UTC(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := rec.RecordVisit(ctx, v); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
	}
}
