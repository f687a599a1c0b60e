package site

import (
	"encoding/xml"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SabirovSR/portfolio/internal/i18n"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type page struct {
	path       string
	changeFreq string
	priority   string
}

var sitemapPages = []page{
	{"/", "monthly", "1.0"},
	{"/privacy", "yearly", "0.3"},
}

// buildSitemap lists every public page once per supported locale.
func buildSitemap(base, lastMod string) urlSet {
	set := urlSet{NS: sitemapNS}
	for _, tag := range i18n.Supported {
		for _, p := range sitemapPages {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        base + p.path + "?" + url.Values{"lang": {tag.String()}}.Encode(),
				LastMod:    lastMod,
				ChangeFreq: p.changeFreq,
				Priority:   p.priority,
			})
		}
	}
	return set
}

func (s *Server) sitemap(c *gin.Context) {
	body, err := xml.MarshalIndent(buildSitemap(s.opts.SiteURL, s.started.Format("2006-01-02")), "", "  ")
	if err != nil {
		log.Printf("Error rendering sitemap: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
