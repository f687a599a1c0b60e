// Package templates embeds the site's HTML templates. Each file is a
// template named after its base name, so fragments can include each other.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded template into one set.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
