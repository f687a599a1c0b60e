// Package i18n negotiates the visitor locale and renders site copy from a
// message catalog. Russian is the default locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/SabirovSR/portfolio/internal/contact"
)

// Supported locales; the first one is the fallback.
var Supported = []language.Tag{language.Russian, language.English}

var (
	matcher = language.NewMatcher(Supported)
	cat     = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + key + ": " + err.Error())
			}
		}
	}
	return b
}

// Match picks the best supported locale for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Parse resolves an explicit locale choice such as "en" or "ru".
// ok is false when the value is not a supported locale.
func Parse(s string) (tag language.Tag, ok bool) {
	t, err := language.Parse(s)
	if err != nil {
		return Supported[0], false
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return Supported[0], false
	}
	return Supported[idx], true
}

// Messages renders catalog entries for one locale.
type Messages struct {
	tag language.Tag
	p   *message.Printer
}

var _ contact.Localizer = (*Messages)(nil)

func For(tag language.Tag) *Messages {
	return &Messages{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (m *Messages) Lang() string { return m.tag.String() }

// Text looks up key and formats it with args.
func (m *Messages) Text(key string, args ...any) string {
	return m.p.Sprintf(key, args...)
}

func (m *Messages) ChannelName(ch contact.Channel) string {
	return m.Text("channels." + ch.String())
}

func (m *Messages) Placeholder(ch contact.Channel) string {
	return m.Text("channels.placeholders." + ch.String())
}

func (m *Messages) Success() string       { return m.Text("form.success") }
func (m *Messages) Failure() string       { return m.Text("form.error") }
func (m *Messages) MissingFields() string { return m.Text("form.validation.fillRequired") }

func (m *Messages) MissingContact(ch contact.Channel) string {
	return m.Text("form.validation.fillContact", m.ChannelName(ch))
}
