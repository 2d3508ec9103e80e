// Package i18n renders localized error messages.
//
// Messages are text/template strings keyed by error code. Templates are
// compiled on first use and cached per catalog.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale used when none is requested or matched.
const DefaultLocale = "en-US"

// Code is an error code; see internal/platform/errors.
type Code = string

// Catalog holds the message templates of one locale.
type Catalog struct {
	locale   string
	messages map[Code]string

	mu       sync.Mutex
	compiled map[Code]*template.Template
}

var (
	catalogs = map[string]*Catalog{
		DefaultLocale: NewCatalog(DefaultLocale, enUSMessages),
		"pt-BR":       NewCatalog("pt-BR", ptBRMessages),
	}

	supportedTags = []language.Tag{
		language.MustParse(DefaultLocale),
		language.MustParse("pt-BR"),
	}
	tagMatcher = language.NewMatcher(supportedTags)
)

// NewCatalog returns a catalog for locale. messages is copied.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for code, text := range messages {
		cloned[code] = text
	}
	return &Catalog{locale: locale, messages: cloned, compiled: map[Code]*template.Template{}}
}

// GetCatalog returns the catalog closest to locale, which may be a plain
// tag or an Accept-Language value. Unknown locales get the en-US catalog.
func GetCatalog(locale string) *Catalog {
	if c, ok := catalogs[strings.TrimSpace(locale)]; ok {
		return c
	}
	return catalogs[MatchLocale(locale)]
}

// MatchLocale picks the closest supported locale for an Accept-Language
// style value such as "pt-BR,pt;q=0.9,en;q=0.5".
func MatchLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(acceptLanguage))
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedTags[index].String()
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata as template data. An
// unknown code renders as itself and a broken template renders verbatim.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.messages[code]
	if !ok {
		return code
	}
	tmpl := c.template(code, text)
	if tmpl == nil {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}

// template returns the compiled template for code, or nil when text does
// not parse. Parse failures are cached too.
func (c *Catalog) template(code Code, text string) *template.Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tmpl, ok := c.compiled[code]; ok {
		return tmpl
	}
	tmpl, err := template.New(code).Parse(text)
	if err != nil {
		tmpl = nil
	}
	c.compiled[code] = tmpl
	return tmpl
}
