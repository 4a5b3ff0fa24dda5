// Package i18n resolves the storefront locale for a request from the URL prefix,
// the Accept-Language header, or the configured default.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Locale is the language and country a request is served in. Language and Country are
// upper-case, the form the storefront API expects for LanguageCode and CountryCode.
type Locale struct {
	Language   string `json:"language"`
	Country    string `json:"country"`
	PathPrefix string `json:"pathPrefix"`
}

// Tag returns the BCP 47 form, e.g. "en-US".
func (l Locale) Tag() string {
	return strings.ToLower(l.Language) + "-" + strings.ToUpper(l.Country)
}

// Prefix returns the lower-case URL segment for the locale, e.g. "en-us".
func (l Locale) Prefix() string {
	return strings.ToLower(l.Language) + "-" + strings.ToLower(l.Country)
}

// IsZero reports whether the locale is unset.
func (l Locale) IsZero() bool {
	return l.Language == "" && l.Country == ""
}

// Supported lists the locales the storefront serves.
var Supported = []Locale{
	{Language: "EN", Country: "US"},
	{Language: "EN", Country: "CA"},
	{Language: "EN", Country: "GB"},
	{Language: "EN", Country: "AU"},
	{Language: "FR", Country: "CA"},
	{Language: "FR", Country: "FR"},
	{Language: "DE", Country: "DE"},
	{Language: "ES", Country: "ES"},
	{Language: "IT", Country: "IT"},
	{Language: "NL", Country: "NL"},
	{Language: "PT", Country: "BR"},
	{Language: "JA", Country: "JP"},
}

// Resolver picks a Locale for each request.
type Resolver struct {
	def       Locale
	supported []Locale
	byPrefix  map[string]Locale
	matcher   language.Matcher
}

// NewResolver builds a resolver whose fallback is the given language and country. The default
// is served even when it is absent from Supported.
func NewResolver(defaultLanguage, defaultCountry string) *Resolver {
	def := Locale{Language: strings.ToUpper(defaultLanguage), Country: strings.ToUpper(defaultCountry)}

	// the matcher falls back to its first tag, so the default goes first
	supported := []Locale{def}
	for _, l := range Supported {
		if l.Language == def.Language && l.Country == def.Country {
			continue
		}
		supported = append(supported, l)
	}

	tags := make([]language.Tag, 0, len(supported))
	byPrefix := make(map[string]Locale, len(supported))
	for _, l := range supported {
		tags = append(tags, language.Make(l.Tag()))
		byPrefix[l.Prefix()] = l
	}

	return &Resolver{
		def:       def,
		supported: supported,
		byPrefix:  byPrefix,
		matcher:   language.NewMatcher(tags),
	}
}

// Default returns the fallback locale.
func (r *Resolver) Default() Locale {
	return r.def
}

// FromPrefix resolves a URL segment such as "en-us" or "FR-ca". It reports false when the
// segment is not a supported locale.
func (r *Resolver) FromPrefix(segment string) (Locale, bool) {
	l, ok := r.byPrefix[strings.ToLower(strings.TrimSpace(segment))]
	if !ok {
		return Locale{}, false
	}
	l.PathPrefix = "/" + l.Prefix()
	return l, true
}

// FromAcceptLanguage matches an Accept-Language header against the supported locales.
func (r *Resolver) FromAcceptLanguage(header string) Locale {
	header = strings.TrimSpace(header)
	if header == "" {
		return r.def
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return r.def
	}
	_, idx, confidence := r.matcher.Match(prefs...)
	if confidence == language.No || idx < 0 || idx >= len(r.supported) {
		return r.def
	}
	return r.supported[idx]
}

// FromRequest resolves the locale for r. A non-empty prefix must name a supported locale;
// otherwise false is returned and the caller should treat the path as unknown.
func (r *Resolver) FromRequest(req *http.Request, prefix string) (Locale, bool) {
	if strings.TrimSpace(prefix) != "" {
		return r.FromPrefix(prefix)
	}
	if req == nil {
		return r.def, true
	}
	return r.FromAcceptLanguage(req.Header.Get("Accept-Language")), true
}
