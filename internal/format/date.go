package format

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

type dateStyle struct {
	layout string
	locale monday.Locale
}

const (
	monthDayYear = "January 2, 2006"
	dayMonthYear = "2 January 2006"
)

var fallbackStyle = dateStyle{layout: monthDayYear, locale: monday.LocaleEnUS}

// long date layouts keyed by "language" or "language-country"; the regional key wins.
var longDateStyles = map[string]dateStyle{
	"en":    fallbackStyle,
	"en-gb": {layout: dayMonthYear, locale: monday.LocaleEnGB},
	"en-au": {layout: dayMonthYear, locale: monday.LocaleEnGB},
	"en-nz": {layout: dayMonthYear, locale: monday.LocaleEnGB},
	"en-ie": {layout: dayMonthYear, locale: monday.LocaleEnGB},
	"en-in": {layout: dayMonthYear, locale: monday.LocaleEnGB},
	"fr":    {layout: dayMonthYear, locale: monday.LocaleFrFR},
	"fr-ca": {layout: dayMonthYear, locale: monday.LocaleFrCA},
	"de":    {layout: "2. January 2006", locale: monday.LocaleDeDE},
	"es":    {layout: "2 de January de 2006", locale: monday.LocaleEsES},
	"pt":    {layout: "2 de January de 2006", locale: monday.LocalePtBR},
	"it":    {layout: dayMonthYear, locale: monday.LocaleItIT},
	"nl":    {layout: dayMonthYear, locale: monday.LocaleNlNL},
	"ja":    {layout: "2006年1月2日", locale: monday.LocaleJaJP},
	"zh":    {layout: "2006年1月2日", locale: monday.LocaleZhCN},
}

// LongDate formats t as a long calendar date for the given language and country, e.g.
// "June 1, 2024" for en-US or "1 June 2024" for en-GB. The date is taken in UTC so the
// rendered day matches the platform timestamp. Unknown locales fall back to en-US.
func LongDate(t time.Time, language, country string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	region := strings.ToLower(strings.TrimSpace(country))

	style, ok := longDateStyles[lang+"-"+region]
	if !ok {
		style, ok = longDateStyles[lang]
	}
	if !ok {
		style = fallbackStyle
	}
	return monday.Format(t.UTC(), style.layout, style.locale)
}
