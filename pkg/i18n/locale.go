package i18n

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// DefaultLocale is used when a request does not name any usable locale.
const DefaultLocale = "en_US"

// maxAcceptLanguageLength bounds the Accept-Language header we parse.
const maxAcceptLanguageLength = 4096

// ToPOSIX converts a locale code like "en-us" to its POSIX form "en_US".
// Codes without a region are returned unchanged.
func ToPOSIX(code string) string {
	lang, region, ok := strings.Cut(code, "-")
	if !ok {
		return code
	}
	return lang + "_" + strings.ToUpper(region)
}

// BaseLanguage strips the region from a POSIX or BCP 47 code ("en_US" and "en-US" give "en").
func BaseLanguage(code string) string {
	if i := strings.IndexAny(code, "_-"); i > 0 {
		return code[:i]
	}
	return code
}

type weightedLocale struct {
	code  string
	score float64
}

// HTTPLocales returns the POSIX locale codes named by an Accept-Language
// header, highest quality first. Entries keep header order when their scores
// tie. An unparsable quality counts as 0 and a missing one as 1. The default
// locale is appended when the header does not already name it, and an empty
// header yields only the default.
//
//	HTTPLocales("es-ar,es;q=0.8,en-us;q=0.5", "en_US")
//	// [es_AR es en_US]
func HTTPLocales(header, def string) []string {
	def = ToPOSIX(def)

	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var locales []weightedLocale
	for part := range strings.SplitSeq(header, ",") {
		code, params, hasParams := strings.Cut(strings.TrimSpace(part), ";")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		score := 1.0
		if params = strings.TrimSpace(params); hasParams && strings.HasPrefix(params, "q=") {
			q, err := strconv.ParseFloat(params[2:], 64)
			if err != nil {
				q = 0
			}
			score = q
		}

		locales = append(locales, weightedLocale{code: ToPOSIX(code), score: score})
	}

	if len(locales) == 0 {
		return []string{def}
	}

	slices.SortStableFunc(locales, func(a, b weightedLocale) int {
		return cmp.Compare(b.score, a.score)
	})

	codes := make([]string, 0, len(locales)+1)
	for _, l := range locales {
		codes = append(codes, l.code)
	}
	if !slices.Contains(codes, def) {
		codes = append(codes, def)
	}
	return codes
}

// ExpandLanguages adds the base language after every POSIX locale so that
// a translation for "es" is used when "es_AR" is not available.
// Duplicates are removed keeping the first occurrence.
//
//	ExpandLanguages([]string{"es_AR", "en_US", "en"})
//	// [es_AR es en_US en]
func ExpandLanguages(locales []string) []string {
	langs := make([]string, 0, len(locales)*2)
	add := func(code string) {
		if code != "" && !slices.Contains(langs, code) {
			langs = append(langs, code)
		}
	}

	for _, code := range locales {
		add(code)
		if strings.Contains(code, "_") {
			add(BaseLanguage(code))
		}
	}
	return langs
}
