// Package locale normalizes language codes used to pick per-language
// collection documents.
package locale

import (
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// QueryParam selects a language on read requests.
const QueryParam = "lang"

// Normalize parses code as a BCP 47 tag and returns its lower-cased form,
// e.g. "pt-BR" becomes "pt-br". Empty or unparsable codes return fallback.
func Normalize(code, fallback string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return fallback
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return fallback
	}
	return strings.ToLower(tag.String())
}

// FromRequest resolves the language of r from the lang query parameter, then
// the Accept-Language header, then fallback. When supported is non-empty a
// regional code such as "nl-nl" collapses to its base "nl" if only the base
// is supported, and Accept-Language entries outside the set are skipped.
func FromRequest(r *http.Request, fallback string, supported ...string) string {
	if r == nil {
		return fallback
	}
	if value := strings.TrimSpace(r.URL.Query().Get(QueryParam)); value != "" {
		if code := Normalize(value, ""); code != "" {
			if matched, ok := match(code, supported); ok {
				return matched
			}
			return code
		}
		return fallback
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err != nil {
			return fallback
		}
		for _, tag := range tags {
			code := Normalize(tag.String(), "")
			if code == "" {
				continue
			}
			if len(supported) == 0 {
				return code
			}
			if matched, ok := match(code, supported); ok {
				return matched
			}
		}
	}
	return fallback
}

func match(code string, supported []string) (string, bool) {
	if len(supported) == 0 {
		return "", false
	}
	if slices.Contains(supported, code) {
		return code, true
	}
	if base := Base(code); slices.Contains(supported, base) {
		return base, true
	}
	return "", false
}

// Base returns the primary subtag of an already normalized code ("pt-br"
// yields "pt").
func Base(code string) string {
	primary, _, _ := strings.Cut(code, "-")
	return primary
}
