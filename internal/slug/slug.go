// Package slug turns titles into URL-safe identifiers and keeps them unique
// within a collection.
package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const placeholderPrefix = "item"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// now is swapped in tests.
var now = time.Now

// Slugify lower-cases title, folds accented letters to their base form,
// collapses every run of characters outside [a-z0-9] into one hyphen and
// trims hyphens from both ends. The result may be empty.
func Slugify(title string) string {
	folded := foldDiacritics(title)
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// Unique returns Slugify(title), suffixed with -1, -2, ... until it does not
// collide with any entry of existing. A title that slugifies to nothing gets
// a placeholder base so the result is never empty.
func Unique(title string, existing []string) string {
	base := Slugify(title)
	if base == "" {
		base = placeholder(title)
	}

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	candidate := base
	for i := 1; ; i++ {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

// StripLanguageSuffix removes a trailing "-<language>" from slug, so a
// translated "topic-nl" maps back to "topic".
func StripLanguageSuffix(slug, language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return slug
	}
	trimmed, found := strings.CutSuffix(slug, "-"+language)
	if !found || trimmed == "" {
		return slug
	}
	return trimmed
}

// Valid reports whether value already is a canonical slug.
func Valid(value string) bool {
	return value != "" && goslug.IsValid(value) && Slugify(value) == value
}

func placeholder(title string) string {
	seed := strings.TrimSpace(title)
	if seed == "" {
		seed = strconv.FormatInt(now().UnixNano(), 10)
	}
	sum := sha256.Sum256([]byte(seed))
	return placeholderPrefix + "-" + hex.EncodeToString(sum[:4])
}

func foldDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return folded
}
