package collections

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const documentExt = ".json"

var languagePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Layout maps a collection and language onto document locations.
type Layout struct {
	Dir             string
	Name            string
	DefaultLanguage string
}

// DefaultPath is the document read when a language has none of its own.
func (l Layout) DefaultPath() string {
	return filepath.Join(l.Dir, l.Name+documentExt)
}

// LanguagePath is the dedicated document for language.
func (l Layout) LanguagePath(language string) string {
	return filepath.Join(l.Dir, l.Name+"-"+l.Language(language)+documentExt)
}

// Language lower-cases language and maps anything that is not a plain
// language tag, including path fragments, to the default language.
func (l Layout) Language(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || !languagePattern.MatchString(language) {
		return l.defaultLanguage()
	}
	return language
}

// IsDefault reports whether language is the authoritative language.
func (l Layout) IsDefault(language string) bool {
	return l.Language(language) == l.defaultLanguage()
}

func (l Layout) defaultLanguage() string {
	if lang := strings.ToLower(strings.TrimSpace(l.DefaultLanguage)); lang != "" {
		return lang
	}
	return "en"
}

// Resolver picks the document to read for a language.
type Resolver struct {
	layout Layout
	exists func(path string) bool
}

// NewResolver builds a resolver that checks the local filesystem.
func NewResolver(layout Layout) Resolver {
	return Resolver{layout: layout, exists: fileExists}
}

// Resolve returns the dedicated document of language when it exists and
// the default document otherwise. An empty dedicated file still counts as
// existing. Resolve never fails; a missing default document is created
// lazily by the store.
func (r Resolver) Resolve(language string) string {
	dedicated := r.layout.LanguagePath(language)
	if r.exists(dedicated) {
		return dedicated
	}
	return r.layout.DefaultPath()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
