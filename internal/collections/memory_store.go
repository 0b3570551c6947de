package collections

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps encoded documents in memory. It resolves languages the
// way FileStore does and versions documents the way BunStore does, which
// makes it a stand-in for either in tests and ephemeral deployments.
type MemoryStore[T any] struct {
	mu        sync.RWMutex
	layout    Layout
	opts      options
	documents map[string][]byte
	versions  map[string]int64
}

var _ VersionedStore[struct{}] = (*MemoryStore[struct{}])(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore[T any](layout Layout, opts ...Option) (*MemoryStore[T], error) {
	if strings.TrimSpace(layout.Name) == "" {
		return nil, ErrCollectionName
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &MemoryStore[T]{
		layout:    layout,
		opts:      cfg,
		documents: map[string][]byte{},
		versions:  map[string]int64{},
	}, nil
}

// Put replaces the raw document of language, bypassing encoding. It is meant
// for seeding fixtures, including malformed ones.
func (s *MemoryStore[T]) Put(language string, document []byte) {
	language = s.layout.Language(language)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[language] = append([]byte(nil), document...)
	s.versions[language]++
}

// Document returns a copy of the raw document of language.
func (s *MemoryStore[T]) Document(language string) ([]byte, bool) {
	language = s.layout.Language(language)
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[language]
	return append([]byte(nil), doc...), ok
}

// Load implements Store.
func (s *MemoryStore[T]) Load(ctx context.Context, language string) ([]T, error) {
	records, _, err := s.LoadVersioned(ctx, language)
	return records, err
}

// LoadVersioned implements VersionedStore.
func (s *MemoryStore[T]) LoadVersioned(ctx context.Context, language string) ([]T, Version, error) {
	language = s.layout.Language(language)
	location := s.location(language)
	if err := ctx.Err(); err != nil {
		return nil, Version{}, readFailure(s.layout.Name, language, location, err)
	}

	s.mu.Lock()
	resolved := language
	doc, ok := s.documents[resolved]
	if !ok {
		resolved = s.layout.defaultLanguage()
		doc, ok = s.documents[resolved]
	}
	if !ok {
		doc = []byte(emptyDocument)
		s.documents[resolved] = doc
		s.versions[resolved] = 1
	}
	version := Version{Language: resolved, N: s.versions[resolved]}
	s.mu.Unlock()

	records, err := Decode[T](doc, s.opts.schema)
	if err != nil {
		return nil, Version{}, readFailure(s.layout.Name, language, location, err)
	}
	return records, version, nil
}

// Save implements Store.
func (s *MemoryStore[T]) Save(ctx context.Context, language string, records []T) error {
	return s.store(ctx, s.layout.Language(language), records, nil)
}

// SaveVersioned implements VersionedStore.
func (s *MemoryStore[T]) SaveVersioned(ctx context.Context, language string, records []T, expected Version) error {
	return s.store(ctx, s.layout.Language(language), records, &expected)
}

// store writes the document of language. A version resolved from another
// language's document cannot go stale here, so it is not compared.
func (s *MemoryStore[T]) store(ctx context.Context, language string, records []T, expected *Version) error {
	location := s.location(language)
	if err := ctx.Err(); err != nil {
		return writeFailure(s.layout.Name, language, location, err)
	}
	data, err := Encode(records)
	if err != nil {
		return writeFailure(s.layout.Name, language, location, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if expected != nil && expected.Language == language && s.versions[language] != expected.N {
		return conflict(s.layout.Name, language)
	}
	s.documents[language] = data
	s.versions[language]++
	return nil
}

func (s *MemoryStore[T]) location(language string) string {
	return "memory://" + s.layout.Name + "/" + language
}
