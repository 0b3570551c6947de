package content_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/content"
)

func newPostFileService(t *testing.T, opts ...content.ServiceOption) (*content.Service[*content.Post], collections.Layout) {
	t.Helper()
	layout := collections.Layout{Dir: t.TempDir(), Name: "blogs", DefaultLanguage: "en"}
	store, err := collections.NewFileStore[*content.Post](layout)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	svc, err := content.NewService(content.PostKind(content.DefaultPostDefaults()), store, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, layout
}

func writeDocument(t *testing.T, path string, records []*content.Post) {
	t.Helper()
	data, err := collections.Encode(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func post(id, slug, title string, published time.Time) *content.Post {
	return &content.Post{Record: content.Record{
		ID:          id,
		Slug:        slug,
		Title:       title,
		Content:     title + " body",
		Category:    "General",
		PublishedAt: published,
		UpdatedAt:   published,
		Language:    "en",
	}}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func sequentialIDs(ids ...string) content.IDGenerator {
	var mu sync.Mutex
	next := 0
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		id := uuid.MustParse(ids[next%len(ids)])
		next++
		return id
	}
}

// countingStore records I/O and can fail loads for chosen languages.
type countingStore[T any] struct {
	inner   collections.Store[T]
	failFor map[string]error
	loads   int
	saves   int
}

func (s *countingStore[T]) Load(ctx context.Context, language string) ([]T, error) {
	s.loads++
	if err, ok := s.failFor[language]; ok {
		return nil, err
	}
	return s.inner.Load(ctx, language)
}

func (s *countingStore[T]) Save(ctx context.Context, language string, records []T) error {
	s.saves++
	return s.inner.Save(ctx, language, records)
}

var errUnreadable = errors.New("unreadable")
