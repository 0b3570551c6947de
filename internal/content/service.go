package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/locale"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/slug"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

// DefaultLanguage is used when no default language is configured.
const DefaultLanguage = "en"

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	defaultLanguage string
	now             func() time.Time
	id              IDGenerator
	logger          interfaces.Logger
}

// WithDefaultLanguage sets the language writes go to and reads fall back to.
func WithDefaultLanguage(language string) ServiceOption {
	return func(c *serviceConfig) {
		if language = locale.Normalize(language, ""); language != "" {
			c.defaultLanguage = language
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(c *serviceConfig) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithIDGenerator overrides the generator used for record ids.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(c *serviceConfig) {
		if generator != nil {
			c.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(c *serviceConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Service manages one collection of records. Writes always target the
// default language collection; reads compose any language.
type Service[T Entry] struct {
	kind            Kind[T]
	store           collections.Store[T]
	composer        *Composer[T]
	defaultLanguage string
	now             func() time.Time
	id              IDGenerator
	logger          interfaces.Logger
}

// NewService returns a service for kind backed by store.
func NewService[T Entry](kind Kind[T], store collections.Store[T], opts ...ServiceOption) (*Service[T], error) {
	if !kind.valid() {
		return nil, ErrKindInvalid
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	cfg := serviceConfig{
		defaultLanguage: DefaultLanguage,
		now:             time.Now,
		id:              uuid.New,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Service[T]{
		kind:            kind,
		store:           store,
		composer:        NewComposer(store, cfg.defaultLanguage, cfg.logger),
		defaultLanguage: cfg.defaultLanguage,
		now:             cfg.now,
		id:              cfg.id,
		logger:          cfg.logger,
	}, nil
}

// Kind returns the record kind the service manages.
func (s *Service[T]) Kind() Kind[T] { return s.kind }

// DefaultLanguage returns the language writes are stored in.
func (s *Service[T]) DefaultLanguage() string { return s.defaultLanguage }

// List returns the records of language that match query.
func (s *Service[T]) List(ctx context.Context, language string, query ListQuery) (ListResult[T], error) {
	records, err := s.view(ctx, language)
	if err != nil {
		return ListResult[T]{}, err
	}
	return selectRecords(s.kind, records, query), nil
}

// Categories returns the distinct non-empty categories in the view of
// language, sorted.
func (s *Service[T]) Categories(ctx context.Context, language string) ([]string, error) {
	records, err := s.view(ctx, language)
	if err != nil {
		return nil, err
	}
	return distinctCategories(records), nil
}

// GetBySlug returns the record with key as its slug. In a translated view a
// slug without the language suffix also matches the translation.
func (s *Service[T]) GetBySlug(ctx context.Context, language, key string) (T, error) {
	var zero T
	language = s.language(language)
	records, err := s.composer.Compose(ctx, language)
	if err != nil {
		return zero, err
	}
	if record, ok := findBySlug(records, key, language); ok {
		return record, nil
	}
	return zero, notFound(s.kind.Name, key)
}

// GetByID returns the record with the given id.
func (s *Service[T]) GetByID(ctx context.Context, language, id string) (T, error) {
	var zero T
	records, err := s.view(ctx, language)
	if err != nil {
		return zero, err
	}
	if idx := indexByID(records, id); idx >= 0 {
		return records[idx], nil
	}
	return zero, notFound(s.kind.Name, id)
}

// Find resolves key as a slug first and as an id second.
func (s *Service[T]) Find(ctx context.Context, language, key string) (T, error) {
	var zero T
	language = s.language(language)
	records, err := s.composer.Compose(ctx, language)
	if err != nil {
		return zero, err
	}
	if record, ok := findBySlug(records, key, language); ok {
		return record, nil
	}
	if idx := indexByID(records, key); idx >= 0 {
		return records[idx], nil
	}
	return zero, notFound(s.kind.Name, key)
}

// Create validates input, assigns identity and timestamps, and appends the
// record to the default language collection. input is not modified.
func (s *Service[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T
	if isNil(input) {
		return zero, validationFailure(ErrRecordRequired, "record is required")
	}
	record, err := cloneEntry(input)
	if err != nil {
		return zero, validationFailure(err, "record is not encodable")
	}
	base := record.Base()
	base.Title = strings.TrimSpace(base.Title)
	if s.kind.Defaults != nil {
		s.kind.Defaults(record)
	}
	if s.kind.Derive != nil {
		s.kind.Derive(record)
	}
	if err := s.validate(record); err != nil {
		return zero, err
	}

	logger := s.opLogger(ctx, "create")
	err = s.mutate(ctx, func(records []T) ([]T, bool, error) {
		now := s.now().UTC()
		base.ID = s.nextID(records)
		base.Slug = slug.Unique(firstNonEmpty(base.Slug, base.Title), slugsExcept(records, -1))
		base.Language = s.defaultLanguage
		base.UpdatedAt = now
		if base.PublishedAt.IsZero() {
			base.PublishedAt = now
		} else {
			base.PublishedAt = base.PublishedAt.UTC()
		}
		return append(records, record), true, nil
	})
	if err != nil {
		logger.Error("content.create.failed", "error", err)
		return zero, err
	}
	logger.Info("content.create.succeeded", "id", base.ID, "slug", base.Slug)
	return record, nil
}

// Update merges patch into the record with the given id. A changed or
// non-canonical slug is normalized and kept unique; updatedAt always moves
// forward.
func (s *Service[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	return s.update(ctx, id, indexByID[T], patch)
}

// UpdateByKey is Update for a key that names the record by slug or, failing
// that, by id.
func (s *Service[T]) UpdateByKey(ctx context.Context, key string, patch Patch) (T, error) {
	return s.update(ctx, strings.TrimSpace(key), indexByKey[T], patch)
}

func (s *Service[T]) update(ctx context.Context, id string, locate func([]T, string) int, patch Patch) (T, error) {
	var zero T
	patch = patch.normalized()
	if err := checkPatch(s.kind, patch); err != nil {
		return zero, err
	}

	logger := s.opLogger(ctx, "update")
	var updated T
	err := s.mutate(ctx, func(records []T) ([]T, bool, error) {
		idx := locate(records, id)
		if idx < 0 {
			return nil, false, notFound(s.kind.Name, id)
		}
		current := records[idx]
		merged, err := applyPatch(current, patch)
		if err != nil {
			return nil, false, err
		}
		prev := current.Base()
		base := merged.Base()
		base.ID = prev.ID
		base.Language = prev.Language
		if base.Slug != prev.Slug || !slug.Valid(base.Slug) {
			base.Slug = slug.Unique(firstNonEmpty(base.Slug, base.Title), slugsExcept(records, idx))
		}
		base.UpdatedAt = s.advance(prev.UpdatedAt)
		if s.kind.Derive != nil {
			s.kind.Derive(merged)
		}
		if err := s.validate(merged); err != nil {
			return nil, false, err
		}
		records[idx] = merged
		updated = merged
		return records, true, nil
	})
	if err != nil {
		if IsNotFound(err) {
			logger.Debug("content.update.missing", "id", id)
		} else {
			logger.Error("content.update.failed", "id", id, "error", err)
		}
		return zero, err
	}
	logger.Info("content.update.succeeded", "id", id, "fields", len(patch))
	return updated, nil
}

// Delete removes the record whose id, or failing that slug, equals key. It
// reports false and leaves storage untouched when nothing matched.
func (s *Service[T]) Delete(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}
	logger := s.opLogger(ctx, "delete")
	removed := false
	err := s.mutate(ctx, func(records []T) ([]T, bool, error) {
		idx := indexByID(records, key)
		if idx < 0 {
			idx = indexBySlug(records, key)
		}
		if idx < 0 {
			return nil, false, nil
		}
		removed = true
		kept := make([]T, 0, len(records)-1)
		kept = append(kept, records[:idx]...)
		return append(kept, records[idx+1:]...), true, nil
	})
	if err != nil {
		logger.Error("content.delete.failed", "key", key, "error", err)
		return false, err
	}
	logger.Info("content.delete.completed", "key", key, "removed", removed)
	return removed, nil
}

// mutate runs apply over the default language collection and saves the
// result when apply reports a change. Versioned stores reject the save if
// the document moved underneath.
func (s *Service[T]) mutate(ctx context.Context, apply func([]T) ([]T, bool, error)) error {
	var (
		records   []T
		version   collections.Version
		versioned collections.VersionedStore[T]
		err       error
	)
	if vs, ok := s.store.(collections.VersionedStore[T]); ok {
		versioned = vs
		records, version, err = vs.LoadVersioned(ctx, s.defaultLanguage)
	} else {
		records, err = s.store.Load(ctx, s.defaultLanguage)
	}
	if err != nil {
		return err
	}

	next, changed, err := apply(records)
	if err != nil || !changed {
		return err
	}
	next = persistable(next)
	if versioned != nil {
		return versioned.SaveVersioned(ctx, s.defaultLanguage, next, version)
	}
	return s.store.Save(ctx, s.defaultLanguage, next)
}

func (s *Service[T]) view(ctx context.Context, language string) ([]T, error) {
	return s.composer.Compose(ctx, s.language(language))
}

func (s *Service[T]) language(language string) string {
	return locale.Normalize(language, s.defaultLanguage)
}

func (s *Service[T]) validate(record T) error {
	if s.kind.Validate == nil {
		return nil
	}
	return validationFailure(s.kind.Validate(record), s.kind.Name+" record is invalid")
}

// advance returns the current time, or prev plus a millisecond when the
// clock has not moved past prev.
func (s *Service[T]) advance(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

func (s *Service[T]) nextID(records []T) string {
	used := make(map[string]struct{}, len(records))
	for _, record := range records {
		used[record.Base().ID] = struct{}{}
	}
	for {
		id := s.id().String()
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

func (s *Service[T]) opLogger(ctx context.Context, operation string) interfaces.Logger {
	return logging.WithCollection(logging.FromContext(ctx, s.logger), s.kind.Name, s.defaultLanguage, operation)
}

func findBySlug[T Entry](records []T, key, language string) (T, bool) {
	var zero T
	if idx := indexBySlug(records, key); idx >= 0 {
		return records[idx], true
	}
	for _, record := range records {
		if slug.StripLanguageSuffix(record.Base().Slug, language) == key {
			return record, true
		}
	}
	return zero, false
}

func indexByID[T Entry](records []T, id string) int {
	if id == "" {
		return -1
	}
	for i, record := range records {
		if record.Base().ID == id {
			return i
		}
	}
	return -1
}

func indexByKey[T Entry](records []T, key string) int {
	if idx := indexBySlug(records, key); idx >= 0 {
		return idx
	}
	return indexByID(records, key)
}

func indexBySlug[T Entry](records []T, key string) int {
	if key == "" {
		return -1
	}
	for i, record := range records {
		if record.Base().Slug == key {
			return i
		}
	}
	return -1
}

func slugsExcept[T Entry](records []T, skip int) []string {
	out := make([]string, 0, len(records))
	for i, record := range records {
		if i != skip {
			out = append(out, record.Base().Slug)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
