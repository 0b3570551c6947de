// Package settings persists site settings as singleton records in a regular
// collection, so they share storage, fallback and locking with content.
package settings

import (
	"context"
	"errors"
	"sort"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/identity"
	"github.com/cloudevolvers/go-contentstore/internal/locale"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/slug"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

var ErrSettingsRequired = errors.New("settings: homepage settings are required")

const TextCodeValidation = "SETTINGS_VALIDATION_FAILED"

// Option configures a Service.
type Option func(*Service)

// WithDefaults replaces the built-in homepage defaults.
func WithDefaults(defaults Homepage) Option {
	return func(s *Service) {
		s.defaults = defaults
	}
}

// WithDefaultLanguage sets the language settings are stored in.
func WithDefaultLanguage(language string) Option {
	return func(s *Service) {
		if language = locale.Normalize(language, ""); language != "" {
			s.defaultLanguage = language
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service reads and writes the homepage settings singleton.
type Service struct {
	store           collections.Store[*Homepage]
	defaults        Homepage
	defaultLanguage string
	now             func() time.Time
	logger          interfaces.Logger
	composer        *content.Composer[*Homepage]
}

// NewService returns a settings service backed by store.
func NewService(store collections.Store[*Homepage], opts ...Option) (*Service, error) {
	if store == nil {
		return nil, content.ErrStoreRequired
	}
	s := &Service{
		store:           store,
		defaults:        DefaultHomepage(),
		defaultLanguage: content.DefaultLanguage,
		now:             time.Now,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.composer = content.NewComposer(store, s.defaultLanguage, s.logger)
	return s, nil
}

// Defaults returns a copy of the homepage defaults.
func (s *Service) Defaults() Homepage {
	out := s.defaults
	out.HeroImages = append([]string(nil), s.defaults.HeroImages...)
	out.ID = identity.SettingsUUID(HomepageSlug).String()
	out.Slug = HomepageSlug
	out.Language = s.defaultLanguage
	return out
}

// Get returns the homepage settings for language. Fields missing from the
// stored record are taken from the defaults, and without a stored record the
// defaults are returned as is.
func (s *Service) Get(ctx context.Context, language string) (*Homepage, error) {
	language = locale.Normalize(language, s.defaultLanguage)
	records, err := s.composer.Compose(ctx, language)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if slug.StripLanguageSuffix(record.Slug, language) == HomepageSlug {
			record.fillFrom(s.defaults)
			return record, nil
		}
	}
	defaults := s.Defaults()
	return &defaults, nil
}

// Put validates and stores input as the homepage settings.
func (s *Service) Put(ctx context.Context, input *Homepage) (*Homepage, error) {
	if input == nil {
		return nil, goerrors.Wrap(ErrSettingsRequired, goerrors.CategoryBadInput, "homepage settings are required")
	}
	next := *input
	next.HeroImages = append([]string(nil), input.HeroImages...)
	if err := next.Validate(); err != nil {
		return nil, validationFailure(err)
	}
	next.normalize(s.defaults)
	return s.save(ctx, "put", &next)
}

// Reset stores the defaults as the homepage settings.
func (s *Service) Reset(ctx context.Context) (*Homepage, error) {
	defaults := s.Defaults()
	return s.save(ctx, "reset", &defaults)
}

func (s *Service) save(ctx context.Context, operation string, next *Homepage) (*Homepage, error) {
	logger := logging.WithCollection(logging.FromContext(ctx, s.logger), "settings", s.defaultLanguage, operation)

	var (
		records   []*Homepage
		version   collections.Version
		versioned collections.VersionedStore[*Homepage]
		err       error
	)
	if vs, ok := s.store.(collections.VersionedStore[*Homepage]); ok {
		versioned = vs
		records, version, err = vs.LoadVersioned(ctx, s.defaultLanguage)
	} else {
		records, err = s.store.Load(ctx, s.defaultLanguage)
	}
	if err != nil {
		logger.Error("settings.load.failed", "error", err)
		return nil, err
	}

	now := s.now().UTC()
	next.ID = identity.SettingsUUID(HomepageSlug).String()
	next.Slug = HomepageSlug
	next.Language = s.defaultLanguage
	next.Fallback = false
	next.OriginalLanguage = ""
	if next.Title == "" {
		next.Title = s.defaults.Title
	}

	idx := -1
	for i, record := range records {
		if record.Slug == HomepageSlug {
			idx = i
			break
		}
	}
	if idx >= 0 {
		prev := records[idx]
		next.PublishedAt = prev.PublishedAt
		next.UpdatedAt = now
		if !now.After(prev.UpdatedAt) {
			next.UpdatedAt = prev.UpdatedAt.Add(time.Millisecond)
		}
		records[idx] = next
	} else {
		next.PublishedAt = now
		next.UpdatedAt = now
		records = append(records, next)
	}

	if versioned != nil {
		err = versioned.SaveVersioned(ctx, s.defaultLanguage, records, version)
	} else {
		err = s.store.Save(ctx, s.defaultLanguage, records)
	}
	if err != nil {
		logger.Error("settings.save.failed", "error", err)
		return nil, err
	}
	logger.Info("settings.save.succeeded", "slug", HomepageSlug)
	return next, nil
}

func validationFailure(err error) error {
	out := goerrors.FromOzzoValidation(err, "homepage settings are invalid").WithTextCode(TextCodeValidation)
	sort.Slice(out.ValidationErrors, func(i, j int) bool {
		return out.ValidationErrors[i].Field < out.ValidationErrors[j].Field
	})
	return out
}
