package content

import (
	"context"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/slug"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

// Composer builds the read view of a language: its native records topped up
// with default-language records that have no translation yet.
type Composer[T Entry] struct {
	store           collections.Store[T]
	defaultLanguage string
	logger          interfaces.Logger
}

// NewComposer returns a composer reading from store.
func NewComposer[T Entry](store collections.Store[T], defaultLanguage string, logger interfaces.Logger) *Composer[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Composer[T]{store: store, defaultLanguage: defaultLanguage, logger: logger}
}

// Compose returns the view for language. Native records come first, in
// stored order, followed by marked clones of the untranslated default
// records. A native collection at least as large as the default one is
// returned unchanged. When the default collection cannot be read the native
// records are returned alone.
func (c *Composer[T]) Compose(ctx context.Context, language string) ([]T, error) {
	native, err := c.store.Load(ctx, language)
	if err != nil {
		return nil, err
	}
	if language == c.defaultLanguage {
		return native, nil
	}

	defaults, err := c.store.Load(ctx, c.defaultLanguage)
	if err != nil {
		c.logger.Warn("content.compose.degraded",
			"language", language,
			"native", len(native),
			"error", err,
		)
		return native, nil
	}
	if len(native) > 0 && len(native) >= len(defaults) {
		return native, nil
	}

	translated := make(map[string]struct{}, len(native))
	for _, record := range native {
		translated[slug.StripLanguageSuffix(record.Base().Slug, language)] = struct{}{}
	}

	view := make([]T, 0, len(defaults))
	view = append(view, native...)
	for _, record := range defaults {
		if _, ok := translated[record.Base().Slug]; ok {
			continue
		}
		clone, err := cloneEntry(record)
		if err != nil {
			return nil, err
		}
		base := clone.Base()
		base.Fallback = true
		base.OriginalLanguage = c.defaultLanguage
		view = append(view, clone)
	}

	c.logger.Debug("content.compose.fallback",
		"language", language,
		"native", len(native),
		"fallback", len(view)-len(native),
	)
	return view, nil
}
