package collections

import (
	"context"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

// Store loads and saves the full collection of one language.
type Store[T any] interface {
	// Load returns the collection for language, falling back to the default
	// language document when the language has none. A missing default
	// document is created empty.
	Load(ctx context.Context, language string) ([]T, error)
	// Save replaces the collection for language. Records are written in the
	// order given.
	Save(ctx context.Context, language string, records []T) error
}

// Version identifies the revision of a document returned by LoadVersioned.
type Version struct {
	Language string
	N        int64
}

// VersionedStore is a Store able to reject a save when the document changed
// after it was loaded.
type VersionedStore[T any] interface {
	Store[T]
	LoadVersioned(ctx context.Context, language string) ([]T, Version, error)
	// SaveVersioned persists records only when the stored revision still
	// matches expected, returning an error wrapping ErrVersionConflict
	// otherwise.
	SaveVersioned(ctx context.Context, language string, records []T, expected Version) error
}

// Option configures a store.
type Option func(*options)

type options struct {
	schema     *jsonschema.Schema
	skipSchema bool
	backup     bool
	perm       os.FileMode
	logger     interfaces.Logger
}

func defaultOptions() options {
	return options{
		perm:   0o644,
		logger: logging.NoOp(),
	}
}

func resolveOptions(opts []Option) (options, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.schema == nil && !cfg.skipSchema {
		schema, err := DocumentSchema()
		if err != nil {
			return cfg, err
		}
		cfg.schema = schema
	}
	return cfg, nil
}

// WithSchema replaces the document schema used on load.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithoutSchema disables document schema checks.
func WithoutSchema() Option {
	return func(o *options) {
		o.schema = nil
		o.skipSchema = true
	}
}

// WithBackup keeps a copy of the previous document next to it as
// "<file>.bak" before every overwrite. File stores only.
func WithBackup(enabled bool) Option {
	return func(o *options) {
		o.backup = enabled
	}
}

// WithFileMode sets the permission bits of written documents.
func WithFileMode(perm os.FileMode) Option {
	return func(o *options) {
		if perm != 0 {
			o.perm = perm
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = logging.NoOp()
		}
		o.logger = logger
	}
}
