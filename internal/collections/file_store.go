package collections

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/atomicwriter"

	"github.com/cloudevolvers/go-contentstore/internal/logging"
)

const backupSuffix = ".bak"

// FileStore keeps each language of a collection in its own JSON file.
// Writes go through a temporary file that is renamed over the target, so a
// failed save never leaves a truncated document behind.
//
// FileStore takes no locks. Two overlapping read-modify-write cycles on the
// same document can lose one of the writes; use BunStore when several
// writers are expected.
type FileStore[T any] struct {
	layout   Layout
	resolver Resolver
	opts     options
}

var _ Store[struct{}] = (*FileStore[struct{}])(nil)

// NewFileStore returns a file-backed store for the collection described by
// layout.
func NewFileStore[T any](layout Layout, opts ...Option) (*FileStore[T], error) {
	if strings.TrimSpace(layout.Name) == "" {
		return nil, ErrCollectionName
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &FileStore[T]{
		layout:   layout,
		resolver: NewResolver(layout),
		opts:     cfg,
	}, nil
}

// Layout exposes the paths used by the store.
func (s *FileStore[T]) Layout() Layout {
	return s.layout
}

// Load implements Store.
func (s *FileStore[T]) Load(ctx context.Context, language string) ([]T, error) {
	language = s.layout.Language(language)
	path := s.resolver.Resolve(language)
	logger := logging.WithCollection(s.opts.logger, s.layout.Name, language, "load")

	if err := ctx.Err(); err != nil {
		return nil, readFailure(s.layout.Name, language, path, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(path, []byte("[]\n"), false); err != nil {
			logger.Error("collections.load.initialize_failed", "path", path, "error", err)
			return nil, writeFailure(s.layout.Name, language, path, err)
		}
		logger.Info("collections.load.initialized", "path", path)
		return []T{}, nil
	}
	if err != nil {
		logger.Error("collections.load.failed", "path", path, "error", err)
		return nil, readFailure(s.layout.Name, language, path, err)
	}

	records, err := Decode[T](data, s.opts.schema)
	if err != nil {
		logger.Error("collections.load.corrupt", "path", path, "error", err)
		return nil, readFailure(s.layout.Name, language, path, err)
	}
	logger.Debug("collections.load.success", "path", path, "count", len(records))
	return records, nil
}

// Save implements Store. The default language overwrites the document its
// reads resolve to; other languages always write their dedicated file.
func (s *FileStore[T]) Save(ctx context.Context, language string, records []T) error {
	language = s.layout.Language(language)
	path := s.layout.LanguagePath(language)
	if s.layout.IsDefault(language) {
		path = s.resolver.Resolve(language)
	}
	logger := logging.WithCollection(s.opts.logger, s.layout.Name, language, "save")

	if err := ctx.Err(); err != nil {
		return writeFailure(s.layout.Name, language, path, err)
	}

	data, err := Encode(records)
	if err != nil {
		return writeFailure(s.layout.Name, language, path, err)
	}
	if err := s.write(path, data, s.opts.backup); err != nil {
		logger.Error("collections.save.failed", "path", path, "error", err)
		return writeFailure(s.layout.Name, language, path, err)
	}
	logger.Debug("collections.save.success", "path", path, "count", len(records))
	return nil
}

func (s *FileStore[T]) write(path string, data []byte, backup bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if backup {
		previous, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := atomicwriter.WriteFile(path+backupSuffix, previous, s.opts.perm); err != nil {
				return err
			}
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return atomicwriter.WriteFile(path, data, s.opts.perm)
}
