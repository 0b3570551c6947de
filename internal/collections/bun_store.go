package collections

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/cloudevolvers/go-contentstore/internal/logging"
)

const emptyDocument = "[]\n"

// documentRecord stores one collection document per language.
type documentRecord struct {
	bun.BaseModel `bun:"table:content_documents"`

	Collection string    `bun:"collection,pk"`
	Language   string    `bun:"language,pk"`
	Payload    string    `bun:"payload,notnull"`
	Version    int64     `bun:"version,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// EnsureSchema creates the documents table when missing.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*documentRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

// BunStore keeps collection documents in a SQL table through Bun. Each row
// carries a version counter so concurrent writers can be detected with
// SaveVersioned instead of silently overwriting each other.
type BunStore[T any] struct {
	db     *bun.DB
	layout Layout
	opts   options
	now    func() time.Time
}

var _ VersionedStore[struct{}] = (*BunStore[struct{}])(nil)

// NewBunStore returns a database-backed store. layout.Dir is ignored.
func NewBunStore[T any](db *bun.DB, layout Layout, opts ...Option) (*BunStore[T], error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	if strings.TrimSpace(layout.Name) == "" {
		return nil, ErrCollectionName
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &BunStore[T]{
		db:     db,
		layout: layout,
		opts:   cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Load implements Store.
func (s *BunStore[T]) Load(ctx context.Context, language string) ([]T, error) {
	records, _, err := s.LoadVersioned(ctx, language)
	return records, err
}

// LoadVersioned implements VersionedStore. The returned version names the
// language row that was actually read.
func (s *BunStore[T]) LoadVersioned(ctx context.Context, language string) ([]T, Version, error) {
	language = s.layout.Language(language)
	logger := logging.WithCollection(s.opts.logger, s.layout.Name, language, "load")

	row, err := s.resolve(ctx, language)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = s.initialize(ctx)
		if err != nil {
			logger.Error("collections.load.initialize_failed", "error", err)
			return nil, Version{}, writeFailure(s.layout.Name, language, s.location(s.layout.defaultLanguage()), err)
		}
		logger.Info("collections.load.initialized")
	}
	if err != nil {
		logger.Error("collections.load.failed", "error", err)
		return nil, Version{}, readFailure(s.layout.Name, language, s.location(language), err)
	}

	records, err := Decode[T]([]byte(row.Payload), s.opts.schema)
	if err != nil {
		logger.Error("collections.load.corrupt", "row_language", row.Language, "error", err)
		return nil, Version{}, readFailure(s.layout.Name, language, s.location(row.Language), err)
	}
	logger.Debug("collections.load.success", "row_language", row.Language, "version", row.Version, "count", len(records))
	return records, Version{Language: row.Language, N: row.Version}, nil
}

// Save implements Store by overwriting whatever revision is stored.
func (s *BunStore[T]) Save(ctx context.Context, language string, records []T) error {
	language = s.layout.Language(language)
	payload, err := Encode(records)
	if err != nil {
		return writeFailure(s.layout.Name, language, s.location(language), err)
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var current documentRecord
		err := tx.NewSelect().
			Model(&current).
			Where("collection = ?", s.layout.Name).
			Where("language = ?", language).
			Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			row := s.row(language, string(payload), 1)
			_, err = tx.NewInsert().Model(&row).Exec(ctx)
			return err
		case err != nil:
			return err
		}
		row := s.row(language, string(payload), current.Version+1)
		_, err = tx.NewUpdate().
			Model(&row).
			Column("payload", "version", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		s.opts.logger.Error("collections.save.failed", "collection", s.layout.Name, "language", language, "error", err)
		return writeFailure(s.layout.Name, language, s.location(language), err)
	}
	return nil
}

// SaveVersioned implements VersionedStore. A version read from another
// language row (a fallback read) counts as "no row yet" for language.
func (s *BunStore[T]) SaveVersioned(ctx context.Context, language string, records []T, expected Version) error {
	language = s.layout.Language(language)
	payload, err := Encode(records)
	if err != nil {
		return writeFailure(s.layout.Name, language, s.location(language), err)
	}

	var res sql.Result
	if expected.N == 0 || expected.Language != language {
		row := s.row(language, string(payload), 1)
		res, err = s.db.NewInsert().Model(&row).On("CONFLICT DO NOTHING").Exec(ctx)
	} else {
		row := s.row(language, string(payload), expected.N+1)
		res, err = s.db.NewUpdate().
			Model(&row).
			Column("payload", "version", "updated_at").
			WherePK().
			Where("version = ?", expected.N).
			Exec(ctx)
	}
	if err != nil {
		return writeFailure(s.layout.Name, language, s.location(language), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return writeFailure(s.layout.Name, language, s.location(language), err)
	}
	if affected == 0 {
		s.opts.logger.Warn("collections.save.conflict", "collection", s.layout.Name, "language", language, "expected_version", expected.N)
		return conflict(s.layout.Name, language)
	}
	return nil
}

func (s *BunStore[T]) resolve(ctx context.Context, language string) (documentRecord, error) {
	row, err := s.find(ctx, language)
	if errors.Is(err, sql.ErrNoRows) && !s.layout.IsDefault(language) {
		return s.find(ctx, s.layout.defaultLanguage())
	}
	return row, err
}

func (s *BunStore[T]) find(ctx context.Context, language string) (documentRecord, error) {
	var row documentRecord
	err := s.db.NewSelect().
		Model(&row).
		Where("collection = ?", s.layout.Name).
		Where("language = ?", language).
		Scan(ctx)
	return row, err
}

func (s *BunStore[T]) initialize(ctx context.Context) (documentRecord, error) {
	row := s.row(s.layout.defaultLanguage(), emptyDocument, 1)
	if _, err := s.db.NewInsert().Model(&row).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return documentRecord{}, err
	}
	// Another writer may have created the row first; read what is stored.
	return s.find(ctx, row.Language)
}

func (s *BunStore[T]) row(language, payload string, version int64) documentRecord {
	return documentRecord{
		Collection: s.layout.Name,
		Language:   language,
		Payload:    payload,
		Version:    version,
		UpdatedAt:  s.now(),
	}
}

func (s *BunStore[T]) location(language string) string {
	return "db:" + s.layout.Name + "/" + language
}
