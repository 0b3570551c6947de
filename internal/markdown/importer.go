package markdown

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/identity"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/slug"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

var ErrPostServiceRequired = errors.New("markdown importer: post service is required")

// PostService is the part of the blog service the importer writes through.
type PostService interface {
	GetBySlug(ctx context.Context, language, slug string) (*content.Post, error)
	Create(ctx context.Context, post *content.Post) (*content.Post, error)
	Update(ctx context.Context, id string, patch content.Patch) (*content.Post, error)
}

// ImporterConfig wires the importer.
type ImporterConfig struct {
	Posts           PostService
	Loader          *Loader
	DefaultLanguage string
	Logger          interfaces.Logger
}

// Importer upserts Markdown documents as blog posts, matching on slug.
type Importer struct {
	posts    PostService
	loader   *Loader
	language string
	logger   interfaces.Logger
}

var _ interfaces.MarkdownImporter = (*Importer)(nil)

// NewImporter builds an importer from cfg.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	language := cfg.DefaultLanguage
	if language == "" {
		language = content.DefaultLanguage
	}
	return &Importer{posts: cfg.Posts, loader: cfg.Loader, language: language, logger: logger}
}

// ImportDirectory implements interfaces.MarkdownImporter. A document that
// fails is recorded in the result and the run continues; the returned error
// is the first failure.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil || i.loader == nil {
		return nil, ErrPostServiceRequired
	}
	docs, failures, err := i.loader.LoadDirectory(ctx, dir, opts.Pattern)
	if err != nil {
		return nil, err
	}
	result := &interfaces.ImportResult{Errors: failures}
	for _, doc := range docs {
		if err := i.importDocument(ctx, doc, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}
	i.logger.Info("markdown.import.completed",
		"dir", dir,
		"dry_run", opts.DryRun,
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
	)
	if len(result.Errors) > 0 {
		return result, result.Errors[0]
	}
	return result, nil
}

// ImportDocument upserts a single parsed document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	result := &interfaces.ImportResult{}
	if err := i.importDocument(ctx, doc, opts, result); err != nil {
		result.Errors = append(result.Errors, err)
		return result, err
	}
	return result, nil
}

func (i *Importer) importDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, result *interfaces.ImportResult) error {
	incoming := documentPost(doc)
	key := incoming.Slug
	logger := logging.WithFields(i.logger, map[string]any{
		"file":      doc.FilePath,
		"slug":      key,
		"import_id": identity.ImportUUID("blog", doc.FilePath).String(),
	})

	existing, err := i.posts.GetBySlug(ctx, i.language, key)
	switch {
	case content.IsNotFound(err):
		if !opts.DryRun {
			created, err := i.posts.Create(ctx, incoming)
			if err != nil {
				return fmt.Errorf("markdown importer: create %s: %w", doc.FilePath, err)
			}
			key = created.Slug
		}
		logger.Debug("markdown.import.created", "dry_run", opts.DryRun)
		result.Created = append(result.Created, key)
		return nil
	case err != nil:
		return fmt.Errorf("markdown importer: lookup %s: %w", key, err)
	}

	patch := diffPost(existing, incoming)
	if len(patch) == 0 {
		result.Skipped = append(result.Skipped, existing.Slug)
		return nil
	}
	if !opts.DryRun {
		if _, err := i.posts.Update(ctx, existing.ID, patch); err != nil {
			return fmt.Errorf("markdown importer: update %s: %w", doc.FilePath, err)
		}
	}
	logger.Debug("markdown.import.updated", "dry_run", opts.DryRun, "fields", len(patch))
	result.Updated = append(result.Updated, existing.Slug)
	return nil
}

// documentPost maps front matter onto a post. The slug falls back to the
// title and then to the file name.
func documentPost(doc *interfaces.Document) *content.Post {
	meta := doc.FrontMatter
	base := strings.TrimSuffix(path.Base(doc.FilePath), path.Ext(doc.FilePath))
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = strings.ReplaceAll(base, "-", " ")
	}
	key := slug.Slugify(meta.Slug)
	if key == "" {
		key = slug.Slugify(title)
	}
	if key == "" {
		key = slug.Slugify(base)
	}

	post := &content.Post{
		Record: content.Record{
			Slug:        key,
			Title:       title,
			Excerpt:     strings.TrimSpace(meta.Excerpt),
			Content:     string(doc.Body),
			Category:    strings.TrimSpace(meta.Category),
			Tags:        slices.Clone(meta.Tags),
			PublishedAt: meta.Date,
		},
		Image:    strings.TrimSpace(meta.Image),
		Featured: meta.Featured,
	}
	if post.PublishedAt.IsZero() && !doc.LastModified.IsZero() {
		post.PublishedAt = doc.LastModified.UTC().Truncate(time.Second)
	}
	if name := strings.TrimSpace(meta.Author); name != "" {
		post.Author = content.Author{Name: name}
	}
	return post
}

// diffPost lists the front matter driven fields that differ. Fields the
// document leaves empty keep their stored value.
func diffPost(existing, incoming *content.Post) content.Patch {
	patch := content.Patch{}
	if incoming.Title != existing.Title {
		patch["title"] = incoming.Title
	}
	if incoming.Content != existing.Content {
		patch["content"] = incoming.Content
	}
	if incoming.Excerpt != "" && incoming.Excerpt != existing.Excerpt {
		patch["excerpt"] = incoming.Excerpt
	}
	if incoming.Category != "" && incoming.Category != existing.Category {
		patch["category"] = incoming.Category
	}
	if len(incoming.Tags) > 0 && !slices.Equal(incoming.Tags, existing.Tags) {
		patch["tags"] = incoming.Tags
	}
	if incoming.Image != "" && incoming.Image != existing.Image {
		patch["image"] = incoming.Image
	}
	if incoming.Featured != existing.Featured {
		patch["featured"] = incoming.Featured
	}
	if incoming.Author.Name != "" && incoming.Author.Name != existing.Author.Name {
		patch["author"] = content.Author{Name: incoming.Author.Name, Title: existing.Author.Title, Avatar: existing.Author.Avatar}
	}
	if !incoming.PublishedAt.IsZero() && !incoming.PublishedAt.Equal(existing.PublishedAt) {
		patch["publishedAt"] = incoming.PublishedAt.UTC()
	}
	return patch
}
