package interfaces

import (
	"context"
	"time"
)

// MarkdownRenderer converts Markdown bytes into HTML.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}

// MarkdownImporter loads Markdown documents from disk and upserts them as
// blog posts in the authoritative collection.
type MarkdownImporter interface {
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
}

// Document is a Markdown file with its parsed front matter.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
}

// FrontMatter models the metadata block at the top of a Markdown post.
// Unknown keys land in Custom.
type FrontMatter struct {
	Title    string         `yaml:"title" json:"title"`
	Slug     string         `yaml:"slug" json:"slug"`
	Excerpt  string         `yaml:"excerpt" json:"excerpt"`
	Category string         `yaml:"category" json:"category"`
	Tags     []string       `yaml:"tags" json:"tags"`
	Author   string         `yaml:"author" json:"author"`
	Image    string         `yaml:"image" json:"image"`
	Featured bool           `yaml:"featured" json:"featured"`
	Date     time.Time      `yaml:"date" json:"date"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
}

// ImportOptions tunes a directory import.
type ImportOptions struct {
	// Pattern filters file names, defaults to "*.md".
	Pattern string
	DryRun  bool
}

// ImportResult summarises an import run by slug.
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  []error
}
