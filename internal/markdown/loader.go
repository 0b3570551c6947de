package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

const defaultPattern = "*.md"

// Loader reads Markdown documents from a filesystem.
type Loader struct {
	fs fs.FS
}

// NewLoader returns a loader over filesystem, usually os.DirFS(root).
func NewLoader(filesystem fs.FS) *Loader {
	return &Loader{fs: filesystem}
}

// LoadFile parses the document at name.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}
	return BuildDocument(name, data, info.ModTime())
}

// LoadDirectory walks dir and parses every file whose base name matches
// pattern, in lexical path order. Files that fail to parse are returned as
// errors next to the documents that succeeded.
func (l *Loader) LoadDirectory(ctx context.Context, dir, pattern string) ([]*interfaces.Document, []error, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, nil, fmt.Errorf("markdown loader pattern %q: %w", pattern, err)
	}
	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var names []string
	err := fs.WalkDir(l.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := path.Match(pattern, d.Name()); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("markdown loader walk %s: %w", root, err)
	}
	sort.Strings(names)

	docs := make([]*interfaces.Document, 0, len(names))
	var failures []error
	for _, name := range names {
		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			failures = append(failures, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures, nil
}
