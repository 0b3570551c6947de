package markdowncmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

type stubImporter struct {
	dir    string
	opts   interfaces.ImportOptions
	result *interfaces.ImportResult
	err    error
}

func (s *stubImporter) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.dir = dir
	s.opts = opts
	return s.result, s.err
}

func TestImportDirectoryHandlerPassesOptionsAndReports(t *testing.T) {
	importer := &stubImporter{result: &interfaces.ImportResult{Created: []string{"a"}}}
	handler := NewImportDirectoryHandler(importer, nil)

	var reported *interfaces.ImportResult
	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "posts",
		Pattern:   "*.markdown",
		DryRun:    true,
		Report:    func(r *interfaces.ImportResult) { reported = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if importer.dir != "posts" || !importer.opts.DryRun || importer.opts.Pattern != "*.markdown" {
		t.Fatalf("unexpected importer call: %q %+v", importer.dir, importer.opts)
	}
	if reported == nil || len(reported.Created) != 1 {
		t.Fatalf("expected result to be reported, got %+v", reported)
	}
}

func TestImportDirectoryHandlerRequiresDirectory(t *testing.T) {
	importer := &stubImporter{}
	handler := NewImportDirectoryHandler(importer, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if importer.dir != "" {
		t.Fatalf("importer must not run for invalid commands")
	}
}

func TestImportDirectoryHandlerDisabled(t *testing.T) {
	handler := NewImportDirectoryHandler(nil, nil)
	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "posts"})
	if !errors.Is(err, ErrMarkdownFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
}

func TestImportDirectoryHandlerReportsPartialResults(t *testing.T) {
	failure := errors.New("broken.md: parse frontmatter")
	importer := &stubImporter{
		result: &interfaces.ImportResult{Created: []string{"ok"}, Errors: []error{failure}},
		err:    failure,
	}
	handler := NewImportDirectoryHandler(importer, nil)

	var reported *interfaces.ImportResult
	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "posts",
		Report:    func(r *interfaces.ImportResult) { reported = r },
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected import failure, got %v", err)
	}
	if reported == nil || len(reported.Created) != 1 {
		t.Fatalf("expected partial result to be reported")
	}
}
