// Package markdowncmd exposes the Markdown import as a go-command handler.
package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/cloudevolvers/go-contentstore/internal/commands"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

const importOperation = "markdown.import_directory"

// ErrMarkdownFeatureDisabled is returned when Markdown import is switched off
// in configuration.
var ErrMarkdownFeatureDisabled = errors.New("markdown command: feature disabled")

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

// ImportDirectoryHandler runs directory imports.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler binds the handler to importer. A nil importer
// makes every execution fail with ErrMarkdownFeatureDisabled.
func NewImportDirectoryHandler(importer interfaces.MarkdownImporter, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if importer == nil {
			return ErrMarkdownFeatureDisabled
		}
		result, err := importer.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			Pattern: msg.Pattern,
			DryRun:  msg.DryRun,
		})
		if result != nil {
			if msg.Report != nil {
				msg.Report(result)
			}
			logging.WithFields(logger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.import_directory.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
