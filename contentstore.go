// Package contentstore is a multilingual, document-backed store for blog
// posts, service offerings, showcase items and homepage settings.
package contentstore

import (
	"context"
	"errors"
	"net/http"

	markdowncmd "github.com/cloudevolvers/go-contentstore/internal/commands/markdown"
	settingscmd "github.com/cloudevolvers/go-contentstore/internal/commands/settings"
	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/di"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

type (
	Record          = content.Record
	Author          = content.Author
	Post            = content.Post
	ServiceOffering = content.ServiceOffering
	ShowcaseItem    = content.ShowcaseItem
	Homepage        = settings.Homepage
	ListQuery       = content.ListQuery
	Patch           = content.Patch
	NotFoundError   = content.NotFoundError

	ImportDirectoryCommand = markdowncmd.ImportDirectoryCommand
	ResetHomepageCommand   = settingscmd.ResetHomepageCommand
)

// PostService exports the blog service.
type PostService = *content.Service[*content.Post]

// OfferingService exports the service offerings service.
type OfferingService = *content.Service[*content.ServiceOffering]

// ShowcaseService exports the showcase service.
type ShowcaseService = *content.Service[*content.ShowcaseItem]

// SettingsService exports the homepage settings service.
type SettingsService = *settings.Service

// IsNotFound reports whether err is a lookup that matched no record.
func IsNotFound(err error) bool { return content.IsNotFound(err) }

// IsValidation reports whether err is a rejected record or patch.
func IsValidation(err error) bool { return content.IsValidation(err) }

// Module represents the top level content store runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage handles opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Posts returns the blog service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Offerings returns the service offerings service.
func (m *Module) Offerings() OfferingService {
	return m.container.OfferingService()
}

// Showcase returns the showcase service.
func (m *Module) Showcase() ShowcaseService {
	return m.container.ShowcaseService()
}

// Settings returns the homepage settings service.
func (m *Module) Settings() SettingsService {
	return m.container.SettingsService()
}

// Markdown returns the renderer used for ?render=html.
func (m *Module) Markdown() interfaces.MarkdownRenderer {
	return m.container.MarkdownRenderer()
}

// Handler returns the HTTP API with its middleware stack.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.API().Router()
}

// Server returns an http.Server for the configured address and timeouts.
func (m *Module) Server() (*http.Server, error) {
	handler, err := m.Handler()
	if err != nil {
		return nil, err
	}
	cfg := m.container.Config.HTTP
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// ImportMarkdown runs the markdown import command.
func (m *Module) ImportMarkdown(ctx context.Context, cmd ImportDirectoryCommand) error {
	return m.container.ImportDirectoryHandler().Execute(ctx, cmd)
}

// ResetHomepage runs the settings reset command.
func (m *Module) ResetHomepage(ctx context.Context, cmd ResetHomepageCommand) error {
	return m.container.ResetHomepageHandler().Execute(ctx, cmd)
}

// CommandRegistry records command handlers so hosts can expose them through
// a go-command registry or their own CLI.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandHandlers lists the go-command handlers the module builds.
func (m *Module) CommandHandlers() []any {
	return []any{
		m.container.ImportDirectoryHandler(),
		m.container.ResetHomepageHandler(),
	}
}

// RegisterCommands registers every command handler with registry.
func (m *Module) RegisterCommands(registry CommandRegistry) error {
	if registry == nil {
		return nil
	}
	var errs error
	for _, handler := range m.CommandHandlers() {
		if err := registry.RegisterCommand(handler); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
