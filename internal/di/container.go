package di

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/cloudevolvers/go-contentstore/internal/commands"
	markdowncmd "github.com/cloudevolvers/go-contentstore/internal/commands/markdown"
	settingscmd "github.com/cloudevolvers/go-contentstore/internal/commands/settings"
	"github.com/cloudevolvers/go-contentstore/internal/content"
	cmshttp "github.com/cloudevolvers/go-contentstore/internal/http"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/logging/gologger"
	"github.com/cloudevolvers/go-contentstore/internal/markdown"
	"github.com/cloudevolvers/go-contentstore/internal/runtimeconfig"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

// Container wires module dependencies from the runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	clock          func() time.Time

	bunDB  *bun.DB
	ownsDB bool

	posts     *content.Service[*content.Post]
	offerings *content.Service[*content.ServiceOffering]
	showcase  *content.Service[*content.ShowcaseItem]
	settings  *settings.Service

	renderer *markdown.Renderer
	importer *markdown.Importer

	importHandler *markdowncmd.ImportDirectoryHandler
	resetHandler  *settingscmd.ResetHomepageHandler

	api *cmshttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB supplies the database used by the bun storage provider. The
// container does not close a handle it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithClock overrides the time source of every service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContainer validates cfg and builds every service it enables.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "contentstore.di")

	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureMarkdown()
	c.configureCommands()
	c.configureHTTP()

	c.logger.Info("di.container.ready",
		"storage", c.Config.Storage.Provider,
		"languages", c.Config.Languages,
		"markdown", c.importer != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "noop":
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
		return nil
	}
}

func (c *Container) serviceOptions() []content.ServiceOption {
	opts := []content.ServiceOption{
		content.WithDefaultLanguage(c.Config.DefaultLanguage),
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		opts = append(opts, content.WithClock(c.clock))
	}
	return opts
}

func (c *Container) configureServices() error {
	names := c.Config.Collections

	postStore, err := newStore[*content.Post](c, names.Blog)
	if err != nil {
		return err
	}
	c.posts, err = content.NewService(content.PostKind(c.postDefaults()), postStore, c.serviceOptions()...)
	if err != nil {
		return err
	}

	offeringStore, err := newStore[*content.ServiceOffering](c, names.Services)
	if err != nil {
		return err
	}
	c.offerings, err = content.NewService(content.ServiceKind(), offeringStore, c.serviceOptions()...)
	if err != nil {
		return err
	}

	showcaseStore, err := newStore[*content.ShowcaseItem](c, names.Showcase)
	if err != nil {
		return err
	}
	categories := c.Config.Showcase.Categories
	if len(categories) == 0 {
		categories = content.ShowcaseCategories
	}
	c.showcase, err = content.NewService(content.ShowcaseKind(categories), showcaseStore, c.serviceOptions()...)
	if err != nil {
		return err
	}

	settingsStore, err := newStore[*settings.Homepage](c, names.Settings)
	if err != nil {
		return err
	}
	settingsOpts := []settings.Option{
		settings.WithDefaultLanguage(c.Config.DefaultLanguage),
		settings.WithLogger(logging.SettingsLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		settingsOpts = append(settingsOpts, settings.WithClock(c.clock))
	}
	c.settings, err = settings.NewService(settingsStore, settingsOpts...)
	return err
}

// postDefaults overlays configured blog defaults on the stock ones.
func (c *Container) postDefaults() content.PostDefaults {
	defaults := content.DefaultPostDefaults()
	blog := c.Config.Blog
	if value := strings.TrimSpace(blog.DefaultCategory); value != "" {
		defaults.Category = value
	}
	if value := strings.TrimSpace(blog.DefaultAuthor); value != "" {
		defaults.Author.Name = value
	}
	if value := strings.TrimSpace(blog.DefaultAuthorTitle); value != "" {
		defaults.Author.Title = value
	}
	if value := strings.TrimSpace(blog.DefaultImage); value != "" {
		defaults.Image = value
	}
	return defaults
}

func (c *Container) configureMarkdown() {
	md := c.Config.Markdown
	c.renderer = markdown.NewRenderer(markdown.RenderOptions{
		Extensions: md.Extensions,
		HardWraps:  md.HardWraps,
		SafeMode:   md.SafeMode,
	})
	if !md.Enabled {
		return
	}
	c.importer = markdown.NewImporter(markdown.ImporterConfig{
		Posts:           c.posts,
		Loader:          markdown.NewLoader(os.DirFS(md.Dir)),
		DefaultLanguage: c.Config.DefaultLanguage,
		Logger:          logging.MarkdownLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() {
	var importer interfaces.MarkdownImporter
	if c.importer != nil {
		importer = c.importer
	}
	c.importHandler = markdowncmd.NewImportDirectoryHandler(importer, commands.CommandLogger(c.loggerProvider, "markdown"))
	c.resetHandler = settingscmd.NewResetHomepageHandler(c.settings, commands.CommandLogger(c.loggerProvider, "settings"))
}

func (c *Container) configureHTTP() {
	c.api = cmshttp.NewAPI(
		cmshttp.WithBasePath(c.Config.HTTP.BasePath),
		cmshttp.WithLanguages(c.Config.DefaultLanguage, c.Config.Languages...),
		cmshttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		cmshttp.WithPostService(c.posts),
		cmshttp.WithOfferingService(c.offerings),
		cmshttp.WithShowcaseService(c.showcase),
		cmshttp.WithSettingsService(c.settings),
		cmshttp.WithRenderer(c.renderer),
	)
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Logger returns a module logger from the configured provider.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// PostService returns the blog service.
func (c *Container) PostService() *content.Service[*content.Post] { return c.posts }

// OfferingService returns the service offerings service.
func (c *Container) OfferingService() *content.Service[*content.ServiceOffering] {
	return c.offerings
}

// ShowcaseService returns the showcase service.
func (c *Container) ShowcaseService() *content.Service[*content.ShowcaseItem] { return c.showcase }

// SettingsService returns the homepage settings service.
func (c *Container) SettingsService() *settings.Service { return c.settings }

// MarkdownRenderer returns the shared goldmark renderer.
func (c *Container) MarkdownRenderer() *markdown.Renderer { return c.renderer }

// MarkdownImporter returns the importer, nil unless Markdown.Enabled is set.
func (c *Container) MarkdownImporter() *markdown.Importer { return c.importer }

// ImportDirectoryHandler returns the markdown import command handler.
func (c *Container) ImportDirectoryHandler() *markdowncmd.ImportDirectoryHandler {
	return c.importHandler
}

// ResetHomepageHandler returns the settings reset command handler.
func (c *Container) ResetHomepageHandler() *settingscmd.ResetHomepageHandler {
	return c.resetHandler
}

// API returns the HTTP surface.
func (c *Container) API() *cmshttp.API { return c.api }
