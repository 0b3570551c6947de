package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrDefaultLanguageRequired  = errors.New("contentstore config: default language is required")
	ErrDefaultLanguageMissing   = errors.New("contentstore config: languages must include the default language")
	ErrStorageProviderUnknown   = errors.New("contentstore config: storage provider is invalid")
	ErrStorageDirRequired       = errors.New("contentstore config: storage directory is required for the file provider")
	ErrStorageDriverUnknown     = errors.New("contentstore config: storage driver is invalid")
	ErrStorageDSNRequired       = errors.New("contentstore config: storage dsn is required for the bun provider")
	ErrCollectionNameRequired   = errors.New("contentstore config: collection names are required")
	ErrCollectionNameDuplicated = errors.New("contentstore config: collection names must be distinct")
	ErrMarkdownDirRequired      = errors.New("contentstore config: markdown directory is required when markdown is enabled")
	ErrHTTPAddrRequired         = errors.New("contentstore config: http address is required")
	ErrLoggingProviderUnknown   = errors.New("contentstore config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("contentstore config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("contentstore config: logging format is invalid")
)

const (
	StorageProviderFile   = "file"
	StorageProviderBun    = "bun"
	StorageProviderMemory = "memory"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds every setting of the content store. Zero values are filled by
// DefaultConfig when loading.
type Config struct {
	DefaultLanguage string            `mapstructure:"default_language"`
	Languages       []string          `mapstructure:"languages"`
	Storage         StorageConfig     `mapstructure:"storage"`
	Collections     CollectionsConfig `mapstructure:"collections"`
	Blog            BlogConfig        `mapstructure:"blog"`
	Showcase        ShowcaseConfig    `mapstructure:"showcase"`
	HTTP            HTTPConfig        `mapstructure:"http"`
	Markdown        MarkdownConfig    `mapstructure:"markdown"`
	Logging         LoggingConfig     `mapstructure:"logging"`
}

// StorageConfig selects the collection backend.
type StorageConfig struct {
	// Provider is file, bun or memory.
	Provider string `mapstructure:"provider"`
	Dir      string `mapstructure:"dir"`
	// Backup keeps a .bak copy of each document before it is replaced.
	Backup bool `mapstructure:"backup"`
	// Driver is sqlite3 or postgres, used by the bun provider.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// CollectionsConfig names the documents of each collection.
type CollectionsConfig struct {
	Blog     string `mapstructure:"blog"`
	Services string `mapstructure:"services"`
	Showcase string `mapstructure:"showcase"`
	Settings string `mapstructure:"settings"`
}

// BlogConfig holds defaults applied to new posts.
type BlogConfig struct {
	DefaultCategory    string `mapstructure:"default_category"`
	DefaultAuthor      string `mapstructure:"default_author"`
	DefaultAuthorTitle string `mapstructure:"default_author_title"`
	DefaultImage       string `mapstructure:"default_image"`
}

// ShowcaseConfig restricts showcase categories.
type ShowcaseConfig struct {
	Categories []string `mapstructure:"categories"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MarkdownConfig configures rendering and import of Markdown posts.
type MarkdownConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Dir        string   `mapstructure:"dir"`
	Pattern    string   `mapstructure:"pattern"`
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	// Provider is gologger or noop.
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLanguage: "en",
		Languages:       []string{"en", "nl"},
		Storage: StorageConfig{
			Provider: StorageProviderFile,
			Dir:      "data",
			Driver:   DriverSQLite,
		},
		Collections: CollectionsConfig{
			Blog:     "blogs",
			Services: "services",
			Showcase: "showcase",
			Settings: "settings",
		},
		Blog: BlogConfig{
			DefaultCategory:    "General",
			DefaultAuthor:      "xEvolve Team",
			DefaultAuthorTitle: "Content Writer",
			DefaultImage:       "/images/blog/default-blog.jpg",
		},
		Showcase: ShowcaseConfig{
			Categories: []string{"platform", "file-management", "administration", "user-experience", "development"},
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Markdown: MarkdownConfig{
			Dir:     "content",
			Pattern: "*.md",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	defaultLanguage := strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	if defaultLanguage == "" {
		return ErrDefaultLanguageRequired
	}
	if len(cfg.Languages) > 0 && !slices.ContainsFunc(cfg.Languages, func(l string) bool {
		return strings.EqualFold(strings.TrimSpace(l), defaultLanguage)
	}) {
		return fmt.Errorf("%w: %s", ErrDefaultLanguageMissing, defaultLanguage)
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case StorageProviderFile:
		if strings.TrimSpace(cfg.Storage.Dir) == "" {
			return ErrStorageDirRequired
		}
	case StorageProviderBun:
		switch normalize(cfg.Storage.Driver) {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case StorageProviderMemory:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	names := []string{cfg.Collections.Blog, cfg.Collections.Services, cfg.Collections.Showcase, cfg.Collections.Settings}
	seen := map[string]struct{}{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrCollectionNameRequired
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s", ErrCollectionNameDuplicated, name)
		}
		seen[name] = struct{}{}
	}

	if cfg.Markdown.Enabled && strings.TrimSpace(cfg.Markdown.Dir) == "" {
		return ErrMarkdownDirRequired
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); provider == "gologger" && format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
