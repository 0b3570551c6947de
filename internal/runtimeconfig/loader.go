package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// CONTENTSTORE_STORAGE_PROVIDER.
const EnvPrefix = "CONTENTSTORE"

// LoadOptions tunes Load.
type LoadOptions struct {
	// ConfigFile is read when set. Missing files are an error.
	ConfigFile string
	// EnvFiles are loaded into the process environment first. Missing files
	// are skipped. Defaults to ".env".
	EnvFiles []string
}

// Load builds a Config from defaults, an optional config file and
// CONTENTSTORE_* environment variables, then validates it.
func Load(opts LoadOptions) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("contentstore config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("contentstore config: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("contentstore config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("contentstore config: decode: %w", err)
	}
	cfg.Languages = splitList(cfg.Languages)
	cfg.Showcase.Categories = splitList(cfg.Showcase.Categories)
	cfg.Markdown.Extensions = splitList(cfg.Markdown.Extensions)
	cfg.Logging.Focus = splitList(cfg.Logging.Focus)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it and
// Unmarshal sees it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("default_language", cfg.DefaultLanguage)
	v.SetDefault("languages", cfg.Languages)

	v.SetDefault("storage.provider", cfg.Storage.Provider)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("storage.backup", cfg.Storage.Backup)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)

	v.SetDefault("collections.blog", cfg.Collections.Blog)
	v.SetDefault("collections.services", cfg.Collections.Services)
	v.SetDefault("collections.showcase", cfg.Collections.Showcase)
	v.SetDefault("collections.settings", cfg.Collections.Settings)

	v.SetDefault("blog.default_category", cfg.Blog.DefaultCategory)
	v.SetDefault("blog.default_author", cfg.Blog.DefaultAuthor)
	v.SetDefault("blog.default_author_title", cfg.Blog.DefaultAuthorTitle)
	v.SetDefault("blog.default_image", cfg.Blog.DefaultImage)

	v.SetDefault("showcase.categories", cfg.Showcase.Categories)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)

	v.SetDefault("markdown.enabled", cfg.Markdown.Enabled)
	v.SetDefault("markdown.dir", cfg.Markdown.Dir)
	v.SetDefault("markdown.pattern", cfg.Markdown.Pattern)
	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}

// splitList expands comma separated entries, which is how lists arrive
// from environment variables.
func splitList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
