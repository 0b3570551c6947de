package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudevolvers/go-contentstore/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateRejectsInconsistentSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"missing default language", func(c *runtimeconfig.Config) { c.DefaultLanguage = " " }, runtimeconfig.ErrDefaultLanguageRequired},
		{"default language not listed", func(c *runtimeconfig.Config) { c.Languages = []string{"nl"} }, runtimeconfig.ErrDefaultLanguageMissing},
		{"unknown storage", func(c *runtimeconfig.Config) { c.Storage.Provider = "s3" }, runtimeconfig.ErrStorageProviderUnknown},
		{"file without dir", func(c *runtimeconfig.Config) { c.Storage.Dir = "" }, runtimeconfig.ErrStorageDirRequired},
		{"bun without dsn", func(c *runtimeconfig.Config) { c.Storage.Provider = "bun" }, runtimeconfig.ErrStorageDSNRequired},
		{"bun with unknown driver", func(c *runtimeconfig.Config) {
			c.Storage.Provider = "bun"
			c.Storage.Driver = "mysql"
			c.Storage.DSN = "x"
		}, runtimeconfig.ErrStorageDriverUnknown},
		{"blank collection", func(c *runtimeconfig.Config) { c.Collections.Showcase = "" }, runtimeconfig.ErrCollectionNameRequired},
		{"shared collection", func(c *runtimeconfig.Config) { c.Collections.Services = "blogs" }, runtimeconfig.ErrCollectionNameDuplicated},
		{"markdown without dir", func(c *runtimeconfig.Config) {
			c.Markdown.Enabled = true
			c.Markdown.Dir = ""
		}, runtimeconfig.ErrMarkdownDirRequired},
		{"unknown logger", func(c *runtimeconfig.Config) { c.Logging.Provider = "zap" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad format", func(c *runtimeconfig.Config) { c.Logging.Format = "xml" }, runtimeconfig.ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadAppliesFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contentstore.yaml")
	data := []byte(`
default_language: en
languages: [en, nl, de]
storage:
  provider: file
  dir: /srv/content
  backup: true
http:
  addr: ":9000"
  read_timeout: 5s
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONTENTSTORE_HTTP_ADDR", ":9100")
	t.Setenv("CONTENTSTORE_SHOWCASE_CATEGORIES", "platform,development")

	cfg, err := runtimeconfig.Load(runtimeconfig.LoadOptions{ConfigFile: path, EnvFiles: []string{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Dir != "/srv/content" || !cfg.Storage.Backup {
		t.Fatalf("expected storage from file, got %+v", cfg.Storage)
	}
	if len(cfg.Languages) != 3 || cfg.Languages[2] != "de" {
		t.Fatalf("expected languages from file, got %v", cfg.Languages)
	}
	if cfg.HTTP.Addr != ":9100" {
		t.Fatalf("expected env override, got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("expected duration from file, got %v", cfg.HTTP.ReadTimeout)
	}
	if len(cfg.Showcase.Categories) != 2 || cfg.Showcase.Categories[1] != "development" {
		t.Fatalf("expected categories from env, got %v", cfg.Showcase.Categories)
	}
	if cfg.Collections.Blog != "blogs" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected defaults merged with file values, got %+v %+v", cfg.Collections, cfg.Logging)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("CONTENTSTORE_STORAGE_PROVIDER=memory\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CONTENTSTORE_STORAGE_PROVIDER") })

	cfg, err := runtimeconfig.Load(runtimeconfig.LoadOptions{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageProviderMemory {
		t.Fatalf("expected provider from .env, got %q", cfg.Storage.Provider)
	}
}

func TestLoadRejectsMissingConfigFile(t *testing.T) {
	_, err := runtimeconfig.Load(runtimeconfig.LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFiles: []string{}})
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadValidates(t *testing.T) {
	t.Setenv("CONTENTSTORE_STORAGE_PROVIDER", "s3")
	_, err := runtimeconfig.Load(runtimeconfig.LoadOptions{EnvFiles: []string{}})
	if !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
