package contentstore

import "github.com/cloudevolvers/go-contentstore/internal/runtimeconfig"

var (
	ErrDefaultLanguageRequired  = runtimeconfig.ErrDefaultLanguageRequired
	ErrDefaultLanguageMissing   = runtimeconfig.ErrDefaultLanguageMissing
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDirRequired       = runtimeconfig.ErrStorageDirRequired
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrCollectionNameRequired   = runtimeconfig.ErrCollectionNameRequired
	ErrCollectionNameDuplicated = runtimeconfig.ErrCollectionNameDuplicated
	ErrMarkdownDirRequired      = runtimeconfig.ErrMarkdownDirRequired
	ErrHTTPAddrRequired         = runtimeconfig.ErrHTTPAddrRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	CollectionsConfig = runtimeconfig.CollectionsConfig
	BlogConfig        = runtimeconfig.BlogConfig
	ShowcaseConfig    = runtimeconfig.ShowcaseConfig
	HTTPConfig        = runtimeconfig.HTTPConfig
	MarkdownConfig    = runtimeconfig.MarkdownConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	LoadOptions       = runtimeconfig.LoadOptions
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, an optional config file, .env files and
// CONTENTSTORE_ environment variables.
func LoadConfig(opts LoadOptions) (Config, error) {
	return runtimeconfig.Load(opts)
}
