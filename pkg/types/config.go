package types

import "time"

// HTTPConfig holds settings for fetching documents over HTTP.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "element-inspector/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Token is sent as a bearer token when set. Usually loaded from the
	// document-token secret rather than the config file.
	Token string `json:"-" yaml:"-" mapstructure:"token"`
}

// InspectConfig holds settings for a single extraction run.
type InspectConfig struct {
	// MaxDepth bounds expansion depth. Zero defers to the rules file, then
	// to the extractor default (3).
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`

	// RulesFile is the path of the classification rules YAML.
	RulesFile string `json:"rules" yaml:"rules" mapstructure:"rules"`
}

// CatalogConfig holds settings for the extracted-item catalog.
type CatalogConfig struct {
	InspectConfig `yaml:",inline" mapstructure:",squash"`

	// DocumentsDir is the directory scanned for element documents.
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir" mapstructure:"documents_dir"`

	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir" mapstructure:"catalog_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Workers bounds concurrent document extraction during ingest (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// Format is "text" or "json".
	Format string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	LogConfig     `yaml:",inline" mapstructure:",squash"`
	CatalogConfig `yaml:",inline" mapstructure:",squash"`
	HTTP          HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`
}
