package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	CommitDebounce time.Duration `mapstructure:"commit_debounce" yaml:"commit_debounce"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	Translation Translation `mapstructure:"translation" yaml:"translation"`
}

// Translation holds the external provider settings. Model identifier and
// sampling knobs live here so provider churn never touches code.
type Translation struct {
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Model             string        `mapstructure:"model" yaml:"model"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	SourceLanguage    string        `mapstructure:"source_language" yaml:"source_language"`
	DefaultTarget     string        `mapstructure:"default_target" yaml:"default_target"`
	FirstChunkTimeout time.Duration `mapstructure:"first_chunk_timeout" yaml:"first_chunk_timeout"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "livesteno.db",
		LogLevel:          "info",
		CommitDebounce:    800 * time.Millisecond,
		PollInterval:      500 * time.Millisecond,
		Translation: Translation{
			SourceLanguage:    "ko",
			DefaultTarget:     "en",
			FirstChunkTimeout: 18 * time.Second,
			Temperature:       0.1,
			MaxTokens:         500,
		},
	}
}
