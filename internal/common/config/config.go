// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	APIs          APIsConfig          `mapstructure:"apis"`
	Workflow      WorkflowConfig      `mapstructure:"workflow"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---
type AppConfig struct {
	Name         string `mapstructure:"name"`
	Version      string `mapstructure:"version"`
	Environment  string `mapstructure:"environment"`
	DefaultQuery string `mapstructure:"default_query"`
}

// APIsConfig holds settings for the language model and the search provider.
type APIsConfig struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Search SearchConfig `mapstructure:"search"`
}

type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	// GenericModel answers greetings and small talk. Empty means Model.
	GenericModel string `mapstructure:"chat_model_for_generic"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds, 0 = none
}

type SearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	NumResults int    `mapstructure:"num_results"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds, 0 = none
}

// WorkflowConfig bounds the research state machines.
type WorkflowConfig struct {
	MaxSupervisorVisits int `mapstructure:"max_supervisor_visits"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ObservabilityConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
