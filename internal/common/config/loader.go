// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "research-router/internal/common/errors"
)

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultSearchBaseURL = "https://serpapi.com/search.json"
	DefaultQuery         = "What are the current trends in sustainable packaging?"
	DefaultServiceName   = "research-router"

	// minSupervisorVisits is the fetch, summarize, finish path.
	minSupervisorVisits = 3
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env file is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", DefaultServiceName)
	v.SetDefault("app.version", "")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.default_query", DefaultQuery)

	v.SetDefault("apis.llm.base_url", "")
	v.SetDefault("apis.llm.api_key", "")
	v.SetDefault("apis.llm.model", DefaultModel)
	v.SetDefault("apis.llm.temperature", 0.0)
	v.SetDefault("apis.llm.chat_model_for_generic", "")
	v.SetDefault("apis.llm.timeout", 0)

	v.SetDefault("apis.search.base_url", DefaultSearchBaseURL)
	v.SetDefault("apis.search.api_key", "")
	v.SetDefault("apis.search.num_results", 5)
	v.SetDefault("apis.search.timeout", 0)

	v.SetDefault("workflow.max_supervisor_visits", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("observability.service_name", DefaultServiceName)
	v.SetDefault("observability.metrics_addr", "")
	v.SetDefault("observability.otlp_endpoint", "")
}

// loadEnvFile loads the first .env found walking up to the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills credentials from the provider's conventional env names.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.LLM.APIKey == "" {
		cfg.APIs.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIs.LLM.BaseURL == "" {
		cfg.APIs.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if cfg.APIs.Search.APIKey == "" {
		if val := os.Getenv("SERP_API_KEY"); val != "" {
			cfg.APIs.Search.APIKey = val
		} else {
			cfg.APIs.Search.APIKey = os.Getenv("SERPAPI_API_KEY")
		}
	}
}

// applyDefaults covers values a config file explicitly blanked out.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = DefaultServiceName
	}
	if cfg.App.DefaultQuery == "" {
		cfg.App.DefaultQuery = DefaultQuery
	}
	if cfg.APIs.LLM.Model == "" {
		cfg.APIs.LLM.Model = DefaultModel
	}
	if cfg.APIs.LLM.GenericModel == "" {
		cfg.APIs.LLM.GenericModel = cfg.APIs.LLM.Model
	}
	if cfg.APIs.Search.BaseURL == "" {
		cfg.APIs.Search.BaseURL = DefaultSearchBaseURL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields. Credentials are not
// checked here; the fetch step degrades without a search key.
func validateConfig(cfg *Config) error {
	if cfg.APIs.Search.NumResults < 1 {
		return apperrors.NewConfigInvalidError("apis.search.num_results must be at least 1")
	}
	if cfg.Workflow.MaxSupervisorVisits < minSupervisorVisits {
		return apperrors.NewConfigInvalidError(
			fmt.Sprintf("workflow.max_supervisor_visits must be at least %d", minSupervisorVisits))
	}
	if cfg.APIs.LLM.Temperature < 0 || cfg.APIs.LLM.Temperature > 2 {
		return apperrors.NewConfigInvalidError("apis.llm.temperature must be between 0 and 2")
	}
	if cfg.APIs.LLM.Timeout < 0 || cfg.APIs.Search.Timeout < 0 {
		return apperrors.NewConfigInvalidError("timeouts must not be negative")
	}
	return nil
}
