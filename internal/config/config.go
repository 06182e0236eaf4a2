package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	LLMProvider    LLMProviderConfig    `yaml:"llm_provider"`
	Knowledge      KnowledgeConfig      `yaml:"knowledge"`
	Logging        LoggingConfig        `yaml:"logging"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        string   `yaml:"port"`
	AppName     string   `yaml:"app_name"`
	RefererURL  string   `yaml:"referer_url"`
	CorsOrigins []string `yaml:"cors_origins"`
}

type LLMProviderConfig struct {
	APIKey             string `yaml:"api_key"`
	BaseURL            string `yaml:"base_url"`
	Model              string `yaml:"model"`
	MaxTokens          int    `yaml:"max_tokens"`
	ReasoningMaxTokens int    `yaml:"reasoning_max_tokens"`
}

type KnowledgeConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	ReportCaller bool   `yaml:"report_caller"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	SuccessThreshold uint32        `yaml:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRequests      uint32        `yaml:"max_requests"`
}

// LoadYAML loads configuration from YAML file with environment variable overrides
func LoadYAML(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	config := getDefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in YAML content
		expandedYAML := os.ExpandEnv(string(yamlFile))

		if err := yaml.Unmarshal([]byte(expandedYAML), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		logrus.WithField("config_file", configPath).Info("Loaded configuration from YAML file")
	} else {
		logrus.WithField("config_file", configPath).Warn("Config file not found, using defaults and environment variables")
	}

	config = applyEnvironmentOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// getDefaultConfig returns a configuration with sensible defaults
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			AppName:     "AccuPrint Estimator",
			RefererURL:  "https://eps-connect-demo.vercel.app",
			CorsOrigins: []string{"*"},
		},
		LLMProvider: LLMProviderConfig{
			BaseURL:            "https://openrouter.ai/api/v1",
			Model:              "anthropic/claude-sonnet-4.5",
			MaxTokens:          16000,
			ReasoningMaxTokens: 8000,
		},
		Knowledge: KnowledgeConfig{
			Dir: "knowledge",
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "auto",
			ReportCaller: false,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          60 * time.Second,
			MaxRequests:      3,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to config
func applyEnvironmentOverrides(config *Config) *Config {
	// Server overrides
	if val := os.Getenv("HOST"); val != "" {
		config.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		config.Server.Port = val
	}
	if val := os.Getenv("APP_NAME"); val != "" {
		config.Server.AppName = val
	}
	if val := os.Getenv("REFERER_URL"); val != "" {
		config.Server.RefererURL = val
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		config.Server.CorsOrigins = strings.Split(val, ",")
		for i := range config.Server.CorsOrigins {
			config.Server.CorsOrigins[i] = strings.TrimSpace(config.Server.CorsOrigins[i])
		}
	}

	// LLM Provider overrides
	if val := os.Getenv("OPENROUTER_API_KEY"); val != "" {
		config.LLMProvider.APIKey = val
	}
	if val := os.Getenv("OPENROUTER_BASE_URL"); val != "" {
		config.LLMProvider.BaseURL = val
	}
	if val := os.Getenv("QUOTE_MODEL"); val != "" {
		config.LLMProvider.Model = val
	}
	if val := os.Getenv("QUOTE_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.LLMProvider.MaxTokens = i
		}
	}
	if val := os.Getenv("QUOTE_REASONING_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.LLMProvider.ReasoningMaxTokens = i
		}
	}

	// Knowledge base overrides
	if val := os.Getenv("KNOWLEDGE_DIR"); val != "" {
		config.Knowledge.Dir = val
	}

	// Logging overrides
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		config.Logging.Format = val
	}
	if val := os.Getenv("LOG_REPORT_CALLER"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			config.Logging.ReportCaller = b
		}
	}

	// Circuit breaker overrides
	if val := os.Getenv("CIRCUIT_BREAKER_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			config.CircuitBreaker.Enabled = b
		}
	}
	if val := os.Getenv("CIRCUIT_BREAKER_FAILURE_THRESHOLD"); val != "" {
		if i, err := strconv.ParseUint(val, 10, 32); err == nil {
			config.CircuitBreaker.FailureThreshold = uint32(i)
		}
	}
	if val := os.Getenv("CIRCUIT_BREAKER_SUCCESS_THRESHOLD"); val != "" {
		if i, err := strconv.ParseUint(val, 10, 32); err == nil {
			config.CircuitBreaker.SuccessThreshold = uint32(i)
		}
	}
	if val := os.Getenv("CIRCUIT_BREAKER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.CircuitBreaker.Timeout = d
		}
	}
	if val := os.Getenv("CIRCUIT_BREAKER_MAX_REQUESTS"); val != "" {
		if i, err := strconv.ParseUint(val, 10, 32); err == nil {
			config.CircuitBreaker.MaxRequests = uint32(i)
		}
	}

	return config
}

// validateConfig validates the configuration and returns errors for invalid values.
// A missing API key is NOT an error: it is the documented switch into simulated mode.
func validateConfig(config *Config) error {
	var errors []string

	if config.LLMProvider.Model == "" {
		errors = append(errors, "llm_provider.model must not be empty")
	} else if !strings.Contains(config.LLMProvider.Model, "/") {
		logrus.WithField("model", config.LLMProvider.Model).Warn("Model may not be valid - expected format: provider/model")
	}

	if config.LLMProvider.MaxTokens <= 0 {
		errors = append(errors, fmt.Sprintf("llm_provider.max_tokens must be positive (current: %d)", config.LLMProvider.MaxTokens))
	}
	if config.LLMProvider.ReasoningMaxTokens < 0 {
		errors = append(errors, fmt.Sprintf("llm_provider.reasoning_max_tokens must not be negative (current: %d)", config.LLMProvider.ReasoningMaxTokens))
	}

	if config.Knowledge.Dir == "" {
		errors = append(errors, "knowledge.dir must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Simulated reports whether the service should run without a model provider.
// Mode selection happens once, here, and is threaded into the composition
// root rather than read ad hoc deep in the call graph.
func (c *Config) Simulated() bool {
	return c.LLMProvider.APIKey == ""
}
