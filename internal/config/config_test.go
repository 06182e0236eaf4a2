package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PORT", "HOST", "APP_NAME", "REFERER_URL", "CORS_ORIGINS",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL",
		"QUOTE_MODEL", "QUOTE_MAX_TOKENS", "QUOTE_REASONING_MAX_TOKENS",
		"KNOWLEDGE_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_REPORT_CALLER",
		"CIRCUIT_BREAKER_ENABLED", "CIRCUIT_BREAKER_FAILURE_THRESHOLD",
		"CIRCUIT_BREAKER_SUCCESS_THRESHOLD", "CIRCUIT_BREAKER_TIMEOUT",
		"CIRCUIT_BREAKER_MAX_REQUESTS",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}

func TestLoadYAML_Defaults(t *testing.T) {
	clearEnv(t)

	// Point at a path that does not exist so defaults apply
	cfg, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLMProvider.BaseURL)
	assert.Equal(t, "anthropic/claude-sonnet-4.5", cfg.LLMProvider.Model)
	assert.Equal(t, 16000, cfg.LLMProvider.MaxTokens)
	assert.Equal(t, 8000, cfg.LLMProvider.ReasoningMaxTokens)
	assert.Equal(t, "knowledge", cfg.Knowledge.Dir)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 60*time.Second, cfg.CircuitBreaker.Timeout)
}

func TestLoadYAML_MissingAPIKeySelectsSimulatedMode(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Simulated())
}

func TestLoadYAML_APIKeySelectsLiveMode(t *testing.T) {
	clearEnv(t)
	os.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	defer os.Unsetenv("OPENROUTER_API_KEY")

	cfg, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.False(t, cfg.Simulated())
	assert.Equal(t, "sk-or-test", cfg.LLMProvider.APIKey)
}

func TestLoadYAML_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("PORT", "9090")
	os.Setenv("QUOTE_MODEL", "anthropic/claude-opus-4.1")
	os.Setenv("QUOTE_MAX_TOKENS", "4000")
	os.Setenv("KNOWLEDGE_DIR", "/srv/knowledge")
	os.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")
	os.Setenv("CIRCUIT_BREAKER_TIMEOUT", "30s")
	defer clearEnv(t)

	cfg, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "anthropic/claude-opus-4.1", cfg.LLMProvider.Model)
	assert.Equal(t, 4000, cfg.LLMProvider.MaxTokens)
	assert.Equal(t, "/srv/knowledge", cfg.Knowledge.Dir)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 30*time.Second, cfg.CircuitBreaker.Timeout)
}

func TestLoadYAML_FromFile(t *testing.T) {
	clearEnv(t)

	content := `
server:
  port: "3000"
  app_name: "Quote Service"
llm_provider:
  model: "anthropic/claude-sonnet-4.5"
  max_tokens: 12000
knowledge:
  dir: "docs"
circuit_breaker:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadYAML(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "Quote Service", cfg.Server.AppName)
	assert.Equal(t, 12000, cfg.LLMProvider.MaxTokens)
	assert.Equal(t, "docs", cfg.Knowledge.Dir)
	assert.False(t, cfg.CircuitBreaker.Enabled)
}

func TestLoadYAML_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty model",
			yaml:    "llm_provider:\n  model: \"\"\n",
			wantErr: "llm_provider.model must not be empty",
		},
		{
			name:    "non-positive max tokens",
			yaml:    "llm_provider:\n  max_tokens: 0\n",
			wantErr: "max_tokens must be positive",
		},
		{
			name:    "empty knowledge dir",
			yaml:    "knowledge:\n  dir: \"\"\n",
			wantErr: "knowledge.dir must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadYAML(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadYAML_EnvExpansionInFile(t *testing.T) {
	clearEnv(t)
	os.Setenv("TEST_QUOTE_PORT", "4242")
	defer os.Unsetenv("TEST_QUOTE_PORT")

	content := "server:\n  port: \"${TEST_QUOTE_PORT}\"\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "4242", cfg.Server.Port)
}
