package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	yaml := `
server:
  port: 9090
gemini:
  api_key: test-key
cors:
  allowed_origins:
    - https://app.example.com
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
	// untouched values keep their defaults
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(strings.NewReader("gemini:\n  api_key: ${GEMINI_API_KEY}\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
}

func TestExpandEnvVarsDefaultSyntax(t *testing.T) {
	t.Setenv("SET_VAR", "value")

	assert.Equal(t, "value", expandEnvVars("${SET_VAR:-fallback}"))
	assert.Equal(t, "fallback", expandEnvVars("${UNSET_VAR_XYZ:-fallback}"))
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "3001")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("PUBLIC_BASE_URL", "https://relay.example.com")

	cfg, err := Load(strings.NewReader("gemini:\n  api_key: file-key\nserver:\n  port: 9999\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://relay.example.com", cfg.PublicBaseURL)
}

func TestValidateRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load(strings.NewReader("server:\n  port: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")

	_, err := Load(strings.NewReader("server:\n  port: 70000\n"))
	require.Error(t, err)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "k"
	cfg.Logging.Level = "verbose"

	require.Error(t, cfg.Validate())
}
