package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30, cfg.LLM.TimeoutSec)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
http:
  addr: ":9999"
llm:
  model: test-model
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.LLM.TimeoutSec)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("MEALGRAPH_HTTP_ADDR", ":7777")
	t.Setenv("MEALGRAPH_LLM_TIMEOUT_SEC", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.LLM.TimeoutSec)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("MEALGRAPH_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}
