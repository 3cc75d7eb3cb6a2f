package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.Port)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "ai_memory.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "outputs", cfg.Storage.OutputDir)
	assert.Equal(t, EnhancerOllama, cfg.Enhancer.Provider)
	assert.Equal(t, "deepseek-r1:1.5b", cfg.Enhancer.OllamaModel)
	assert.Equal(t, 30*time.Second, cfg.Enhancer.Timeout)
	assert.Equal(t, 1, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, "obj", cfg.Apps.ModelFormat)
	assert.Equal(t, 8501, cfg.Frontend.Port)
	assert.Empty(t, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENHANCER_PROVIDER", "OpenAI")
	t.Setenv("PIPELINE_TIMEOUT", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("FRONTEND_API_URL", "http://api.test/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, EnhancerOpenAI, cfg.Enhancer.Provider)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "http://api.test", cfg.Frontend.APIURL)
}

func TestLoad_InvalidDuration_FallsBack(t *testing.T) {
	t.Setenv("APP_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Apps.Timeout)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownEnhancer(t *testing.T) {
	t.Setenv("ENHANCER_PROVIDER", "magic")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MaxConcurrentClamped(t *testing.T) {
	t.Setenv("PIPELINE_MAX_CONCURRENT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Pipeline.MaxConcurrent)
}
