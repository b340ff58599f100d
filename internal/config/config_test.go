package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "secret")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "0.0.0.0:8080", config.Address())
	assert.Equal(t, ProviderMock, config.LLMProvider)
	assert.Equal(t, DatabaseSQLite, config.DatabaseDriver)
	assert.Equal(t, "interview-videos", config.VideoBucket)
	assert.True(t, config.IsDevelopment())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "JWT_SECRET=from-file\nPORT=9191\nLLM_PROVIDER=openai\nSTORAGE_PROVIDER=supabase\nSUPABASE_URL=https://xyz.supabase.co\nSUPABASE_SERVICE_KEY=key\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ENV_PATH", path)
	for _, key := range []string{"JWT_SECRET", "PORT", "LLM_PROVIDER", "STORAGE_PROVIDER", "SUPABASE_URL", "SUPABASE_SERVICE_KEY"} {
		// t.Setenv restores the variable godotenv is about to set
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", config.JWTSecret)
	assert.Equal(t, 9191, config.Port)
	assert.Equal(t, ProviderOpenAI, config.LLMProvider)
	assert.Equal(t, ProviderSupabase, config.StorageProvider)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TTS_PROVIDER", "polly")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TTS_PROVIDER", ProviderMock)
	t.Setenv("STORAGE_PROVIDER", ProviderSupabase)
	_, err = Load()
	assert.Error(t, err)
}
