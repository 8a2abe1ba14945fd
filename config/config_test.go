package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DATABASE_NAME", "")
		t.Setenv("OPENAI_API_URL", "")
		t.Setenv("OPENAI_API_KEY", "")

		cfg := Load()

		assert.Equal(t, "8000", cfg.ServerPort)
		assert.Empty(t, cfg.DatabaseURL)
		assert.Empty(t, cfg.DatabaseName)
		assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.VisionAPIURL)
		assert.Empty(t, cfg.VisionAPIKey)
		assert.False(t, cfg.HasDatabase())
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
		t.Setenv("DATABASE_NAME", "calories")
		t.Setenv("OPENAI_API_URL", "http://upstream.local/v1/chat/completions")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg := Load()

		assert.Equal(t, "9090", cfg.ServerPort)
		assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
		assert.Equal(t, "calories", cfg.DatabaseName)
		assert.Equal(t, "http://upstream.local/v1/chat/completions", cfg.VisionAPIURL)
		assert.Equal(t, "sk-test", cfg.VisionAPIKey)
		assert.True(t, cfg.HasDatabase())
	})
}
