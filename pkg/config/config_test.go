package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ProviderOllama, cfg.NLP.Provider)
	assert.Equal(t, "chunks", cfg.Vector.Table)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, "data/communities", cfg.Communities.SummaryDir)
	assert.Equal(t, 10, cfg.Communities.MaxConcurrency)
	assert.Equal(t, 5, cfg.Search.LocalTopK)
	assert.Equal(t, 3, cfg.Search.GlobalTopK)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "graphrag.yaml")
	content := []byte("nlp:\n  provider: openai\n  model: gpt-4o\nsearch:\n  local_top_k: 8\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.NLP.Provider)
	assert.Equal(t, "gpt-4o", cfg.NLP.Model)
	assert.Equal(t, 8, cfg.Search.LocalTopK)
	assert.Equal(t, 3, cfg.Search.GlobalTopK)
}

func TestOverrideWithEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_USER", "admin")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("DATABASE_URL", "postgres://db/rag")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("GRAPHRAG_SUMMARY_DIR", "/tmp/summaries")

	cfg := &Config{
		NLP:       NLPConfig{Provider: ProviderOpenAI},
		Embedding: EmbeddingConfig{Provider: ProviderOllama},
	}
	overrideWithEnv(cfg)

	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, "admin", cfg.Graph.Username)
	assert.Equal(t, "secret", cfg.Graph.Password)
	assert.Equal(t, "postgres://db/rag", cfg.Vector.URL)
	assert.Equal(t, "sk-test", cfg.NLP.APIKey)
	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Equal(t, "http://ollama:11434", cfg.Embedding.BaseURL)
	assert.Empty(t, cfg.NLP.BaseURL)
	assert.Equal(t, "/tmp/summaries", cfg.Communities.SummaryDir)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:      ServerConfig{Port: 8080},
			Vector:      VectorConfig{Dimensions: 768},
			NLP:         NLPConfig{Provider: ProviderOpenAI},
			Embedding:   EmbeddingConfig{Provider: ProviderOllama},
			Communities: CommunitiesConfig{MaxConcurrency: 10},
			Search:      SearchConfig{LocalTopK: 5, GlobalTopK: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown nlp provider", mutate: func(c *Config) { c.NLP.Provider = "anthropic" }, wantErr: true},
		{name: "unknown embedding provider", mutate: func(c *Config) { c.Embedding.Provider = "" }, wantErr: true},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "negative top_k", mutate: func(c *Config) { c.Search.GlobalTopK = -1 }, wantErr: true},
		{name: "zero dimensions", mutate: func(c *Config) { c.Vector.Dimensions = 0 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Communities.MaxConcurrency = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
