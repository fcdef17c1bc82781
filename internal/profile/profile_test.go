package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VOYAGER_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY",
		"VOYAGER_OPENAI_API_KEY", "OPENAI_API_KEY",
		"VOYAGER_DEEPSEEK_API_KEY", "VOYAGER_OLLAMA_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("VOYAGER_ANTHROPIC_API_KEY", "sk-test")

	var p Profile
	p.FromEnv()

	assert.Equal(t, "sk-test", p.AnthropicAPIKey)
	assert.Equal(t, "https://api.anthropic.com/v1", p.AnthropicBaseURL)
	assert.NotEmpty(t, p.AnthropicModel)
	assert.Equal(t, 120, p.LLMTimeout)
	assert.True(t, p.HasLLMProvider())
	assert.False(t, p.HasAmadeus())
}

func TestFromEnv_PrefixedKeyWins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "plain")
	t.Setenv("VOYAGER_OPENAI_API_KEY", "prefixed")

	var p Profile
	p.FromEnv()
	assert.Equal(t, "prefixed", p.OpenAIAPIKey)
}

func TestFromEnv_OllamaOnlyNeedsBaseURL(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("VOYAGER_OLLAMA_BASE_URL", "http://localhost:11434/v1")

	var p Profile
	p.FromEnv()
	assert.True(t, p.HasLLMProvider())
	assert.Equal(t, "llama3.1", p.OllamaModel)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	p := Profile{
		AnthropicAPIKey: "sk-test",
		Mode:            "weird",
		Data:            filepath.Join(dir, "data"),
		OutputDir:       filepath.Join(dir, "out"),
	}

	require.NoError(t, p.Validate())
	assert.Equal(t, "dev", p.Mode, "unknown modes normalize to dev")
	assert.DirExists(t, p.Data)
	assert.DirExists(t, p.OutputDir)
	assert.True(t, p.IsDev())
}

func TestValidate_RequiresProvider(t *testing.T) {
	p := Profile{Mode: "dev", Data: t.TempDir(), OutputDir: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider configured")
}
