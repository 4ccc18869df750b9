package textgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToOpenAI(t *testing.T) {
	gen, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", gen.ModelName())
}

func TestNew_Anthropic(t *testing.T) {
	gen, err := New(Config{Provider: ProviderAnthropic, APIKey: "k", Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", gen.ModelName())
}

func TestNew_OllamaNeedsNoKey(t *testing.T) {
	gen, err := New(Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", gen.ModelName())
}

func TestNew_HostedProvidersRequireKey(t *testing.T) {
	_, err := New(Config{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = New(Config{Provider: ProviderAnthropic})
	assert.Error(t, err)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "cohere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohere")
}

func TestNeedsAPIKey(t *testing.T) {
	assert.True(t, NeedsAPIKey(ProviderOpenAI))
	assert.True(t, NeedsAPIKey(ProviderAnthropic))
	assert.True(t, NeedsAPIKey(""))
	assert.False(t, NeedsAPIKey(ProviderOllama))
}
