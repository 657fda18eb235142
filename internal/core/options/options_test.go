// SPDX-License-Identifier: Apache-2.0

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationOptions(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := NewDefaultOptions()

		assert.Equal(t, DefaultRepository, opts.Repository)
		assert.Equal(t, ProviderOpenAI, opts.Provider)
		assert.Equal(t, "gradient", opts.Logo)
		assert.Equal(t, 999, opts.ContextWindow)
		assert.Equal(t, 0.9, opts.Temperature)
		assert.Equal(t, 2, opts.TreeDepth)
		assert.False(t, opts.Emojis)
	})

	t.Run("ColorStripsHash", func(t *testing.T) {
		opts := GenerationOptions{BadgeColor: "#1a2b3c"}
		assert.Equal(t, "1a2b3c", opts.Color())

		opts.BadgeColor = "1a2b3c"
		assert.Equal(t, "1a2b3c", opts.Color())
	})

	t.Run("ImagePrefersLLM", func(t *testing.T) {
		opts := GenerationOptions{Logo: "cloud"}
		assert.Equal(t, "cloud", opts.Image())

		opts.LLMImage = true
		assert.Equal(t, "llm", opts.Image())
	})

	t.Run("OfflineModelSuppressesModel", func(t *testing.T) {
		assert.False(t, GenerationOptions{Model: OfflineModel}.UsesModel())
		assert.True(t, GenerationOptions{Model: "gpt-4"}.UsesModel())
	})

	t.Run("RedactedDropsKey", func(t *testing.T) {
		opts := GenerationOptions{APIKey: "sk-secret", Repository: "r"}
		redacted := opts.Redacted()

		assert.Empty(t, redacted.APIKey)
		assert.Equal(t, "r", redacted.Repository)
		assert.Equal(t, "sk-secret", opts.APIKey)
	})

	t.Run("ToMapOmitsKey", func(t *testing.T) {
		m := NewDefaultOptions().ToMap()

		_, hasKey := m["api_key"]
		assert.False(t, hasKey)
		assert.Equal(t, "openai", m["api"])
		assert.Equal(t, 999, m["context_window"])
	})
}

func TestCredentialEnv(t *testing.T) {
	tests := []struct {
		name     string
		opts     GenerationOptions
		expected string
		ok       bool
	}{
		{"openai", GenerationOptions{Provider: ProviderOpenAI}, "OPENAI_API_KEY", true},
		{"anthropic", GenerationOptions{Provider: ProviderAnthropic}, "ANTHROPIC_API_KEY", true},
		{"gemini", GenerationOptions{Provider: ProviderGemini}, "GOOGLE_API_KEY", true},
		{"ollama", GenerationOptions{Provider: ProviderOllama}, "", false},
		{"offline provider", GenerationOptions{Provider: ProviderOffline}, "", false},
		{"offline flag", GenerationOptions{Provider: ProviderOpenAI, Offline: true}, "", false},
		{"unknown", GenerationOptions{Provider: "bogus"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := tt.opts.CredentialEnv()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Gemini ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)

	_, err = ParseProvider("watsonx")
	assert.Error(t, err)

	assert.Len(t, Providers(), 5)
}
