// SPDX-License-Identifier: Apache-2.0

package options

import (
	"fmt"
	"strings"
)

// Provider identifies the LLM service the generator talks to
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
	ProviderOffline   Provider = "offline"
)

// credentialEnv maps each provider to the variable its API key is read from.
// Local and offline providers need no credential.
var credentialEnv = map[Provider]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GOOGLE_API_KEY",
	ProviderOllama:    "",
	ProviderOffline:   "",
}

// Providers returns all known providers in display order
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama, ProviderOffline}
}

// ParseProvider converts a user-supplied name into a Provider
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := credentialEnv[p]; !ok {
		return "", fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// CredentialEnv returns the credential variable name for the provider, if any
func (p Provider) CredentialEnv() (string, bool) {
	name, ok := credentialEnv[p]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (p Provider) String() string {
	return string(p)
}
