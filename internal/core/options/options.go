// SPDX-License-Identifier: Apache-2.0

package options

import "strings"

// OfflineModel is the model sentinel that suppresses the --model flag
const OfflineModel = "offline-mode"

// Default values mirror the generator's interactive settings panel
const (
	DefaultRepository    = "https://github.com/eli64s/readme-ai"
	DefaultModel         = "gpt-3.5-turbo"
	DefaultBadgeColor    = "#0080ff"
	DefaultContextWindow = 999
	DefaultTemperature   = 0.9
	DefaultTreeDepth     = 2
)

// Choice lists for the enumerated options, in display order
var (
	BadgeStyles  = []string{"flat", "flat-square", "plastic", "for-the-badge", "skills", "skills-light", "social"}
	Logos        = []string{"blue", "gradient", "black", "cloud", "purple", "grey", "custom", "llm"}
	HeaderStyles = []string{"classic", "modern", "compact"}
	TOCStyles    = []string{"bullet", "fold", "links", "number"}
	Alignments   = []string{"center", "left", "right"}
	Models       = []string{
		"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo", "llama2", "llama3", "llama3.1",
		"gemma2", "mistral", "gemini-1.5-flash", OfflineModel,
	}
)

// GenerationOptions holds everything needed for a single README generation request.
// It is treated as an immutable value once handed to the command builder.
type GenerationOptions struct {
	Repository    string   `json:"repository" yaml:"repository" mapstructure:"repository"`
	Output        string   `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
	APIKey        string   `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Provider      Provider `json:"api" yaml:"api" mapstructure:"api"`
	Model         string   `json:"model" yaml:"model" mapstructure:"model"`
	Emojis        bool     `json:"emojis" yaml:"emojis" mapstructure:"emojis"`
	Offline       bool     `json:"offline" yaml:"offline" mapstructure:"offline"`
	LLMImage      bool     `json:"llm_image" yaml:"llm_image" mapstructure:"llm_image"`
	BadgeStyle    string   `json:"badge_style" yaml:"badge_style" mapstructure:"badge_style"`
	Logo          string   `json:"logo" yaml:"logo" mapstructure:"logo"`
	HeaderStyle   string   `json:"header_style" yaml:"header_style" mapstructure:"header_style"`
	TOCStyle      string   `json:"toc_style" yaml:"toc_style" mapstructure:"toc_style"`
	Align         string   `json:"align" yaml:"align" mapstructure:"align"`
	BadgeColor    string   `json:"badge_color" yaml:"badge_color" mapstructure:"badge_color"`
	Temperature   float64  `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	ContextWindow int      `json:"context_window" yaml:"context_window" mapstructure:"context_window"`
	TreeDepth     int      `json:"tree_depth" yaml:"tree_depth" mapstructure:"tree_depth"`
}

// NewDefaultOptions returns the options a fresh session starts with
func NewDefaultOptions() GenerationOptions {
	return GenerationOptions{
		Repository:    DefaultRepository,
		Provider:      ProviderOpenAI,
		Model:         DefaultModel,
		BadgeStyle:    "flat",
		Logo:          "gradient",
		HeaderStyle:   "classic",
		TOCStyle:      "bullet",
		Align:         "center",
		BadgeColor:    DefaultBadgeColor,
		Temperature:   DefaultTemperature,
		ContextWindow: DefaultContextWindow,
		TreeDepth:     DefaultTreeDepth,
	}
}

// Color returns the badge color without its leading '#'
func (o GenerationOptions) Color() string {
	return strings.TrimPrefix(o.BadgeColor, "#")
}

// Image returns the value passed to the generator's --image flag
func (o GenerationOptions) Image() string {
	if o.LLMImage {
		return "llm"
	}
	return o.Logo
}

// UsesModel reports whether a --model flag should be emitted
func (o GenerationOptions) UsesModel() bool {
	return o.Model != OfflineModel
}

// CredentialEnv returns the environment variable the API key is injected under.
// Offline requests never receive a credential.
func (o GenerationOptions) CredentialEnv() (string, bool) {
	if o.Offline {
		return "", false
	}
	return o.Provider.CredentialEnv()
}

// Redacted returns a copy safe to log or persist
func (o GenerationOptions) Redacted() GenerationOptions {
	o.APIKey = ""
	return o
}

// ToMap flattens the options for schema validation and policy evaluation.
// The API key is never included.
func (o GenerationOptions) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"repository":     o.Repository,
		"output":         o.Output,
		"api":            string(o.Provider),
		"model":          o.Model,
		"emojis":         o.Emojis,
		"offline":        o.Offline,
		"llm_image":      o.LLMImage,
		"badge_style":    o.BadgeStyle,
		"logo":           o.Logo,
		"header_style":   o.HeaderStyle,
		"toc_style":      o.TOCStyle,
		"align":          o.Align,
		"badge_color":    o.BadgeColor,
		"temperature":    o.Temperature,
		"context_window": o.ContextWindow,
		"tree_depth":     o.TreeDepth,
	}
}
