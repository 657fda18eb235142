// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kusari-oss/readmegen/internal/core/format"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/spf13/cobra"
)

// addOptionFlags registers one flag per generation option
func addOptionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("repository", "r", "", "Repository URL or local path")
	f.StringP("output", "o", "", "Output file for the generated README")
	f.String("api", "", fmt.Sprintf("LLM provider (%s)", strings.Join(providerNames(), ", ")))
	f.StringP("model", "m", "", fmt.Sprintf("Model name (%s); %q runs without a model", strings.Join(options.Models, ", "), options.OfflineModel))
	f.Bool("emojis", false, "Add emojis to section headers")
	f.Bool("offline", false, "Generate without calling an LLM")
	f.Bool("llm-image", false, "Generate the project logo with the LLM")
	f.String("badge-style", "", fmt.Sprintf("Badge style (%s)", strings.Join(options.BadgeStyles, ", ")))
	f.String("logo", "", fmt.Sprintf("Logo theme (%s)", strings.Join(options.Logos, ", ")))
	f.String("header-style", "", fmt.Sprintf("Header style (%s)", strings.Join(options.HeaderStyles, ", ")))
	f.String("toc-style", "", fmt.Sprintf("Table of contents style (%s)", strings.Join(options.TOCStyles, ", ")))
	f.String("align", "", fmt.Sprintf("Header alignment (%s)", strings.Join(options.Alignments, ", ")))
	f.String("badge-color", "", "Badge color as a hex value, e.g. #0080ff")
	f.Float64("temperature", 0, "Sampling temperature (0.0 to 2.0)")
	f.Int("context-window", 0, "Maximum context window")
	f.Int("tree-depth", 0, "Maximum directory tree depth (1 to 5)")
	f.StringP("options-file", "f", "", "YAML or JSON file with generation options")
	f.String("api-key", "", "Provider API key (defaults to the provider's environment variable)")
}

func providerNames() []string {
	var names []string
	for _, p := range options.Providers() {
		names = append(names, p.String())
	}
	return names
}

// optionsFromFlags layers the options file and explicitly set flags over base
func optionsFromFlags(cmd *cobra.Command, base options.GenerationOptions) (options.GenerationOptions, error) {
	f := cmd.Flags()
	opts := base

	if path, _ := f.GetString("options-file"); path != "" {
		var err error
		opts, err = format.LoadOptionsFile(path, opts)
		if err != nil {
			return base, err
		}
	}

	stringFlags := map[string]*string{
		"repository":   &opts.Repository,
		"output":       &opts.Output,
		"model":        &opts.Model,
		"badge-style":  &opts.BadgeStyle,
		"logo":         &opts.Logo,
		"header-style": &opts.HeaderStyle,
		"toc-style":    &opts.TOCStyle,
		"align":        &opts.Align,
		"badge-color":  &opts.BadgeColor,
		"api-key":      &opts.APIKey,
	}
	for name, target := range stringFlags {
		if f.Changed(name) {
			*target, _ = f.GetString(name)
		}
	}

	boolFlags := map[string]*bool{
		"emojis":    &opts.Emojis,
		"offline":   &opts.Offline,
		"llm-image": &opts.LLMImage,
	}
	for name, target := range boolFlags {
		if f.Changed(name) {
			*target, _ = f.GetBool(name)
		}
	}

	if f.Changed("api") {
		name, _ := f.GetString("api")
		provider, err := options.ParseProvider(name)
		if err != nil {
			return base, err
		}
		opts.Provider = provider
	}
	if f.Changed("temperature") {
		opts.Temperature, _ = f.GetFloat64("temperature")
	}
	if f.Changed("context-window") {
		opts.ContextWindow, _ = f.GetInt("context-window")
	}
	if f.Changed("tree-depth") {
		opts.TreeDepth, _ = f.GetInt("tree-depth")
	}

	if opts.APIKey == "" {
		if name, ok := opts.CredentialEnv(); ok {
			opts.APIKey = os.Getenv(name)
		}
	}

	return opts, nil
}
