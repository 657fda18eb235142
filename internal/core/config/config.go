// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/kusari-oss/readmegen/internal/core/command"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/core/policy"
	"github.com/kusari-oss/readmegen/internal/core/template"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Constants for default paths
const (
	DefaultConfigDir      = ".readmegen"
	DefaultConfigFileName = "config.yaml"
	DefaultListenAddr     = "127.0.0.1:8501"
	EnvPrefix             = "READMEGEN"
	HomeEnv               = "READMEGEN_HOME"
)

// Config holds the application configuration
type Config struct {
	ToolPath     string                    `json:"tool_path" yaml:"tool_path" mapstructure:"tool_path"`
	ListenAddr   string                    `json:"listen_addr" yaml:"listen_addr" mapstructure:"listen_addr"`
	OutputDir    string                    `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	Timeout      time.Duration             `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	DownloadName string                    `json:"download_name" yaml:"download_name" mapstructure:"download_name"`
	LogLevel     string                    `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat    string                    `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	Defaults     options.GenerationOptions `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
	Rules        []policy.Rule             `json:"rules" yaml:"rules" mapstructure:"rules"`

	// Path of the file the configuration was read from, empty when defaults were used
	Source string `json:"-" yaml:"-" mapstructure:"-"`
}

// NewDefaultConfig creates a default configuration
func NewDefaultConfig() *Config {
	return &Config{
		ToolPath:     command.DefaultProgram,
		ListenAddr:   DefaultListenAddr,
		DownloadName: template.DefaultDownloadName,
		LogLevel:     "info",
		LogFormat:    "text",
		Defaults:     options.NewDefaultOptions(),
		Rules: []policy.Rule{
			{
				Name:       "llm-image-openai-only",
				Expression: `!options.llm_image || options.api == "openai"`,
				Message:    "LLM logo generation is only available with the openai provider",
			},
			{
				Name:       "offline-model",
				Expression: `options.api != "offline" || options.model == "offline-mode"`,
				Message:    "the offline provider requires the offline-mode model",
			},
		},
	}
}

// ExpandPathWithTilde expands ~ to the user home directory.
// It respects the READMEGEN_HOME environment variable for testing purposes.
func ExpandPathWithTilde(path string) string {
	if path == "~" {
		home := getHomeDir()
		if home == "" {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home := getHomeDir()
		if home == "" {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// getHomeDir returns the home directory, respecting READMEGEN_HOME for testing
func getHomeDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// GlobalConfigFilePath returns the absolute path to the global config file
func GlobalConfigFilePath() (string, error) {
	home := getHomeDir()
	if home == "" {
		return "", fmt.Errorf("could not get user home directory")
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), nil
}

// LoadConfig loads the application configuration.
// Defaults are applied first, then the config file, then READMEGEN_* environment
// variables (e.g. READMEGEN_TOOL_PATH, READMEGEN_DEFAULTS_MODEL).
// An explicit pathOverride must exist; the default global file is optional.
func LoadConfig(pathOverride string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, NewDefaultConfig())

	path := pathOverride
	optional := false
	if path == "" {
		var err error
		path, err = GlobalConfigFilePath()
		if err != nil {
			return nil, err
		}
		optional = true
	}
	path = ExpandPathWithTilde(path)

	loaded, err := loadConfigFile(v, path, optional)
	if err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if loaded {
		cfg.Source = path
	}

	cfg.ToolPath = ExpandPathWithTilde(cfg.ToolPath)
	cfg.OutputDir = ExpandPathWithTilde(cfg.OutputDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile reads path, expands ${VAR} and ${VAR:default} references and loads it into v
func loadConfigFile(v *viper.Viper, path string, optional bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	if err := v.ReadConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return false, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}
	return true, nil
}

var envRefPattern = regexp.MustCompile(`\$\{(\w+)(:([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:default} placeholders.
// Unset variables without a default are left as is.
func expandEnv(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := envRefPattern.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		if sub[2] != "" {
			return sub[3]
		}
		return match
	})
}

// setDefaults registers every known key so environment overrides apply to it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tool_path", cfg.ToolPath)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("download_name", cfg.DownloadName)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("rules", cfg.Rules)

	for key, value := range cfg.Defaults.ToMap() {
		v.SetDefault("defaults."+key, value)
	}
	v.SetDefault("defaults.api_key", cfg.Defaults.APIKey)
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ToolPath) == "" {
		return fmt.Errorf("tool_path must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := options.ParseProvider(c.Defaults.Provider.String()); err != nil {
		return fmt.Errorf("invalid default provider: %w", err)
	}
	return nil
}

// SaveConfig writes the configuration to path as YAML
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory '%s': %w", dir, err)
	}

	// the credential never goes to disk
	toSave := *cfg
	toSave.Defaults = cfg.Defaults.Redacted()

	data, err := yaml.Marshal(&toSave)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file '%s': %w", path, err)
	}
	return nil
}

// SaveGlobalConfig saves the configuration to the global config path
func SaveGlobalConfig(cfg *Config) error {
	path, err := GlobalConfigFilePath()
	if err != nil {
		return fmt.Errorf("could not determine global config path for saving: %w", err)
	}
	return SaveConfig(cfg, path)
}
