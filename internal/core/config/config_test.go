// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfig writes content as the global config under home
func writeConfig(t *testing.T, home string, content string) string {
	t.Helper()
	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	expected := NewDefaultConfig()
	assert.Equal(t, expected.ToolPath, cfg.ToolPath)
	assert.Equal(t, expected.ListenAddr, cfg.ListenAddr)
	assert.Equal(t, expected.DownloadName, cfg.DownloadName)
	assert.Equal(t, expected.Defaults, cfg.Defaults)
	assert.Equal(t, expected.Rules, cfg.Rules)
	assert.Empty(t, cfg.Source)
}

func TestStarterConfigMatchesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	starter, err := defaults.Read(defaults.ConfigFile)
	require.NoError(t, err)
	path := writeConfig(t, home, string(starter))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)

	expected := NewDefaultConfig()
	assert.Equal(t, expected.ToolPath, cfg.ToolPath)
	assert.Equal(t, expected.ListenAddr, cfg.ListenAddr)
	assert.Equal(t, expected.DownloadName, cfg.DownloadName)
	assert.Equal(t, expected.Timeout, cfg.Timeout)
	assert.Equal(t, expected.Defaults, cfg.Defaults)
	assert.Equal(t, expected.Rules, cfg.Rules)
}

func TestLoadConfig_Prioritization(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		override bool
		check    func(t *testing.T, cfg *Config, home string)
	}{
		{
			name: "global file overrides defaults",
			file: "tool_path: /opt/readmeai/bin/readmeai\ntimeout: 90s\ndefaults:\n  model: llama3\n  api: ollama\n",
			check: func(t *testing.T, cfg *Config, home string) {
				assert.Equal(t, "/opt/readmeai/bin/readmeai", cfg.ToolPath)
				assert.Equal(t, 90*time.Second, cfg.Timeout)
				assert.Equal(t, "llama3", cfg.Defaults.Model)
				assert.Equal(t, options.ProviderOllama, cfg.Defaults.Provider)
				// keys absent from the file keep their defaults
				assert.Equal(t, 999, cfg.Defaults.ContextWindow)
				assert.Equal(t, "flat", cfg.Defaults.BadgeStyle)
				assert.Equal(t, filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), cfg.Source)
			},
		},
		{
			name: "environment overrides file",
			file: "tool_path: from-file\n",
			env: map[string]string{
				"READMEGEN_TOOL_PATH":      "from-env",
				"READMEGEN_DEFAULTS_MODEL": "gpt-4",
			},
			check: func(t *testing.T, cfg *Config, home string) {
				assert.Equal(t, "from-env", cfg.ToolPath)
				assert.Equal(t, "gpt-4", cfg.Defaults.Model)
			},
		},
		{
			name: "placeholders are expanded",
			file: "listen_addr: ${READMEGEN_TEST_ADDR}\noutput_dir: ${READMEGEN_TEST_UNSET:~/readmes}\n",
			env:  map[string]string{"READMEGEN_TEST_ADDR": "0.0.0.0:9000"},
			check: func(t *testing.T, cfg *Config, home string) {
				assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
				assert.Equal(t, filepath.Join(home, "readmes"), cfg.OutputDir)
			},
		},
		{
			name: "rules from file replace defaults",
			file: "rules:\n  - name: shallow\n    expression: options.tree_depth <= 3\n",
			check: func(t *testing.T, cfg *Config, home string) {
				require.Len(t, cfg.Rules, 1)
				assert.Equal(t, "shallow", cfg.Rules[0].Name)
				assert.Equal(t, "options.tree_depth <= 3", cfg.Rules[0].Expression)
			},
		},
		{
			name:     "explicit path",
			file:     "download_name: \"README-{{ .model }}.md\"\n",
			override: true,
			check: func(t *testing.T, cfg *Config, home string) {
				assert.Equal(t, "README-{{ .model }}.md", cfg.DownloadName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv(HomeEnv, home)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			override := ""
			if tt.override {
				override = filepath.Join(t.TempDir(), "custom.yaml")
				require.NoError(t, os.WriteFile(override, []byte(tt.file), 0644))
			} else {
				writeConfig(t, home, tt.file)
			}

			cfg, err := LoadConfig(override)
			require.NoError(t, err)
			tt.check(t, cfg, home)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv(HomeEnv, t.TempDir())
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnv, home)
		writeConfig(t, home, "tool_path: [unclosed\n")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("empty tool path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnv, home)
		writeConfig(t, home, "tool_path: \"\"\n")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "tool_path")
	})

	t.Run("unknown provider", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnv, home)
		writeConfig(t, home, "defaults:\n  api: watsonx\n")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "provider")
	})
}

func TestExpandPathWithTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	assert.Equal(t, home, ExpandPathWithTilde("~"))
	assert.Equal(t, filepath.Join(home, "bin", "readmeai"), ExpandPathWithTilde("~/bin/readmeai"))
	assert.Equal(t, "/usr/bin/readmeai", ExpandPathWithTilde("/usr/bin/readmeai"))
	assert.Equal(t, "readmeai", ExpandPathWithTilde("readmeai"))
}

func TestSaveConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	cfg := NewDefaultConfig()
	cfg.Timeout = 2 * time.Minute
	cfg.Defaults.APIKey = "sk-never-written"
	require.NoError(t, SaveGlobalConfig(cfg))

	path, err := GlobalConfigFilePath()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-never-written")
	assert.Equal(t, "sk-never-written", cfg.Defaults.APIKey)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "readmeai", raw["tool_path"])

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, loaded.Timeout)
	assert.Equal(t, cfg.Defaults.Redacted(), loaded.Defaults)
	assert.Equal(t, cfg.Rules, loaded.Rules)
}
