// SPDX-License-Identifier: Apache-2.0

package defaults

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedFiles(t *testing.T) {
	files, err := ListEmbeddedFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ConfigFile, OptionsSchemaFile}, files)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(OptionsSchema(), &schema))
	assert.Equal(t, "object", schema["type"])

	data, err := Read(ConfigFile)
	require.NoError(t, err)
	var cfg map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "readmeai", cfg["tool_path"])

	_, err = Read("missing.yaml")
	assert.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".readmegen", "config.yaml")

	written, err := WriteConfig(path, false)
	require.NoError(t, err)
	assert.True(t, written)

	require.NoError(t, os.WriteFile(path, []byte("tool_path: custom\n"), 0644))

	written, err = WriteConfig(path, false)
	require.NoError(t, err)
	assert.False(t, written)
	content, _ := os.ReadFile(path)
	assert.Equal(t, "tool_path: custom\n", string(content))

	written, err = WriteConfig(path, true)
	require.NoError(t, err)
	assert.True(t, written)
	content, _ = os.ReadFile(path)
	assert.Contains(t, string(content), "tool_path: readmeai")
}
