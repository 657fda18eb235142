// SPDX-License-Identifier: Apache-2.0

package format

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kusari-oss/readmegen/internal/core/options"
	"gopkg.in/yaml.v3"
)

// ParseFile reads and parses a file, trying YAML first, then JSON
func ParseFile(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return ParseData(data, v)
}

// ParseData parses data, trying YAML first, then JSON
func ParseData(data []byte, v interface{}) error {
	err := yaml.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	jsonErr := json.Unmarshal(data, v)
	if jsonErr == nil {
		return nil
	}

	return fmt.Errorf("failed to parse as YAML (%v) or JSON (%v)", err, jsonErr)
}

// LoadOptionsFile reads generation options from a YAML or JSON file.
// Fields absent from the file keep their value from base.
func LoadOptionsFile(filePath string, base options.GenerationOptions) (options.GenerationOptions, error) {
	opts := base
	if err := ParseFile(filePath, &opts); err != nil {
		return base, fmt.Errorf("error loading options from %s: %w", filePath, err)
	}
	return opts, nil
}

// WriteFile writes v to a file, choosing JSON for .json and YAML otherwise
func WriteFile(filePath string, v interface{}) error {
	data, err := Marshal(v, !IsJSONFile(filePath))
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// Marshal encodes v as YAML or indented JSON
func Marshal(v interface{}, useYAML bool) ([]byte, error) {
	var data []byte
	var err error

	if useYAML {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}

	if err != nil {
		return nil, fmt.Errorf("error formatting data: %w", err)
	}
	return data, nil
}

// FormatData formats data as a YAML or JSON string
func FormatData(v interface{}, useYAML bool) (string, error) {
	data, err := Marshal(v, useYAML)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsYAMLFile returns true if the file extension suggests it's a YAML file
func IsYAMLFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".yaml" || ext == ".yml"
}

// IsJSONFile returns true if the file extension suggests it's a JSON file
func IsJSONFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".json"
}
