// SPDX-License-Identifier: Apache-2.0

package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed files/*
var embeddedFiles embed.FS

const (
	// ConfigFile is the embedded starter configuration
	ConfigFile = "config.yaml"
	// OptionsSchemaFile is the JSON schema generation options are validated against
	OptionsSchemaFile = "options.schema.json"
)

// Read returns the content of an embedded default file
func Read(name string) ([]byte, error) {
	data, err := embeddedFiles.ReadFile(filepath.ToSlash(filepath.Join("files", name)))
	if err != nil {
		return nil, fmt.Errorf("error reading embedded default %s: %w", name, err)
	}
	return data, nil
}

// OptionsSchema returns the embedded options schema
func OptionsSchema() []byte {
	data, err := Read(OptionsSchemaFile)
	if err != nil {
		// the schema is compiled into the binary
		panic(err)
	}
	return data
}

// ListEmbeddedFiles returns the names of all embedded default files
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(embeddedFiles, "files", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel("files", path)
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing embedded defaults: %w", err)
	}
	return files, nil
}

// WriteConfig writes the starter configuration to path.
// An existing file is left untouched unless force is set.
func WriteConfig(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	data, err := Read(ConfigFile)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("error creating directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("error writing config file %s: %w", path, err)
	}

	return true, nil
}
