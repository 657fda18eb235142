// SPDX-License-Identifier: Apache-2.0

// Package artifact manages the Markdown file the generator writes
package artifact

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// TempPattern is the name pattern for allocated output files
const TempPattern = "readmegen-*.md"

// ErrEmpty is returned when the generator produced an empty file
var ErrEmpty = errors.New("generated README is empty")

// NewTempOutput reserves a uniquely named .md file in dir and returns its path.
// An empty dir uses the system temp directory.
func NewTempOutput(dir string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
		}
	}
	f, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return "", fmt.Errorf("error allocating output file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing output file '%s': %w", path, err)
	}
	return path, nil
}

// Read returns the Markdown content at path
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading generated README '%s': %w", path, err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("generated README '%s' is not valid UTF-8", path)
	}
	return string(data), nil
}

// Remove deletes path, ignoring files that are already gone
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing '%s': %w", path, err)
	}
	return nil
}
