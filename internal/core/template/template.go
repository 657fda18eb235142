// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/kusari-oss/readmegen/internal/core/options"
)

// DefaultDownloadName is used when no download name template is configured
const DefaultDownloadName = "README-AI.md"

// ProcessString processes a template string with the given parameters.
// Sprig functions are available and missing keys are an error.
func ProcessString(text string, params map[string]interface{}) ([]byte, error) {
	tmpl, err := template.New("template").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("error parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// DownloadName renders the file name offered when the generated README is downloaded.
// The result is always a bare file name ending in .md.
func DownloadName(text string, opts options.GenerationOptions) (string, error) {
	if strings.TrimSpace(text) == "" {
		return DefaultDownloadName, nil
	}

	rendered, err := ProcessString(text, opts.ToMap())
	if err != nil {
		return "", err
	}

	name := filepath.Base(strings.TrimSpace(string(rendered)))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return DefaultDownloadName, nil
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name += ".md"
	}
	return name, nil
}

// ProgressMessage renders the status line shown while a repository is processed
func ProgressMessage(opts options.GenerationOptions) string {
	msg, err := ProcessString(`Processing repository - {{ .repository }}{{ if .output }} -> {{ .output | base }}{{ end }}`, opts.ToMap())
	if err != nil {
		return "Processing repository - " + opts.Repository
	}
	return string(msg)
}
