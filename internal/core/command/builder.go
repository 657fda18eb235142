// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strconv"
	"strings"

	"github.com/kusari-oss/readmegen/internal/core/options"
)

// DefaultProgram is the generator executable looked up on PATH
const DefaultProgram = "readmeai"

// CommandLine is the argument vector for one generator run, program name first.
// It is built once per request and must not be modified afterwards.
type CommandLine []string

// Program returns the executable token
func (c CommandLine) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the arguments following the program token
func (c CommandLine) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return append([]string(nil), c[1:]...)
}

// String renders the command for display
func (c CommandLine) String() string {
	return strings.Join(c, " ")
}

// Builder maps generation options to a generator command line
type Builder struct {
	program string
}

// NewBuilder creates a builder for the given executable path
func NewBuilder(program string) *Builder {
	if program == "" {
		program = DefaultProgram
	}
	return &Builder{program: program}
}

// Build produces the command line for opts using the default program
func Build(opts options.GenerationOptions) CommandLine {
	return NewBuilder(DefaultProgram).Build(opts)
}

// Build produces the command line for opts.
// Values are passed through verbatim; range checking is left to the generator.
func (b *Builder) Build(opts options.GenerationOptions) CommandLine {
	cmd := []string{b.program, "--repository", opts.Repository, "--output", opts.Output}

	cmd = append(cmd, "--api", opts.Provider.String())

	if opts.UsesModel() {
		cmd = append(cmd, "--model", opts.Model)
	}

	if opts.Emojis {
		cmd = append(cmd, "--emojis")
	}
	if opts.Offline {
		cmd = append(cmd, "--offline")
	}

	cmd = append(cmd, "--align", opts.Align)
	cmd = append(cmd, "--badge-color", opts.Color())
	cmd = append(cmd, "--badge-style", opts.BadgeStyle)
	cmd = append(cmd, "--image", opts.Image())
	cmd = append(cmd, "--header-style", opts.HeaderStyle)
	cmd = append(cmd, "--toc-style", opts.TOCStyle)
	cmd = append(cmd, "--tree-depth", strconv.Itoa(opts.TreeDepth))
	cmd = append(cmd, "--context-window", strconv.Itoa(opts.ContextWindow))
	cmd = append(cmd, "--temperature", strconv.FormatFloat(opts.Temperature, 'f', -1, 64))

	return CommandLine(cmd)
}
