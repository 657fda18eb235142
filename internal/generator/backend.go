// SPDX-License-Identifier: Apache-2.0

// Package generator runs README generations behind a swappable backend
package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kusari-oss/readmegen/internal/core/command"
	"github.com/kusari-oss/readmegen/internal/core/executor"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/logger"
	"github.com/kusari-oss/readmegen/internal/metrics"
)

// Backend produces a README for opts, reporting diagnostics to observer as they arrive.
// On success the Markdown has been written to opts.Output.
type Backend interface {
	Run(ctx context.Context, opts options.GenerationOptions, observer executor.Observer) (*executor.Result, error)
}

// BackendConfig configures a SubprocessBackend
type BackendConfig struct {
	// ToolPath is the generator executable, "readmeai" when empty
	ToolPath string
	// WorkingDir for the child, inherited when empty
	WorkingDir string
	// Environment the child's copy is cloned from, os.Environ() when nil
	Environment []string
	// Timeout bounds a single run, zero means no limit
	Timeout time.Duration
	// Verbose mirrors the child's standard output to the terminal
	Verbose bool
	// StdoutToOutput writes the child's standard output to opts.Output
	StdoutToOutput bool
}

// SubprocessBackend runs the external generator as a child process
type SubprocessBackend struct {
	config  BackendConfig
	builder *command.Builder
}

// NewSubprocessBackend creates a backend for the configured tool
func NewSubprocessBackend(cfg BackendConfig) *SubprocessBackend {
	return &SubprocessBackend{
		config:  cfg,
		builder: command.NewBuilder(cfg.ToolPath),
	}
}

// Command returns the command line a run with opts would execute
func (b *SubprocessBackend) Command(opts options.GenerationOptions) command.CommandLine {
	return b.builder.Build(opts)
}

// Run builds the command line, injects the provider credential and executes the generator
func (b *SubprocessBackend) Run(ctx context.Context, opts options.GenerationOptions, observer executor.Observer) (*executor.Result, error) {
	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}
	log := logger.FromContext(ctx)

	commandLine := b.builder.Build(opts)

	runner := executor.NewCommandExecutor(commandLine).
		WithWorkingDir(b.config.WorkingDir).
		WithEnvironment(b.config.Environment).
		WithVerbose(b.config.Verbose).
		WithLogger(log).
		WithObserver(countingObserver(observer))

	if name, ok := opts.CredentialEnv(); ok {
		runner = runner.WithCredential(name, opts.APIKey)
	}

	if b.config.StdoutToOutput {
		f, err := os.Create(opts.Output)
		if err != nil {
			return nil, fmt.Errorf("error opening output file '%s': %w", opts.Output, err)
		}
		defer f.Close()
		runner = runner.WithStdout(f)
	}

	// argv never carries the credential, so it is safe to log as is
	log.Info("running generator", "command", commandLine.String(), "provider", opts.Provider.String())

	metrics.GenerationsInFlight.Inc()
	start := time.Now()
	result, err := runner.Execute(ctx)
	metrics.GenerationsInFlight.Dec()
	metrics.RecordGeneration(opts.Provider.String(), outcomeOf(err), time.Since(start).Seconds())

	if err != nil {
		log.Warn("generator failed", "error", err.Error())
		return nil, err
	}
	log.Info("generator finished", "duration", result.Duration)
	return result, nil
}

func countingObserver(observer executor.Observer) executor.Observer {
	return func(current string) {
		metrics.DiagnosticLines.Inc()
		if observer != nil {
			observer(current)
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case executor.IsLaunchError(err):
		return metrics.OutcomeLaunch
	case executor.IsCancelled(err):
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeFailed
	}
}

// StreamWriter adapts an Observer to print only the newest line of each update to w
func StreamWriter(w io.Writer) executor.Observer {
	printed := 0
	return func(current string) {
		if len(current) <= printed {
			return
		}
		chunk := current[printed:]
		if printed > 0 && len(chunk) > 0 && chunk[0] == '\n' {
			chunk = chunk[1:]
		}
		fmt.Fprintln(w, chunk)
		printed = len(current)
	}
}
