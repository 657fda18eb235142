// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kusari-oss/readmegen/internal/core/command"
	"github.com/kusari-oss/readmegen/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultWaitDelay bounds how long Execute waits for the child's output to close once it has exited or been killed
const DefaultWaitDelay = 2 * time.Second

// Observer receives the complete diagnostic log collected so far, once per line
type Observer func(log string)

// CommandExecutor runs the generator as a child process and streams its diagnostics
type CommandExecutor struct {
	commandLine   command.CommandLine
	workingDir    string
	environment   []string
	credentialEnv string
	credential    string
	observer      Observer
	stdout        io.Writer
	verbose       bool
	waitDelay     time.Duration
	log           *slog.Logger
}

// Result holds the result of a successful command execution
type Result struct {
	Log        string
	ExitStatus int
	Duration   time.Duration
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(commandLine command.CommandLine) *CommandExecutor {
	return &CommandExecutor{
		commandLine: commandLine,
		waitDelay:   DefaultWaitDelay,
	}
}

// WithWorkingDir sets the working directory
func (e *CommandExecutor) WithWorkingDir(dir string) *CommandExecutor {
	e.workingDir = dir
	return e
}

// WithEnvironment sets the base environment the child's copy is cloned from.
// When unset the current process environment is used.
func (e *CommandExecutor) WithEnvironment(env []string) *CommandExecutor {
	e.environment = env
	return e
}

// WithCredential injects secret into the child's environment under name.
// Empty name or secret injects nothing.
func (e *CommandExecutor) WithCredential(name, secret string) *CommandExecutor {
	e.credentialEnv = name
	e.credential = secret
	return e
}

// WithObserver sets the callback notified as diagnostic lines arrive
func (e *CommandExecutor) WithObserver(observer Observer) *CommandExecutor {
	e.observer = observer
	return e
}

// WithStdout sets where the child's standard output goes. It is discarded by default.
func (e *CommandExecutor) WithStdout(w io.Writer) *CommandExecutor {
	e.stdout = w
	return e
}

// WithVerbose mirrors the child's standard output to the terminal
func (e *CommandExecutor) WithVerbose(verbose bool) *CommandExecutor {
	e.verbose = verbose
	return e
}

// WithWaitDelay overrides DefaultWaitDelay
func (e *CommandExecutor) WithWaitDelay(d time.Duration) *CommandExecutor {
	e.waitDelay = d
	return e
}

// WithLogger sets the logger used for execution events
func (e *CommandExecutor) WithLogger(l *slog.Logger) *CommandExecutor {
	e.log = l
	return e
}

// Environment returns the environment the child will be started with
func (e *CommandExecutor) Environment() []string {
	base := e.environment
	if base == nil {
		base = os.Environ()
	}
	return InjectCredential(base, e.credentialEnv, e.credential)
}

// Execute starts the child and drains its diagnostic stream while waiting for exit.
// A nil error means the child exited with status zero.
// Failures are reported as *LaunchError, *ExecutionError or *CancelledError.
func (e *CommandExecutor) Execute(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := e.log
	if log == nil {
		log = logger.FromContext(ctx)
	}

	program := e.commandLine.Program()
	if program == "" {
		return nil, &LaunchError{Err: errors.New("empty command line")}
	}

	cmd := exec.CommandContext(ctx, program, e.commandLine.Args()...)
	cmd.Env = e.Environment()
	cmd.WaitDelay = e.waitDelay
	if e.workingDir != "" {
		cmd.Dir = e.workingDir
	}
	cmd.Stdout = e.stdoutWriter()

	// Wait copies stderr into pw until the child's end closes, bounded by WaitDelay
	// when a background process keeps it open.
	pr, pw := io.Pipe()
	cmd.Stderr = pw

	log.Debug("executing command", "command", e.commandLine.String(), "dir", e.workingDir)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, &LaunchError{Program: program, Err: err}
	}

	buf := &logBuffer{}

	var waitErr error
	var g errgroup.Group
	g.Go(func() error {
		defer pr.Close()
		return e.drainDiagnostics(pr, buf)
	})
	g.Go(func() error {
		waitErr = cmd.Wait()
		return pw.Close()
	})
	drainErr := g.Wait()

	result := &Result{
		Log:      buf.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitStatus = cmd.ProcessState.ExitCode()
	}

	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// the child exited cleanly but something it started still holds its output open
		log.Warn("command output left open after exit", "command", program, "wait_delay", e.waitDelay)
		waitErr = nil
	}

	if waitErr == nil && drainErr == nil {
		log.Debug("command finished", "command", program, "duration", result.Duration)
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn("command cancelled", "command", program, "error", ctxErr)
		return nil, &CancelledError{Err: ctxErr, Log: result.Log}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			log.Debug("command failed", "command", program, "exit_status", exitErr.ExitCode())
			return nil, &ExecutionError{ExitStatus: exitErr.ExitCode(), Log: result.Log}
		}
		return nil, fmt.Errorf("error waiting for command: %w", waitErr)
	}

	return nil, fmt.Errorf("error reading command output: %w", drainErr)
}

// drainDiagnostics reads r line by line, notifying the observer after each line
func (e *CommandExecutor) drainDiagnostics(r io.Reader, buf *logBuffer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			current := buf.Append(strings.TrimRight(line, "\r\n"))
			if e.observer != nil {
				e.observer(current)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// stdoutWriter returns where the child's standard output goes.
// Verbose mode mirrors it to the terminal; diagnostics reach the terminal through the observer.
func (e *CommandExecutor) stdoutWriter() io.Writer {
	switch {
	case e.stdout != nil && e.verbose:
		return io.MultiWriter(e.stdout, os.Stdout)
	case e.stdout != nil:
		return e.stdout
	case e.verbose:
		return os.Stdout
	default:
		return nil
	}
}

// logBuffer accumulates diagnostic lines joined by newlines
type logBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

// Append adds a line and returns the full log so far
func (b *logBuffer) Append(line string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sb.Len() > 0 {
		b.sb.WriteByte('\n')
	}
	b.sb.WriteString(line)
	return b.sb.String()
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}
