// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"errors"
	"fmt"
)

// LaunchError reports that the child process could not be started
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Program == "" {
		return fmt.Sprintf("failed to start command: %v", e.Err)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExecutionError reports that the child started but exited with a non-zero status.
// Any output file it may have written must not be trusted.
type ExecutionError struct {
	ExitStatus int
	Log        string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.ExitStatus)
}

// CancelledError reports that the context ended before the child exited and the child was killed
type CancelledError struct {
	Err error
	Log string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("command cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// IsLaunchError reports whether err is a *LaunchError
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}

// IsExecutionError reports whether err is an *ExecutionError
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}

// IsCancelled reports whether err is a *CancelledError
func IsCancelled(err error) bool {
	var cancelErr *CancelledError
	return errors.As(err, &cancelErr)
}

// LogOf returns the diagnostic text carried by a failure, if any
func LogOf(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Log
	}
	var cancelErr *CancelledError
	if errors.As(err, &cancelErr) {
		return cancelErr.Log
	}
	return ""
}
