// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"os"

	"github.com/kusari-oss/readmegen/internal/core/executor"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/stretchr/testify/mock"
)

// MockBackend provides a mock implementation of the generator Backend interface
type MockBackend struct {
	mock.Mock

	// Lines are sent to the observer before Run returns
	Lines []string
	// Content is written to opts.Output when Run succeeds
	Content string
}

// Run mocks the Run method
func (m *MockBackend) Run(ctx context.Context, opts options.GenerationOptions, observer executor.Observer) (*executor.Result, error) {
	log := ""
	for _, line := range m.Lines {
		if log != "" {
			log += "\n"
		}
		log += line
		if observer != nil {
			observer(log)
		}
	}

	// If expectations are set, use those
	if len(m.ExpectedCalls) > 0 {
		args := m.Called(ctx, opts, observer)
		if err := args.Error(1); err != nil {
			return nil, err
		}
		if err := m.writeOutput(opts); err != nil {
			return nil, err
		}
		if result, ok := args.Get(0).(*executor.Result); ok {
			return result, nil
		}
		return &executor.Result{Log: log}, nil
	}

	// Otherwise, behave like a successful generator
	if err := m.writeOutput(opts); err != nil {
		return nil, err
	}
	return &executor.Result{Log: log}, nil
}

func (m *MockBackend) writeOutput(opts options.GenerationOptions) error {
	if m.Content == "" || opts.Output == "" {
		return nil
	}
	return os.WriteFile(opts.Output, []byte(m.Content), 0644)
}
