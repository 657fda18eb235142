// SPDX-License-Identifier: Apache-2.0

package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kusari-oss/readmegen/internal/core/executor"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/core/policy"
	"github.com/kusari-oss/readmegen/internal/core/schema"
	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/kusari-oss/readmegen/internal/session"
	"github.com/kusari-oss/readmegen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, backend generator.Backend, store session.Store) *generator.Service {
	t.Helper()
	validator, err := schema.NewOptionsValidator()
	require.NoError(t, err)
	evaluator, err := policy.NewEvaluator([]policy.Rule{
		{Name: "llm-image-openai-only", Expression: `!options.llm_image || options.api == "openai"`},
	})
	require.NoError(t, err)

	return generator.NewService(backend,
		generator.WithValidator(validator),
		generator.WithPolicy(evaluator),
		generator.WithStore(store),
		generator.WithOutputDir(t.TempDir()),
	)
}

func TestService_GenerateSuccess(t *testing.T) {
	backend := &testutil.MockBackend{
		Lines:   []string{"Processing", "Done"},
		Content: "# readme-ai\n",
	}
	store := session.NewMemoryStore()
	svc := newService(t, backend, store)

	sess, err := store.Create()
	require.NoError(t, err)

	opts := options.NewDefaultOptions()
	opts.APIKey = "sk-secret"

	var seen []string
	err = svc.Generate(context.Background(), sess, opts, func(log string) { seen = append(seen, log) })
	require.NoError(t, err)

	assert.Equal(t, []string{"Processing", "Processing\nDone"}, seen)
	assert.True(t, sess.Generated)
	assert.Equal(t, "# readme-ai\n", sess.Content)
	assert.Equal(t, "Processing\nDone", sess.Log)
	assert.Empty(t, sess.Error)
	assert.Empty(t, sess.Output, "temporary output is not exposed")
	assert.Empty(t, sess.Options.APIKey)

	stored, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Content, stored.Content)
}

func TestService_TemporaryOutput(t *testing.T) {
	backend := &testutil.MockBackend{Content: "# tmp\n"}
	svc := newService(t, backend, nil)

	backend.On("Run", mock.Anything, mock.MatchedBy(func(o options.GenerationOptions) bool {
		return filepath.Ext(o.Output) == ".md"
	}), mock.Anything).Return(&executor.Result{Log: "ok"}, nil).Once()

	sess := session.New()
	require.NoError(t, svc.Generate(context.Background(), sess, options.NewDefaultOptions(), nil))
	backend.AssertExpectations(t)

	path := backend.Calls[0].Arguments.Get(1).(options.GenerationOptions).Output
	assert.NoFileExists(t, path, "temporary output is removed after reading")
	assert.Equal(t, "# tmp\n", sess.Content)
	assert.Equal(t, "ok", sess.Log)
}

func TestService_ExplicitOutputIsKept(t *testing.T) {
	backend := &testutil.MockBackend{Content: "# kept\n"}
	svc := newService(t, backend, nil)

	opts := options.NewDefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "README.md")

	sess := session.New()
	require.NoError(t, svc.Generate(context.Background(), sess, opts, nil))
	assert.FileExists(t, opts.Output)
	assert.Equal(t, opts.Output, sess.Output)
}

func TestService_GenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		content string
		wantLog string
	}{
		{
			name:    "execution error",
			err:     &executor.ExecutionError{ExitStatus: 1, Log: "boom"},
			wantLog: "boom",
		},
		{
			name: "launch error",
			err:  &executor.LaunchError{Program: "readmeai", Err: os.ErrNotExist},
		},
		{
			name:    "cancelled",
			err:     &executor.CancelledError{Err: context.DeadlineExceeded, Log: "partial"},
			wantLog: "partial",
		},
		{
			name: "empty artifact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.MockBackend{Content: tt.content}
			backend.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			store := session.NewMemoryStore()
			svc := newService(t, backend, store)
			sess, err := store.Create()
			require.NoError(t, err)

			err = svc.Generate(context.Background(), sess, options.NewDefaultOptions(), nil)

			var genErr *generator.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, generator.FailureMessage, genErr.Message)
			assert.Equal(t, tt.wantLog, genErr.Log)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
			}

			stored, err := store.Get(sess.ID)
			require.NoError(t, err)
			assert.False(t, stored.Generated)
			assert.Equal(t, generator.FailureMessage, stored.Error)
			assert.Equal(t, tt.wantLog, stored.Log)
		})
	}
}

func TestService_InvalidOptionsNeverLaunch(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *options.GenerationOptions)
	}{
		{"schema: temperature out of range", func(o *options.GenerationOptions) { o.Temperature = 3.5 }},
		{"schema: unknown badge style", func(o *options.GenerationOptions) { o.BadgeStyle = "neon" }},
		{"schema: empty repository", func(o *options.GenerationOptions) { o.Repository = "" }},
		{"policy: llm image with ollama", func(o *options.GenerationOptions) {
			o.Provider = options.ProviderOllama
			o.LLMImage = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.MockBackend{}
			backend.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(&executor.Result{}, nil)
			svc := newService(t, backend, nil)

			opts := options.NewDefaultOptions()
			tt.modify(&opts)

			sess := session.New()
			err := svc.Generate(context.Background(), sess, opts, nil)

			var invalid *generator.InvalidOptionsError
			require.ErrorAs(t, err, &invalid)
			backend.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
			assert.NotEmpty(t, sess.Error)
			assert.False(t, sess.Generated)
		})
	}
}

type panickingBackend struct{}

func (panickingBackend) Run(context.Context, options.GenerationOptions, executor.Observer) (*executor.Result, error) {
	panic("unexpected")
}

func TestService_PanicIsConverted(t *testing.T) {
	svc := newService(t, panickingBackend{}, nil)

	sess := session.New()
	err := svc.Generate(context.Background(), sess, options.NewDefaultOptions(), nil)

	var genErr *generator.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, generator.FailureMessage, sess.Error)
}

func TestService_EndToEndWithSubprocess(t *testing.T) {
	skipOnWindows(t)

	backend := generator.NewSubprocessBackend(generator.BackendConfig{
		ToolPath:    writeTool(t, fakeGenerator),
		Environment: baseEnv(),
	})
	svc := newService(t, backend, nil)

	opts := options.NewDefaultOptions()
	opts.APIKey = "sk-e2e"

	sess := session.New()
	require.NoError(t, svc.Generate(context.Background(), sess, opts, nil))
	assert.Equal(t, "# Generated\n\nkey=sk-e2e\n", sess.Content)
	assert.Contains(t, sess.Log, "Processing repository")
}
