// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/kusari-oss/readmegen/internal/core/artifact"
	"github.com/kusari-oss/readmegen/internal/core/executor"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/core/policy"
	"github.com/kusari-oss/readmegen/internal/core/schema"
	"github.com/kusari-oss/readmegen/internal/logger"
	"github.com/kusari-oss/readmegen/internal/metrics"
	"github.com/kusari-oss/readmegen/internal/session"
)

// FailureMessage is shown to the user for every failed generation
const FailureMessage = "README generation failed"

// GenerationError is the user-visible form of a failed generation
type GenerationError struct {
	Message string
	Log     string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// InvalidOptionsError reports options rejected before any launch
type InvalidOptionsError struct {
	Err error
}

func (e *InvalidOptionsError) Error() string {
	return e.Err.Error()
}

func (e *InvalidOptionsError) Unwrap() error {
	return e.Err
}

// Service is the request boundary: it validates, runs the backend and records the outcome in a session
type Service struct {
	backend   Backend
	validator *schema.Validator
	policy    *policy.Evaluator
	store     session.Store
	outputDir string
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithValidator checks options against a JSON schema before running
func WithValidator(v *schema.Validator) ServiceOption {
	return func(s *Service) { s.validator = v }
}

// WithPolicy checks options against admission rules before running
func WithPolicy(e *policy.Evaluator) ServiceOption {
	return func(s *Service) { s.policy = e }
}

// WithStore persists the session after every generation
func WithStore(store session.Store) ServiceOption {
	return func(s *Service) { s.store = store }
}

// WithOutputDir sets where temporary output files are allocated
func WithOutputDir(dir string) ServiceOption {
	return func(s *Service) { s.outputDir = dir }
}

// NewService creates a Service around backend
func NewService(backend Backend, opts ...ServiceOption) *Service {
	s := &Service{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks opts against the configured schema and policy
func (s *Service) Validate(opts options.GenerationOptions) error {
	if s.validator != nil {
		if err := s.validator.ValidateOptions(opts); err != nil {
			return &InvalidOptionsError{Err: err}
		}
	}
	if s.policy != nil {
		if err := s.policy.Check(opts); err != nil {
			return &InvalidOptionsError{Err: err}
		}
	}
	return nil
}

// Generate runs one generation for sess. The session always reflects the outcome:
// content and log on success, FailureMessage and log otherwise.
// Invalid options return *InvalidOptionsError; failed runs return *GenerationError.
func (s *Service) Generate(ctx context.Context, sess *session.Session, opts options.GenerationOptions, observer executor.Observer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if sess == nil {
		sess = session.New()
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sess.ID)
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "generation panicked", fmt.Errorf("%v", r))
			sess.Fail(opts, FailureMessage, "")
			err = &GenerationError{Message: FailureMessage, Err: fmt.Errorf("unexpected error: %v", r)}
		}
		s.save(ctx, sess)
	}()

	if err := s.Validate(opts); err != nil {
		metrics.RecordGeneration(opts.Provider.String(), metrics.OutcomeInvalid, 0)
		sess.Fail(opts, err.Error(), "")
		return err
	}

	temporary := opts.Output == ""
	if temporary {
		path, err := artifact.NewTempOutput(s.outputDir)
		if err != nil {
			return s.fail(ctx, sess, opts, "", err)
		}
		opts.Output = path
		defer func() {
			if err := artifact.Remove(path); err != nil {
				log.Warn("could not remove temporary output", "path", path, "error", err.Error())
			}
		}()
	}

	log.Info("generation started", "repository", opts.Repository, "output", opts.Output)

	result, err := s.backend.Run(ctx, opts, observer)
	if err != nil {
		return s.fail(ctx, sess, opts, executor.LogOf(err), err)
	}

	content, err := artifact.Read(opts.Output)
	if err != nil {
		return s.fail(ctx, sess, opts, result.Log, err)
	}

	output := opts.Output
	if temporary {
		output = ""
	}
	sess.Succeed(opts, output, content, result.Log)
	log.Info("generation succeeded", "bytes", len(content))
	return nil
}

func (s *Service) fail(ctx context.Context, sess *session.Session, opts options.GenerationOptions, log string, cause error) error {
	logger.Error(ctx, "generation failed", cause, "kind", failureKind(cause))
	sess.Fail(opts, FailureMessage, log)
	return &GenerationError{Message: FailureMessage, Log: log, Err: cause}
}

func (s *Service) save(ctx context.Context, sess *session.Session) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(sess); err != nil {
		logger.Error(ctx, "could not save session", err)
	}
}

func failureKind(err error) string {
	switch {
	case executor.IsLaunchError(err):
		return "launch"
	case executor.IsExecutionError(err):
		return "execution"
	case executor.IsCancelled(err):
		return "cancelled"
	case errors.Is(err, artifact.ErrEmpty):
		return "empty"
	default:
		return "internal"
	}
}
