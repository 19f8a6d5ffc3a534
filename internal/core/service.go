package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ValidationTimeout is the default maximum duration of one validation run.
var ValidationTimeout = 30 * time.Second

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// ServiceConfig holds the tunables of a Service. Zero values select defaults.
type ServiceConfig struct {
	MaxConcurrentValidations int
	MaxWaitTime              time.Duration
	ValidationTimeout        time.Duration
	MinSubmitDuration        time.Duration
	SubmitTimeout            time.Duration
	SessionIdleTTL           time.Duration
	Charset                  CharsetPolicy
}

// Service provides the core business logic: one-shot validation and the
// session store behind the file form.
type Service struct {
	cfg       ServiceConfig
	submitter Submitter
	limiter   *ValidationLimiter

	mu       sync.RWMutex
	sessions map[string]*Session

	inflight sync.WaitGroup
}

// NewService creates a new Service. A nil submitter disables submission.
func NewService(cfg ServiceConfig, submitter Submitter) *Service {
	if cfg.ValidationTimeout <= 0 {
		cfg.ValidationTimeout = ValidationTimeout
	}
	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = DefaultSessionIdleTTL
	}
	return &Service{
		cfg:       cfg,
		submitter: submitter,
		limiter:   NewValidationLimiter(cfg.MaxConcurrentValidations, cfg.MaxWaitTime),
		sessions:  make(map[string]*Session),
	}
}

// SubmissionEnabled reports whether a Submitter is configured.
func (s *Service) SubmissionEnabled() bool {
	return s.submitter != nil
}

// Limiter returns the validation limiter, for status reporting.
func (s *Service) Limiter() *ValidationLimiter {
	return s.limiter
}

func (s *Service) validator() Validator {
	return Validator{Charset: s.cfg.Charset}
}

// Validate runs a one-shot validation outside any session. It waits for a
// validation slot and fails with ErrTooManyValidations when none frees up.
func (s *Service) Validate(ctx context.Context, f RawFile) (Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ValidationTimeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return Report{}, fmt.Errorf("validate: %w", err)
	}
	defer s.limiter.Release()

	return s.validator().Validate(ctx, f), nil
}

// NewSession creates an empty session and returns it.
func (s *Service) NewSession() *Session {
	id := uuid.New().String()
	sess := NewSession(id, SessionConfig{
		Validator:         s.validator(),
		Submitter:         s.submitter,
		Limiter:           s.limiter,
		MinSubmitDuration: s.cfg.MinSubmitDuration,
		SubmitTimeout:     s.cfg.SubmitTimeout,
		inflight:          &s.inflight,
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return sess
}

// Session returns the session with the given id.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// LoadFile validates f as the new selection of session id.
func (s *Service) LoadFile(ctx context.Context, id string, f RawFile) (State, error) {
	sess, err := s.Session(id)
	if err != nil {
		return State{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ValidationTimeout)
	defer cancel()
	return sess.Load(ctx, f)
}

// ClearFile deselects the file of session id.
func (s *Service) ClearFile(id string) (State, error) {
	sess, err := s.Session(id)
	if err != nil {
		return State{}, err
	}
	return sess.Clear(), nil
}

// Submit starts the submission of session id's batch.
func (s *Service) Submit(ctx context.Context, id string) (State, error) {
	sess, err := s.Session(id)
	if err != nil {
		return State{}, err
	}
	return sess.Submit(ctx)
}

// DeleteSession removes a session. A submission it started keeps running
// and is still awaited by WaitForIdle.
func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Clear()
	delete(s.sessions, id)
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// WaitForIdle blocks until running validations and submissions have
// finished, or ctx is done. Used during graceful shutdown.
func (s *Service) WaitForIdle(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		return fmt.Errorf("wait for validations: %w", err)
	}

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for submissions: %w", ctx.Err())
	}
}
