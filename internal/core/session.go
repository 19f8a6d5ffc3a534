package core

// session.go holds the state of one file-selection form: the selected file's
// report, its checklist, and the submission of its batch.
//
// Every transition replaces the whole State value. Loading or clearing a file
// bumps the generation, and any validation or submission still running for an
// older generation has its result dropped when it finishes.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/policycheck/internal/logging"
)

// DefaultMinSubmitDuration is the shortest time a submission stays in the
// submitting state, however fast the endpoint answers.
const DefaultMinSubmitDuration = 2 * time.Second

// DefaultSubmitTimeout bounds a single call to the Submitter.
const DefaultSubmitTimeout = 30 * time.Second

var (
	// ErrSubmissionInProgress is returned by Submit while an earlier
	// submission has not resolved.
	ErrSubmissionInProgress = errors.New("submission in progress")

	// ErrNoBatch is returned by Submit when there is no accepted file with
	// at least one policy number.
	ErrNoBatch = errors.New("no policy batch to submit")

	// ErrSubmissionDisabled is returned by Submit when no Submitter is configured.
	ErrSubmissionDisabled = errors.New("submission disabled")

	// ErrSuperseded is returned by Load when a newer Load or Clear replaced
	// the file before its validation finished.
	ErrSuperseded = errors.New("validation superseded by a newer file")
)

// Phase describes where the selected file is in its lifecycle.
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseValidating Phase = "validating"
	PhaseDone       Phase = "done"
)

// SubmissionStatus is the state of the batch submission.
type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSuccess    SubmissionStatus = "success"
	SubmissionFailure    SubmissionStatus = "failure"
)

// SubmissionOutcome reports the latest submission. ResourceID and
// PolicyCount are only set on success.
type SubmissionOutcome struct {
	Status      SubmissionStatus `json:"status"`
	ResourceID  int64            `json:"resourceId,omitempty"`
	PolicyCount int              `json:"policyCount,omitempty"`
}

// State is a snapshot of a session. Report is nil until a validation run
// completes and must not be modified by the caller.
type State struct {
	SessionID  string            `json:"sessionId"`
	Generation uint64            `json:"generation"`
	Phase      Phase             `json:"phase"`
	Checks     Checks            `json:"checks"`
	Report     *Report           `json:"report,omitempty"`
	Submission SubmissionOutcome `json:"submission"`
}

// CanSubmit reports whether Submit would start a submission from this state.
func (st State) CanSubmit() bool {
	return st.Submission.Status != SubmissionSubmitting &&
		st.Report != nil && st.Report.Accepted() && len(st.Report.Policies) > 0
}

// SessionConfig configures a Session. Zero values select the defaults.
type SessionConfig struct {
	Validator         Validator
	Submitter         Submitter          // nil disables submission
	Limiter           *ValidationLimiter // nil runs validations without a slot
	MinSubmitDuration time.Duration
	SubmitTimeout     time.Duration

	inflight *sync.WaitGroup
}

// Session is one user's file form. It is safe for concurrent use.
type Session struct {
	id  string
	cfg SessionConfig

	mu         sync.Mutex
	state      State
	cancelRun  context.CancelFunc
	submitDone chan struct{}
	lastActive time.Time
}

// NewSession returns an empty session with the given id.
func NewSession(id string, cfg SessionConfig) *Session {
	if cfg.MinSubmitDuration <= 0 {
		cfg.MinSubmitDuration = DefaultMinSubmitDuration
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}
	s := &Session{
		id:         id,
		cfg:        cfg,
		lastActive: time.Now(),
	}
	s.state = s.emptyState(0)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return s.state
}

func (s *Session) emptyState(gen uint64) State {
	return State{
		SessionID:  s.id,
		Generation: gen,
		Phase:      PhaseEmpty,
		Checks:     defaultChecks(),
		Submission: SubmissionOutcome{Status: SubmissionIdle},
	}
}

// reset starts a new generation. The caller must hold s.mu.
func (s *Session) reset(phase Phase) uint64 {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	gen := s.state.Generation + 1
	s.state = s.emptyState(gen)
	s.state.Phase = phase
	s.submitDone = nil
	s.lastActive = time.Now()
	return gen
}

// Load replaces the selected file with f and validates it. Any validation
// still running for an earlier file is cancelled and the submission outcome
// goes back to idle before the new run starts.
//
// A rejected file is not an error: the returned State carries the report.
// Load returns ErrSuperseded if another Load or Clear happened meanwhile.
func (s *Session) Load(ctx context.Context, f RawFile) (State, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	gen := s.reset(PhaseValidating)
	s.cancelRun = cancel
	s.mu.Unlock()

	log := s.logger(ctx, gen)
	log.Debug("file load started", "file", f.Name)

	if s.cfg.Limiter != nil {
		if err := s.cfg.Limiter.Acquire(runCtx); err != nil {
			return s.abandon(ctx, gen, err)
		}
		defer s.cfg.Limiter.Release()
	}

	report := s.cfg.Validator.Validate(runCtx, f)
	if runCtx.Err() != nil {
		return s.abandon(ctx, gen, runCtx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Generation != gen {
		log.Debug("validation result discarded", "current_generation", s.state.Generation)
		return State{}, ErrSuperseded
	}
	s.cancelRun = nil
	s.state.Phase = PhaseDone
	s.state.Checks = report.Checks
	s.state.Report = &report
	s.lastActive = time.Now()
	return s.state, nil
}

// abandon ends a run that never produced a report. If the run is still the
// current one the session goes back to empty.
func (s *Session) abandon(ctx context.Context, gen uint64, cause error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generation != gen {
		return State{}, ErrSuperseded
	}
	s.cancelRun = nil
	s.state.Phase = PhaseEmpty
	s.logger(ctx, gen).Warn("file load abandoned", "error", cause)
	return s.state, fmt.Errorf("load file: %w", cause)
}

// Clear deselects the file, cancelling any running validation, and resets
// the session to empty.
func (s *Session) Clear() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(PhaseEmpty)
	return s.state
}

// Submit starts sending the accepted batch to the Submitter. The returned
// State is already in the submitting status; the outcome arrives later and
// can be awaited with Wait.
func (s *Session) Submit(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	switch {
	case s.state.Submission.Status == SubmissionSubmitting:
		return s.state, ErrSubmissionInProgress
	case s.cfg.Submitter == nil:
		return s.state, ErrSubmissionDisabled
	case !s.state.CanSubmit():
		return s.state, ErrNoBatch
	}

	batch := cloneRecords(s.state.Report.Policies)
	gen := s.state.Generation
	done := make(chan struct{})

	s.state.Submission = SubmissionOutcome{Status: SubmissionSubmitting}
	s.submitDone = done

	log := s.logger(ctx, gen)
	log.Info("submission started", "policies", len(batch))

	if s.cfg.inflight != nil {
		s.cfg.inflight.Add(1)
	}
	go s.runSubmission(log, gen, batch, done)

	return s.state, nil
}

// runSubmission calls the Submitter detached from the request that started
// it. The outcome is held back until the minimum duration has passed.
func (s *Session) runSubmission(log *slog.Logger, gen uint64, batch []PolicyRecord, done chan struct{}) {
	defer func() {
		close(done)
		if s.cfg.inflight != nil {
			s.cfg.inflight.Done()
		}
	}()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SubmitTimeout)
	defer cancel()

	id, err := s.submit(ctx, batch)
	_ = DelayUntil(context.Background(), start, s.cfg.MinSubmitDuration)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generation != gen {
		log.Info("submission result discarded", "current_generation", s.state.Generation)
		return
	}
	if err != nil {
		log.Error("submission failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		s.state.Submission = SubmissionOutcome{Status: SubmissionFailure}
		return
	}
	log.Info("submission succeeded", "resource_id", id, "duration_ms", time.Since(start).Milliseconds())
	s.state.Submission = SubmissionOutcome{
		Status:      SubmissionSuccess,
		ResourceID:  id,
		PolicyCount: len(batch),
	}
}

// submit shields the session from a panicking Submitter.
func (s *Session) submit(ctx context.Context, batch []PolicyRecord) (id int64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("submitter panic: %v", p)
		}
	}()
	return s.cfg.Submitter.Submit(ctx, batch)
}

// Wait blocks until the pending submission, if any, has resolved and then
// returns the current state.
func (s *Session) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	done := s.submitDone
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}
	return s.State(), nil
}

func (s *Session) logger(ctx context.Context, gen uint64) *slog.Logger {
	attrs := append([]any{"session_id", s.id, "generation", gen}, ClientFromContext(ctx).logAttrs()...)
	return logging.WithFields(ctx, attrs...)
}

// busy reports whether a validation or submission is running.
func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase == PhaseValidating || s.state.Submission.Status == SubmissionSubmitting
}

// idleSince returns the time of the last operation on the session.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
