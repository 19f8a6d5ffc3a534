package core

// validation_limiter.go bounds how many files are validated at once across
// all sessions.
//
// Each run holds a slot while its upload is read and decoded (up to 2MB of
// text plus its token slice). When all slots are taken, a run waits up to
// maxWait for one to free up and then fails with ErrTooManyValidations.
// WaitForDrain lets shutdown wait for running validations to finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyValidations is returned when no validation slot frees up within
// the wait limit.
var ErrTooManyValidations = errors.New("too many validations in progress, please try again later")

const (
	// DefaultMaxConcurrentValidations is used when a non-positive limit is configured.
	DefaultMaxConcurrentValidations = 8

	// DefaultMaxWaitTime is used when a non-positive wait is configured.
	DefaultMaxWaitTime = 10 * time.Second
)

// ValidationLimiter is a counting semaphore for validation runs.
type ValidationLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	active  int
	drained chan struct{} // closed while active == 0
}

// NewValidationLimiter allows at most maxConcurrent simultaneous runs.
func NewValidationLimiter(maxConcurrent int, maxWait time.Duration) *ValidationLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentValidations
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	drained := make(chan struct{})
	close(drained)

	return &ValidationLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: drained,
	}
}

// Acquire takes a slot, waiting up to the configured limit.
// On success the caller must call Release exactly once.
func (l *ValidationLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyValidations
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *ValidationLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *ValidationLimiter) Release() {
	l.track(-1)
	<-l.slots
}

func (l *ValidationLimiter) track(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active == 0 && delta > 0 {
		l.drained = make(chan struct{})
	}
	l.active += delta
	if l.active == 0 {
		close(l.drained)
	}
}

// ActiveCount returns the number of running validations.
func (l *ValidationLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *ValidationLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *ValidationLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no validation is running or ctx is done.
func (l *ValidationLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	drained := l.drained
	l.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ValidationLimiterStatus is a point-in-time view of the limiter.
type ValidationLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for health checks and logs.
func (l *ValidationLimiter) Status() ValidationLimiterStatus {
	return ValidationLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
