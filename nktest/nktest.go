// Package nktest provides a deadline-bounded harness for running a Host to
// completion in tests, so a scheduling bug that would otherwise hang a test
// suite forever instead fails with a clear timeout. It follows the
// WithClock/clock.After(d) pattern pipz's Backoff and CircuitBreaker use to
// stay testable against a fake clock.
package nktest

import (
	"time"

	"github.com/cfallin/nk"
	"github.com/zoobzio/clockz"
)

type config struct {
	clock   clockz.Clock
	timeout time.Duration
}

// Option configures Run.
type Option func(*config)

// WithClock overrides the clock used to enforce the deadline, so tests can
// substitute clockz.NewFakeClock() instead of waiting on real time.
func WithClock(c clockz.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithTimeout overrides the default 10-second deadline.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) { cfg.timeout = d }
}

// Run starts h.Run(workers) and waits for it to return. If it has not
// returned by the configured deadline, Run calls h.Shutdown, waits for it to
// unwind, and returns ErrDeadlineExceeded.
func Run(h *nk.Host, workers int, opts ...Option) error {
	cfg := config{
		clock:   clockz.RealClock,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	done := make(chan error, 1)
	go func() {
		done <- h.Run(workers)
	}()

	select {
	case err := <-done:
		return err
	case <-cfg.clock.After(cfg.timeout):
		h.Shutdown()
		<-done
		return ErrDeadlineExceeded
	}
}
