package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger reports whether an infrastructure connection is healthy.
type Pinger func(ctx context.Context) error

// Reconnector watches a connection and schedules fixed-delay reconnect
// attempts. The delay is deliberately not exponential and only one attempt
// may be in flight at a time; both are explicit knobs rather than implicit
// booleans buried in event handlers.
type Reconnector struct {
	Name      string
	Delay     time.Duration
	Ping      Pinger
	Reconnect func(ctx context.Context) error
	Logger    *logrus.Logger

	mu       sync.Mutex
	inFlight bool
}

// Watch pings every interval and triggers a reconnect attempt after Delay
// whenever the ping fails. It returns when ctx is done.
func (r *Reconnector) Watch(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.Ping(ctx); err != nil {
				r.Logger.WithError(err).WithField("conn", r.Name).Error("connection lost")
				r.schedule(ctx)
			}
		}
	}
}

// schedule arms a single reconnect attempt after the configured delay.
// A second failure while one attempt is pending is a no-op.
func (r *Reconnector) schedule(ctx context.Context) {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(r.Delay):
			if err := r.Reconnect(ctx); err != nil {
				r.Logger.WithError(err).WithField("conn", r.Name).Error("reconnect attempt failed")
			} else {
				r.Logger.WithField("conn", r.Name).Info("reconnected")
			}
		}
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()
}
