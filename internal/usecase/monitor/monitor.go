// Package monitor watches the externally-owned session state and turns it
// into identity lifecycle events. The session boundary offers no push
// channel, so the monitor samples on a fixed cadence; the Handler
// interface keeps that detail isolated so a push-capable session adapter
// could drive the same events.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// Handler receives identity lifecycle events. Events are delivered one
// at a time, in transition order, on a dispatch goroutine owned by the
// monitor: a handler never observes a logout before the login that
// preceded it, and a slow handler delays later deliveries, not sampling.
type Handler interface {
	IdentityAppeared(ctx context.Context, id uuid.UUID)
	IdentityChanged(ctx context.Context, oldID, newID uuid.UUID)
	IdentityDisappeared(ctx context.Context)
}

// Monitor polls a SessionReader and fires Handler events on transitions.
type Monitor struct {
	sessions domain.SessionReader
	handler  Handler
	interval time.Duration

	last   *uuid.UUID
	events chan func()
	stop   chan struct{}
	done   chan struct{}
}

// New creates a Monitor sampling sessions every interval.
func New(sessions domain.SessionReader, handler Handler, interval time.Duration) *Monitor {
	return &Monitor{
		sessions: sessions,
		handler:  handler,
		interval: interval,
		events:   make(chan func(), 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sampling loop and the event dispatcher. The first
// sample happens immediately so a session already present at boot is
// picked up without waiting a full interval.
func (m *Monitor) Start(ctx context.Context) {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range m.events {
			ev()
		}
	}()

	go func() {
		defer close(m.done)
		defer func() {
			close(m.events)
			<-drained
		}()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.sample(ctx)
		for {
			select {
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sample(ctx)
			}
		}
	}()
}

// Stop halts the monitor and waits for the dispatcher to finish any
// in-flight handler call. No events are delivered after Stop returns.
func (m *Monitor) Stop() {
	close(m.stop)
	<-m.done
}

// dispatch queues an event for ordered delivery. Once the monitor is
// stopping the event is dropped instead.
func (m *Monitor) dispatch(ev func()) {
	select {
	case m.events <- ev:
	case <-m.stop:
	}
}

// sample reads the session state once and fires the event matching the
// transition from the last known identity. Malformed or unreadable
// session data fails open to the logged-out state.
func (m *Monitor) sample(ctx context.Context) {
	id, present, err := m.sessions.CurrentIdentity(ctx)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Session sample failed, treating as no identity")
		present = false
	}

	switch {
	case present && m.last == nil:
		m.last = &id
		m.dispatch(func() { m.handler.IdentityAppeared(ctx, id) })
	case present && *m.last != id:
		old := *m.last
		m.last = &id
		m.dispatch(func() { m.handler.IdentityChanged(ctx, old, id) })
	case !present && m.last != nil:
		m.last = nil
		m.dispatch(func() { m.handler.IdentityDisappeared(ctx) })
	}
}
