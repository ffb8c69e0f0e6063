package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeSession is a mutable session state shared with the monitor.
type fakeSession struct {
	mu      sync.Mutex
	id      uuid.UUID
	present bool
	err     error
}

func (s *fakeSession) set(id uuid.UUID, present bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.present, s.err = id, present, err
}

func (s *fakeSession) CurrentIdentity(context.Context) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.present, s.err
}

type event struct {
	kind  string
	oldID uuid.UUID
	newID uuid.UUID
}

type recorder struct {
	events chan event
}

func newRecorder() *recorder {
	return &recorder{events: make(chan event, 16)}
}

func (r *recorder) IdentityAppeared(_ context.Context, id uuid.UUID) {
	r.events <- event{kind: "appeared", newID: id}
}

func (r *recorder) IdentityChanged(_ context.Context, oldID, newID uuid.UUID) {
	r.events <- event{kind: "changed", oldID: oldID, newID: newID}
}

func (r *recorder) IdentityDisappeared(context.Context) {
	r.events <- event{kind: "disappeared"}
}

func waitEvent(t *testing.T, r *recorder) event {
	t.Helper()
	select {
	case e := <-r.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for identity event")
		return event{}
	}
}

func TestMonitor_LifecycleEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := &fakeSession{}
	handler := newRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	userA := uuid.New()
	userB := uuid.New()

	// Login.
	session.set(userA, true, nil)
	e := waitEvent(t, handler)
	require.Equal(t, "appeared", e.kind)
	assert.Equal(t, userA, e.newID)

	// Switch.
	session.set(userB, true, nil)
	e = waitEvent(t, handler)
	require.Equal(t, "changed", e.kind)
	assert.Equal(t, userA, e.oldID)
	assert.Equal(t, userB, e.newID)

	// Logout.
	session.set(uuid.Nil, false, nil)
	e = waitEvent(t, handler)
	assert.Equal(t, "disappeared", e.kind)
}

func TestMonitor_MalformedSessionFailsOpen(t *testing.T) {
	session := &fakeSession{}
	handler := newRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	userA := uuid.New()
	session.set(userA, true, nil)
	require.Equal(t, "appeared", waitEvent(t, handler).kind)

	// A session blob that no longer parses is a logout, not a crash.
	session.set(uuid.Nil, false, errors.New("unparsable session data"))
	assert.Equal(t, "disappeared", waitEvent(t, handler).kind)
}

func TestMonitor_NoEventsWhileStateUnchanged(t *testing.T) {
	session := &fakeSession{}
	handler := newRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	userA := uuid.New()
	session.set(userA, true, nil)
	require.Equal(t, "appeared", waitEvent(t, handler).kind)

	// Several further polls of the same identity fire nothing.
	select {
	case e := <-handler.events:
		t.Fatalf("unexpected event %q while identity unchanged", e.kind)
	case <-time.After(50 * time.Millisecond):
	}
}

// gatedRecorder blocks its first IdentityAppeared delivery until release
// is closed, so tests can hold an event mid-flight.
type gatedRecorder struct {
	*recorder
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedRecorder() *gatedRecorder {
	return &gatedRecorder{
		recorder: newRecorder(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (g *gatedRecorder) IdentityAppeared(ctx context.Context, id uuid.UUID) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	g.recorder.IdentityAppeared(ctx, id)
}

func TestMonitor_StopWaitsForInFlightHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := &fakeSession{}
	handler := newGatedRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())

	session.set(uuid.New(), true, nil)
	select {
	case <-handler.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a handler call was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(handler.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop never returned after the handler finished")
	}
	assert.Equal(t, "appeared", waitEvent(t, handler.recorder).kind)
}

func TestMonitor_EventsDeliverInTransitionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := &fakeSession{}
	handler := newGatedRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	session.set(uuid.New(), true, nil)
	select {
	case <-handler.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	// Log out while the login delivery is still in flight. The logout
	// event must queue behind it, not overtake it.
	session.set(uuid.Nil, false, nil)
	select {
	case e := <-handler.recorder.events:
		t.Fatalf("event %q delivered while an earlier handler call was still running", e.kind)
	case <-time.After(50 * time.Millisecond):
	}

	close(handler.release)
	assert.Equal(t, "appeared", waitEvent(t, handler.recorder).kind)
	assert.Equal(t, "disappeared", waitEvent(t, handler.recorder).kind)
}

func TestMonitor_StopHaltsSampling(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := &fakeSession{}
	handler := newRecorder()
	m := New(session, handler, 5*time.Millisecond)
	m.Start(context.Background())

	m.Stop()

	// A login after Stop must never surface.
	session.set(uuid.New(), true, nil)
	select {
	case e := <-handler.events:
		t.Fatalf("received event %q after Stop", e.kind)
	case <-time.After(50 * time.Millisecond):
	}
}
